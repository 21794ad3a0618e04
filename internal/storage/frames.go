package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/dropscene/internal/dynamo"
	"github.com/san-kum/dropscene/internal/scene"
)

// FrameName returns the file name for a frame, e.g. frame_0007.json.
func FrameName(frame int) string {
	return fmt.Sprintf("frame_%04d.json", frame)
}

// FrameWriter writes one indented JSON document per frame into a directory.
type FrameWriter struct {
	dir     string
	written int
}

func NewFrameWriter(dir string) *FrameWriter {
	return &FrameWriter{dir: dir}
}

func (w *FrameWriter) Init() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", dynamo.ErrOutput, w.dir, err)
	}
	return nil
}

func (w *FrameWriter) Dir() string  { return w.dir }
func (w *FrameWriter) Written() int { return w.written }

func (w *FrameWriter) Path(frame int) string {
	return filepath.Join(w.dir, FrameName(frame))
}

// WriteFrame encodes into a temporary file and renames it into place, so a
// frame file either holds a complete document or does not exist.
func (w *FrameWriter) WriteFrame(frame int, doc *scene.Document) error {
	path := w.Path(frame)
	file, err := os.CreateTemp(w.dir, ".frame-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrOutput, err)
	}
	tmp := file.Name()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: encode %s: %v", dynamo.ErrOutput, path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", dynamo.ErrOutput, path, err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: chmod %s: %v", dynamo.ErrOutput, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", dynamo.ErrOutput, path, err)
	}

	w.written++
	return nil
}

// LoadFrame decodes a previously written frame back into a document.
func LoadFrame(path string) (*scene.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc scene.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

// ReadFrame decodes a previously written frame into a generic map.
func ReadFrame(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
