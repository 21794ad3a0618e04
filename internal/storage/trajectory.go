package storage

import (
	"encoding/csv"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/san-kum/dropscene/internal/dynamo"
)

const TrajectoryFile = "trajectory.csv"

var trajectoryHeader = []string{"frame", "time", "body", "x", "y", "z", "vx", "vy", "vz"}

// TrajectoryRecorder appends every body's state to a CSV file after each
// frame. Write errors are kept and reported by Close.
type TrajectoryRecorder struct {
	file *os.File
	w    *csv.Writer
	err  error
}

func NewTrajectoryRecorder(path string) (*TrajectoryRecorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(file)
	if err := w.Write(trajectoryHeader); err != nil {
		file.Close()
		return nil, err
	}
	return &TrajectoryRecorder{file: file, w: w}, nil
}

func (r *TrajectoryRecorder) OnFrame(frame int, t float64, bodies []*dynamo.Body) {
	if r.err != nil {
		return
	}
	for _, b := range bodies {
		row := []string{
			strconv.Itoa(frame),
			strconv.FormatFloat(t, 'f', 6, 64),
			strconv.Itoa(b.ID),
		}
		for _, v := range b.Position {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		for _, v := range b.Velocity {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := r.w.Write(row); err != nil {
			r.err = err
			return
		}
	}
}

func (r *TrajectoryRecorder) Close() error {
	r.w.Flush()
	if err := r.w.Error(); err != nil && r.err == nil {
		r.err = err
	}
	if err := r.file.Close(); err != nil && r.err == nil {
		r.err = err
	}
	return r.err
}

// Sample is one body's state at one frame.
type Sample struct {
	Frame    int
	Time     float64
	Position [3]float64
	Velocity [3]float64
}

// LoadTrajectory reads a trajectory CSV and groups samples by body id.
// Malformed rows are skipped.
func LoadTrajectory(path string) (map[int][]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make(map[int][]Sample)
	if len(records) < 2 {
		return out, nil
	}

	for _, record := range records[1:] {
		if len(record) != len(trajectoryHeader) {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		id, err := strconv.Atoi(record[2])
		if err != nil {
			continue
		}
		vals := make([]float64, 7)
		ok := true
		for j, idx := range []int{1, 3, 4, 5, 6, 7, 8} {
			vals[j], err = strconv.ParseFloat(record[idx], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out[id] = append(out[id], Sample{
			Frame:    frame,
			Time:     vals[0],
			Position: [3]float64{vals[1], vals[2], vals[3]},
			Velocity: [3]float64{vals[4], vals[5], vals[6]},
		})
	}

	return out, nil
}

// Heights returns the y series of one body padded with NaN for the frames
// before it spawned, so all series share the frame axis.
func Heights(samples []Sample, frames int) []float64 {
	out := make([]float64, frames)
	for i := range out {
		out[i] = math.NaN()
	}
	for _, s := range samples {
		if s.Frame >= 0 && s.Frame < frames {
			out[s.Frame] = s.Position[1]
		}
	}
	return out
}

// BodyIDs returns the ids present in a loaded trajectory in ascending order.
func BodyIDs(traj map[int][]Sample) []int {
	ids := make([]int, 0, len(traj))
	for id := range traj {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
