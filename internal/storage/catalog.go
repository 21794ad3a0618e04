package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const CatalogFile = "runs.db"

// ErrRunNotFound is returned by Catalog.Load for an unknown run id.
var ErrRunNotFound = errors.New("storage: run not found")

// Run is one generated animation as recorded in the catalog.
type Run struct {
	ID        string             `gorm:"primaryKey" json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Preset    string             `json:"preset,omitempty"`
	Seed      int64              `json:"seed"`
	FPS       int                `json:"fps"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Bodies    int                `json:"bodies"`
	OutputDir string             `json:"output_dir"`
	Config    datatypes.JSON     `json:"config"`
	Metrics   datatypes.JSON     `json:"metrics"`
	Values    map[string]float64 `gorm:"-" json:"-"`
}

// NewRunID derives a run id from the wall clock and seed so parallel runs
// started in the same second stay distinct.
func NewRunID(seed int64) string {
	return fmt.Sprintf("run_%d_%d", time.Now().Unix(), seed)
}

// MetricValues decodes the stored metrics column.
func (r *Run) MetricValues() (map[string]float64, error) {
	out := make(map[string]float64)
	if len(r.Metrics) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Metrics, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Catalog indexes runs in a local SQLite database under the data directory.
type Catalog struct {
	db *gorm.DB
}

func OpenCatalog(dataDir string) (*Catalog, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dataDir, CatalogFile)), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open run catalog: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Run{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate run catalog: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Record stores run, encoding config and metric values as JSON columns.
func (c *Catalog) Record(run *Run, config any) error {
	cfg, err := json.Marshal(config)
	if err != nil {
		return err
	}
	run.Config = datatypes.JSON(cfg)

	values := run.Values
	if values == nil {
		values = map[string]float64{}
	}
	m, err := json.Marshal(values)
	if err != nil {
		return err
	}
	run.Metrics = datatypes.JSON(m)

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	return c.db.Create(run).Error
}

// List returns every run, newest first.
func (c *Catalog) List() ([]Run, error) {
	var runs []Run
	if err := c.db.Order("timestamp desc").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *Catalog) Load(id string) (*Run, error) {
	var run Run
	err := c.db.First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
