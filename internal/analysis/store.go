package analysis

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
)

// Default weight files, tried in order under the data directory
const (
	CalibratedWeightsFile = "pm_style_weights_CALIBRATED.csv"
	FullWeightsFile       = "pm_style_weights_FULL.csv"
)

// DefaultWeightFiles is the fallback search order
var DefaultWeightFiles = []string{CalibratedWeightsFile, FullWeightsFile}

// WeightStore resolves and persists weight tables
type WeightStore struct {
	dataDir  string
	explicit string
	catalog  *Catalog
}

// NewWeightStore creates a store rooted at dataDir. explicit, when set, wins
// over the defaults.
func NewWeightStore(dataDir, explicit string, catalog *Catalog) *WeightStore {
	return &WeightStore{dataDir: dataDir, explicit: explicit, catalog: catalog}
}

func (s *WeightStore) DataDir() string { return s.dataDir }

// CalibratedPath is where calibrated tables are installed
func (s *WeightStore) CalibratedPath() string {
	return filepath.Join(s.dataDir, CalibratedWeightsFile)
}

// Resolve returns the first weight file that exists
func (s *WeightStore) Resolve() (string, error) {
	var tried []string
	if s.explicit != "" {
		tried = append(tried, s.explicit)
		if fileExists(s.explicit) {
			return s.explicit, nil
		}
	}
	for _, name := range DefaultWeightFiles {
		path := filepath.Join(s.dataDir, name)
		tried = append(tried, path)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", &MissingSourceError{Tried: tried}
}

// Load resolves and parses the active weight table
func (s *WeightStore) Load() (*WeightTable, error) {
	path, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	return s.LoadFile(path)
}

// LoadFile parses a CSV or XLSX weight file
func (s *WeightStore) LoadFile(path string) (*WeightTable, error) {
	t, err := tabular.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingSourceError{Tried: []string{path}}
		}
		return nil, &SchemaError{Source: path, Detail: err.Error()}
	}
	return LoadWeightTable(t, s.catalog, path)
}

// LoadFrom parses an uploaded table; name picks the format by extension
func (s *WeightStore) LoadFrom(r io.Reader, name string) (*WeightTable, error) {
	t, err := tabular.Read(r, tabular.FormatFor(name))
	if err != nil {
		return nil, &SchemaError{Source: name, Detail: err.Error()}
	}
	return LoadWeightTable(t, s.catalog, name)
}

// Save writes the table atomically so readers never see a partial file
func (s *WeightStore) Save(path string, table *WeightTable) error {
	if err := tabular.WriteFileAtomic(path, table.Table()); err != nil {
		return fmt.Errorf("failed to save weight table: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
