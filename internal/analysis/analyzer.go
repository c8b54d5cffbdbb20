package analysis

import (
	"fmt"
	"log/slog"
	"sync"
)

// Analyzer orchestrates scoring and calibration against the active weight table
type Analyzer struct {
	catalog    *Catalog
	scorer     *Scorer
	calibrator *Calibrator
	store      *WeightStore

	mu    sync.RWMutex
	table *WeightTable
}

// NewAnalyzer creates an analyzer without loading weights; call Reload or
// ReplaceWeights before scoring.
func NewAnalyzer(catalog *Catalog, store *WeightStore) *Analyzer {
	return &Analyzer{
		catalog:    catalog,
		scorer:     NewScorer(catalog),
		calibrator: NewCalibrator(catalog),
		store:      store,
	}
}

func (a *Analyzer) Catalog() *Catalog { return a.catalog }

func (a *Analyzer) Store() *WeightStore { return a.store }

// Reload resolves the weight source again and installs it
func (a *Analyzer) Reload() error {
	table, err := a.store.Load()
	if err != nil {
		return err
	}
	a.ReplaceWeights(table)
	return nil
}

// ReplaceWeights swaps the active table
func (a *Analyzer) ReplaceWeights(table *WeightTable) {
	a.mu.Lock()
	a.table = table
	a.mu.Unlock()

	if missing := table.MissingStyles(); len(missing) > 0 {
		slog.Warn("Weight table lacks style columns, they will score zero",
			"source", table.Source(), "missing", missing)
	}
	slog.Info("Weight table installed",
		"source", table.Source(), "rows", table.Len(), "fingerprint", table.Fingerprint())
}

// Weights returns the active table
func (a *Analyzer) Weights() (*WeightTable, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.table == nil {
		return nil, a.noTable()
	}
	return a.table, nil
}

func (a *Analyzer) noTable() error {
	if a.store == nil {
		return &MissingSourceError{}
	}
	_, err := a.store.Resolve()
	if err == nil {
		return fmt.Errorf("weight table not loaded")
	}
	return err
}

// Fingerprint of the active table, empty when none is loaded
func (a *Analyzer) Fingerprint() string {
	t, err := a.Weights()
	if err != nil {
		return ""
	}
	return t.Fingerprint()
}

// Questions returns the questionnaire model for the active table
func (a *Analyzer) Questions() ([]FormQuestion, error) {
	t, err := a.Weights()
	if err != nil {
		return nil, err
	}
	return t.Form(), nil
}

func (a *Analyzer) Score(answers AnswerVector) (ScoreResult, error) {
	t, err := a.Weights()
	if err != nil {
		return ScoreResult{}, err
	}
	return a.scorer.Score(t, answers)
}

func (a *Analyzer) ScoreBatch(batch []AnswerVector) ([]ScoreResult, error) {
	t, err := a.Weights()
	if err != nil {
		return nil, err
	}
	return a.scorer.ScoreBatch(t, batch)
}

// ScoreWith scores against a table obtained from Weights, so that callers can
// key results by that table's fingerprint
func (a *Analyzer) ScoreWith(table *WeightTable, answers AnswerVector) (ScoreResult, error) {
	return a.scorer.Score(table, answers)
}

// Calibrate fits new weights from cases. With install set the result is saved
// to the calibrated path and becomes the active table; a failed save leaves the
// current table in place.
func (a *Analyzer) Calibrate(cases []CaseStudy, opts CalibrateOptions, install bool) (*WeightTable, CalibrationReport, error) {
	schema, err := a.Weights()
	if err != nil {
		return nil, CalibrationReport{}, err
	}

	table, report, err := a.calibrator.Calibrate(cases, schema, opts)
	if err != nil {
		return nil, report, err
	}

	slog.Info("Calibration finished",
		"cases", report.Cases,
		"features", report.Features,
		"alpha", report.Alpha,
		"solver", report.Solver,
		"training_accuracy", report.TrainingAccuracy,
		"unobserved", len(report.Unobserved))

	if !install {
		return table, report, nil
	}
	if a.store == nil {
		return nil, report, &MissingSourceError{}
	}

	path := a.store.CalibratedPath()
	if err := a.store.Save(path, table); err != nil {
		return nil, report, err
	}
	table.source = path
	a.ReplaceWeights(table)

	return table, report, nil
}
