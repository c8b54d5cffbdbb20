package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// CalibrateOptions tunes a calibration run
type CalibrateOptions struct {
	// Alpha is the ridge penalty; zero means the catalog default
	Alpha float64
	// KeepUnobserved leaves prior weights on options no case study selected
	KeepUnobserved bool
	// CanonicalizeCases maps free-text answers onto the option vocabulary first
	CanonicalizeCases bool
	// Canon overrides the canonicalizers; nil uses DefaultCanonSet
	Canon CanonSet
}

// OptionRef names one (question, option text) feature
type OptionRef struct {
	Question int    `json:"question"`
	Option   string `json:"option"`
}

// StyleResidual summarizes absolute training residuals for one style
type StyleResidual struct {
	Style  Style   `json:"style"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// CalibrationReport describes a finished fit
type CalibrationReport struct {
	Cases            int             `json:"cases"`
	Features         int             `json:"features"`
	Alpha            float64         `json:"alpha"`
	Solver           string          `json:"solver"`
	Malformed        map[int]int     `json:"malformed,omitempty"`
	Unobserved       []OptionRef     `json:"unobserved,omitempty"`
	TrainingAccuracy float64         `json:"training_accuracy"`
	Residuals        []StyleResidual `json:"residuals"`
}

// Calibrator fits one-vs-rest ridge regressions from case studies
type Calibrator struct {
	catalog *Catalog
}

func NewCalibrator(catalog *Catalog) *Calibrator {
	return &Calibrator{catalog: catalog}
}

// featureLayout is the one-hot column layout: questions ascending, options in
// schema row order within each question
type featureLayout struct {
	offset  map[int]int
	options map[int]map[string]int
	refs    []OptionRef
}

func newFeatureLayout(schema *WeightTable, questions []int) featureLayout {
	fl := featureLayout{
		offset:  make(map[int]int, len(questions)),
		options: make(map[int]map[string]int, len(questions)),
	}
	for _, q := range questions {
		fl.offset[q] = len(fl.refs)
		opts := schema.TextOptions(q)
		fl.options[q] = make(map[string]int, len(opts))
		for i, o := range opts {
			fl.options[q][o] = i
			fl.refs = append(fl.refs, OptionRef{Question: q, Option: o})
		}
	}
	return fl
}

func (fl featureLayout) column(q int, option string) (int, bool) {
	i, ok := fl.options[q][option]
	if !ok {
		return 0, false
	}
	return fl.offset[q] + i, true
}

// Calibrate solves (XᵗX + αI)W = XᵗY once for all styles and scatters the
// coefficients into a copy of schema. The schema itself is never modified.
func (c *Calibrator) Calibrate(cases []CaseStudy, schema *WeightTable, opts CalibrateOptions) (*WeightTable, CalibrationReport, error) {
	var report CalibrationReport

	if schema == nil {
		return nil, report, &MissingSourceError{}
	}
	if len(cases) == 0 {
		return nil, report, &InputError{Field: "cases", Reason: "at least one case study is required"}
	}

	alpha := opts.Alpha
	if alpha == 0 {
		alpha = c.catalog.Alpha()
	}
	if alpha <= 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, report, &InputError{Field: "alpha", Reason: fmt.Sprintf("must be positive, got %v", alpha)}
	}

	canon := opts.Canon
	if canon == nil {
		canon = DefaultCanonSet()
	}

	// resolve each case's expected style to a target column
	styles := c.catalog.Styles()
	targets := make([]int, len(cases))
	for i, cs := range cases {
		st := CanonicalStyle(string(cs.ExpectedStyle))
		idx := c.catalog.StyleIndex(st)
		if idx < 0 {
			return nil, report, &InputError{Field: "expected_style", Reason: fmt.Sprintf("case %d: unknown style %q", i+1, cs.ExpectedStyle)}
		}
		targets[i] = idx
	}

	layout := newFeatureLayout(schema, c.catalog.Questions())
	n, p, k := len(cases), len(layout.refs), len(styles)
	if p == 0 {
		return nil, report, &SchemaError{Source: schema.Source(), Detail: "weight table has no answer options"}
	}

	report = CalibrationReport{
		Cases:     n,
		Features:  p,
		Alpha:     alpha,
		Malformed: make(map[int]int),
	}

	// encode cases as one-hot rows; unmatched answers leave the row blank
	X := mat.NewDense(n, p, nil)
	Y := mat.NewDense(n, k, nil)
	observed := make([]bool, p)

	for i, cs := range cases {
		Y.Set(i, targets[i], 1)
		for _, q := range c.catalog.Questions() {
			if len(layout.options[q]) == 0 {
				continue
			}
			raw := cs.Answers[q]
			answer := Normalize(raw)
			if opts.CanonicalizeCases {
				answer = canon.Apply(q, raw)
			}
			col, ok := layout.column(q, answer)
			if !ok {
				report.Malformed[q]++
				continue
			}
			X.Set(i, col, 1)
			observed[col] = true
		}
	}

	// solve
	W, solver, err := solveRidge(X, Y, alpha)
	if err != nil {
		return nil, report, fmt.Errorf("ridge solve: %w", err)
	}
	report.Solver = solver

	// scatter coefficients back into table rows
	out := schema.clone()
	for _, st := range styles {
		out.ensureStyleColumn(st)
	}
	for i := range out.rows {
		r := &out.rows[i]
		col, ok := layout.column(r.Question, Normalize(r.AnswerText))
		if !ok {
			continue
		}
		if !observed[col] && opts.KeepUnobserved {
			continue
		}
		for j, st := range styles {
			r.Weights[st] = W.At(col, j)
		}
	}
	out.reindex()

	// report
	for col, seen := range observed {
		if !seen {
			report.Unobserved = append(report.Unobserved, layout.refs[col])
		}
	}
	report.TrainingAccuracy, report.Residuals = fitQuality(X, Y, W, targets, styles)

	return out, report, nil
}

// solveRidge returns the p×k coefficient matrix. Cholesky is tried first since
// XᵗX + αI is symmetric positive definite for α > 0.
func solveRidge(X, Y *mat.Dense, alpha float64) (*mat.Dense, string, error) {
	_, p := X.Dims()

	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())
	for i := 0; i < p; i++ {
		xtx.SetSym(i, i, xtx.At(i, i)+alpha)
	}

	var xty mat.Dense
	xty.Mul(X.T(), Y)

	// fall back to LU when factorisation fails
	var W mat.Dense
	var chol mat.Cholesky
	if chol.Factorize(&xtx) {
		if err := chol.SolveTo(&W, &xty); err == nil {
			return &W, "cholesky", nil
		}
	}

	W.Reset()
	if err := W.Solve(&xtx, &xty); err != nil {
		return nil, "", err
	}
	return &W, "lu", nil
}

// fitQuality computes training accuracy from X·W with first-max arg-max and the
// per-style absolute residual summaries
func fitQuality(X, Y, W *mat.Dense, targets []int, styles []Style) (float64, []StyleResidual) {
	var pred mat.Dense
	pred.Mul(X, W)
	n, k := pred.Dims()

	correct := 0
	for i := 0; i < n; i++ {
		best := 0
		for j := 1; j < k; j++ {
			if pred.At(i, j) > pred.At(i, best) {
				best = j
			}
		}
		if best == targets[i] {
			correct++
		}
	}

	residuals := make([]StyleResidual, k)
	for j := 0; j < k; j++ {
		abs := make([]float64, n)
		for i := 0; i < n; i++ {
			abs[i] = math.Abs(pred.At(i, j) - Y.At(i, j))
		}
		mean, _ := stats.Mean(abs)
		median, _ := stats.Median(abs)
		residuals[j] = StyleResidual{Style: styles[j], Mean: mean, Median: median}
	}

	return float64(correct) / float64(n), residuals
}
