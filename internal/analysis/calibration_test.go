package analysis

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const toySchemaCSV = `question,question_text,answer_text,Lean: Design Build,Lean: CMAR
1,Type,X,0,0
1,Type,Y,0,0
`

func TestCalibrator_SeparableToyCase(t *testing.T) {
	schema := mustWeights(t, toySchemaCSV)
	cases := []CaseStudy{
		{Answers: AnswerVector{1: "X"}, ExpectedStyle: StyleDesignBuild},
		{Answers: AnswerVector{1: "Y"}, ExpectedStyle: StyleCMAR},
	}

	out, report, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{})
	require.NoError(t, err)

	// (XᵗX + I) = 2I, so every observed coefficient is 0.5
	x := func(s Style) float64 { v, _ := out.Lookup(1, "X", s); return v }
	y := func(s Style) float64 { v, _ := out.Lookup(1, "Y", s); return v }
	assert.InDelta(t, 0.5, x(StyleDesignBuild), 1e-12)
	assert.InDelta(t, 0.0, x(StyleCMAR), 1e-12)
	assert.InDelta(t, 0.0, y(StyleDesignBuild), 1e-12)
	assert.InDelta(t, 0.5, y(StyleCMAR), 1e-12)

	assert.Equal(t, 2, report.Cases)
	assert.Equal(t, 2, report.Features)
	assert.Equal(t, DefaultAlpha, report.Alpha)
	assert.Equal(t, "cholesky", report.Solver)
	assert.Equal(t, 1.0, report.TrainingAccuracy)
	assert.Empty(t, report.Unobserved)
	assert.Empty(t, report.Malformed)

	require.Len(t, report.Residuals, StyleCount)
	assert.Equal(t, StyleDesignBuild, report.Residuals[0].Style)
	assert.InDelta(t, 0.25, report.Residuals[0].Mean, 1e-12)
	assert.InDelta(t, 0.25, report.Residuals[0].Median, 1e-12)

	scorer := NewScorer(DefaultCatalog())
	r, err := scorer.Score(out, AnswerVector{1: "X"})
	require.NoError(t, err)
	assert.Equal(t, StyleDesignBuild, r.Recommended)
	r, err = scorer.Score(out, AnswerVector{1: "Y"})
	require.NoError(t, err)
	assert.Equal(t, StyleCMAR, r.Recommended)
}

func TestCalibrator_SharedFeatures(t *testing.T) {
	schema := mustWeights(t, fullCSV)
	cases := []CaseStudy{
		{Answers: AnswerVector{1: "Vertical", 2: "None"}, ExpectedStyle: StyleDesignBuild},
		{Answers: AnswerVector{1: "Horizontal", 2: "Short-term O&M"}, ExpectedStyle: StyleCMAR},
	}

	out, report, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{})
	require.NoError(t, err)

	// each case activates two features: [[2,1],[1,2]] w = [1,1] gives w = 1/3
	v, _ := out.Lookup(1, "Vertical", StyleDesignBuild)
	assert.InDelta(t, 1.0/3, v, 1e-12)
	v, _ = out.Lookup(2, "None", StyleDesignBuild)
	assert.InDelta(t, 1.0/3, v, 1e-12)
	v, _ = out.Lookup(2, "Short-term O&M", StyleCMAR)
	assert.InDelta(t, 1.0/3, v, 1e-12)

	assert.Equal(t, 7, report.Features)
	assert.ElementsMatch(t, []OptionRef{
		{Question: 1, Option: "Unknown"},
		{Question: 2, Option: "Long-term O&M"},
		{Question: 2, Option: "Finance + Operate"},
	}, report.Unobserved)
}

func TestCalibrator_Alpha(t *testing.T) {
	schema := mustWeights(t, toySchemaCSV)
	cases := []CaseStudy{{Answers: AnswerVector{1: "X"}, ExpectedStyle: StyleDesignBuild}}

	tests := []struct {
		name  string
		alpha float64
		want  float64
	}{
		{"default alpha", 0, 1.0 / 2},
		{"weak penalty", 0.5, 1.0 / 1.5},
		{"strong penalty", 9, 1.0 / 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, report, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{Alpha: tt.alpha})
			require.NoError(t, err)
			v, _ := out.Lookup(1, "X", StyleDesignBuild)
			assert.InDelta(t, tt.want, v, 1e-12)
			if tt.alpha != 0 {
				assert.Equal(t, tt.alpha, report.Alpha)
			}
		})
	}
}

func TestCalibrator_PreservesLayout(t *testing.T) {
	csv := "question,notes,question_text,answer_text,Lean: CMAR\n" +
		"1,first,Type,X,9\n" +
		"1,second,Type,Y,9\n" +
		"1,dup,Type,X,9\n"
	schema := mustWeights(t, csv)
	cases := []CaseStudy{{Answers: AnswerVector{1: "X"}, ExpectedStyle: StyleCMAR}}

	out, _, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{})
	require.NoError(t, err)

	tab := out.Table()
	assert.Equal(t, []string{
		"question", "notes", "question_text", "answer_text", "Lean: CMAR",
		"Lean: Design Build", "Lean: JOC", "Agile: IPD", "Agile: P3", "Predictive: DBB", "Predictive: BOT",
	}, tab.Header)
	require.Equal(t, 3, tab.Len())
	assert.Equal(t, "first", tab.Cell(0, "notes"))
	assert.Equal(t, "second", tab.Cell(1, "notes"))
	assert.Equal(t, "dup", tab.Cell(2, "notes"))

	// duplicate rows of one option receive the same coefficient
	cell := func(i int) float64 {
		v, err := strconv.ParseFloat(tab.Cell(i, "Lean: CMAR"), 64)
		require.NoError(t, err)
		return v
	}
	assert.InDelta(t, 0.5, cell(0), 1e-12)
	assert.InDelta(t, 0.5, cell(2), 1e-12)
	assert.Equal(t, "0", tab.Cell(1, "Lean: CMAR"))
	assert.Equal(t, "0", tab.Cell(0, "Predictive: BOT"))
	assert.Empty(t, out.MissingStyles())

	// the schema is untouched
	v, _ := schema.Lookup(1, "X", StyleCMAR)
	assert.Equal(t, 9.0, v)
	assert.NotEqual(t, schema.Fingerprint(), out.Fingerprint())
}

func TestCalibrator_KeepUnobserved(t *testing.T) {
	csv := "question,question_text,answer_text,Lean: CMAR\n" +
		"1,Type,X,4\n" +
		"1,Type,Z,7\n"
	schema := mustWeights(t, csv)
	cases := []CaseStudy{{Answers: AnswerVector{1: "X"}, ExpectedStyle: StyleCMAR}}

	tests := []struct {
		name string
		keep bool
		want float64
	}{
		{"unobserved options are zeroed", false, 0},
		{"unobserved options keep prior weights", true, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, report, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{KeepUnobserved: tt.keep})
			require.NoError(t, err)

			v, _ := out.Lookup(1, "Z", StyleCMAR)
			assert.Equal(t, tt.want, v)
			v, _ = out.Lookup(1, "X", StyleCMAR)
			assert.InDelta(t, 0.5, v, 1e-12)
			assert.Equal(t, []OptionRef{{Question: 1, Option: "Z"}}, report.Unobserved)
		})
	}
}

func TestCalibrator_Canonicalization(t *testing.T) {
	schema := mustWeights(t, fullCSV)
	cases := []CaseStudy{
		{Answers: AnswerVector{1: "Vertical", 2: "short term o&m"}, ExpectedStyle: "Lean: Design-Build"},
	}

	_, report, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 1}, report.Malformed)

	out, report, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{CanonicalizeCases: true})
	require.NoError(t, err)
	assert.Empty(t, report.Malformed)

	v, _ := out.Lookup(2, "Short-term O&M", StyleDesignBuild)
	assert.InDelta(t, 1.0/3, v, 1e-12)
}

func TestCalibrator_MalformedAnswerEncodesZeroBlock(t *testing.T) {
	schema := mustWeights(t, toySchemaCSV)
	cases := []CaseStudy{
		{Answers: AnswerVector{1: "X"}, ExpectedStyle: StyleDesignBuild},
		{Answers: AnswerVector{1: "nonsense"}, ExpectedStyle: StyleCMAR},
	}

	out, report, err := NewCalibrator(DefaultCatalog()).Calibrate(cases, schema, CalibrateOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1}, report.Malformed)
	assert.Equal(t, 0.5, report.TrainingAccuracy)

	v, _ := out.Lookup(1, "X", StyleCMAR)
	assert.InDelta(t, 0.0, v, 1e-12)
}

func TestCalibrator_Errors(t *testing.T) {
	schema := mustWeights(t, toySchemaCSV)
	calibrator := NewCalibrator(DefaultCatalog())
	good := []CaseStudy{{Answers: AnswerVector{1: "X"}, ExpectedStyle: StyleCMAR}}

	tests := []struct {
		name  string
		cases []CaseStudy
		opts  CalibrateOptions
		field string
	}{
		{"no cases", nil, CalibrateOptions{}, "cases"},
		{"negative alpha", good, CalibrateOptions{Alpha: -1}, "alpha"},
		{"unknown expected style", []CaseStudy{{Answers: AnswerVector{1: "X"}, ExpectedStyle: "Waterfall"}}, CalibrateOptions{}, "expected_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := calibrator.Calibrate(tt.cases, schema, tt.opts)
			var ie *InputError
			require.True(t, errors.As(err, &ie), "got %v", err)
			assert.Equal(t, tt.field, ie.Field)
		})
	}

	_, _, err := calibrator.Calibrate(good, nil, CalibrateOptions{})
	var ms *MissingSourceError
	assert.True(t, errors.As(err, &ms))
}

func TestSolveRidge(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 0,
		1, 1,
		0, 1,
	})
	Y := mat.NewDense(3, 1, []float64{1, 1, 0})

	W, solver, err := solveRidge(X, Y, 1)
	require.NoError(t, err)
	assert.Equal(t, "cholesky", solver)

	// XᵗX + I = [[3,1],[1,3]], XᵗY = [2,1]
	assert.InDelta(t, 5.0/8, W.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0/8, W.At(1, 0), 1e-12)
}
