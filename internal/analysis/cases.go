package analysis

import (
	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
)

// ColExpectedStyle is the label column of a case-study file
const ColExpectedStyle = "expected_style"

// optional case name columns, first present wins
var caseNameColumns = []string{"case", "name", "project"}

func questionColumns() []string {
	cols := make([]string, QuestionCount)
	for i := range cols {
		cols[i] = QuestionColumn(i + 1)
	}
	return cols
}

// AnswerVectorsFromTable reads Q1..Q12 from each row of a response file.
// Blank cells are left out of the vector.
func AnswerVectorsFromTable(t *tabular.Table, source string) ([]AnswerVector, error) {
	if missing := t.Missing(questionColumns()...); len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	out := make([]AnswerVector, t.Len())
	for i := range t.Rows {
		out[i] = answerVectorAt(t, i)
	}
	return out, nil
}

func answerVectorAt(t *tabular.Table, i int) AnswerVector {
	av := make(AnswerVector, QuestionCount)
	for q := 1; q <= QuestionCount; q++ {
		if v := t.Cell(i, QuestionColumn(q)); v != "" {
			av[q] = v
		}
	}
	return av
}

// CaseStudiesFromTable reads labelled cases: Q1..Q12 plus expected_style
func CaseStudiesFromTable(t *tabular.Table, source string) ([]CaseStudy, error) {
	required := append(questionColumns(), ColExpectedStyle)
	if missing := t.Missing(required...); len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	nameCol := ""
	for _, c := range caseNameColumns {
		if t.Has(c) {
			nameCol = c
			break
		}
	}

	out := make([]CaseStudy, t.Len())
	for i := range t.Rows {
		cs := CaseStudy{
			Answers:       answerVectorAt(t, i),
			ExpectedStyle: Style(t.Cell(i, ColExpectedStyle)),
		}
		if nameCol != "" {
			cs.Name = t.Cell(i, nameCol)
		}
		out[i] = cs
	}
	return out, nil
}
