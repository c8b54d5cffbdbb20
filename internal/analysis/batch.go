package analysis

import (
	"strconv"
	"time"

	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
)

// Output columns
const (
	ColRow              = "row"
	ColTimestamp        = "timestamp"
	ColRecommendedStyle = "recommended_style"
)

// BatchTable lays out scored responses: row, Q1..Q12, one column per style,
// recommended_style. row is the 0-based position of the response in the input.
func BatchTable(styles []Style, answers []AnswerVector, results []ScoreResult) *tabular.Table {
	header := []string{ColRow}
	header = append(header, questionColumns()...)
	header = append(header, styleColumns(styles)...)
	header = append(header, ColRecommendedStyle)

	t := tabular.New(header...)
	for i, r := range results {
		row := []string{strconv.Itoa(i)}
		row = append(row, answerCells(answers[i])...)
		row = append(row, scoreCells(styles, r)...)
		row = append(row, string(r.Recommended))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SingleResultTable is the one-row download for an interactive response
func SingleResultTable(styles []Style, at time.Time, answers AnswerVector, result ScoreResult) *tabular.Table {
	header := []string{ColTimestamp}
	header = append(header, questionColumns()...)
	header = append(header, styleColumns(styles)...)
	header = append(header, ColRecommendedStyle)

	row := []string{at.UTC().Format(time.RFC3339)}
	row = append(row, answerCells(answers)...)
	row = append(row, scoreCells(styles, result)...)
	row = append(row, string(result.Recommended))

	t := tabular.New(header...)
	t.Rows = append(t.Rows, row)
	return t
}

func styleColumns(styles []Style) []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = string(s)
	}
	return out
}

func answerCells(av AnswerVector) []string {
	out := make([]string, QuestionCount)
	for q := 1; q <= QuestionCount; q++ {
		out[q-1] = av[q]
	}
	return out
}

func scoreCells(styles []Style, r ScoreResult) []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = FormatWeight(r.ScoreOf(s))
	}
	return out
}
