package analysis

import (
	"fmt"
	"strings"
)

// Scorer sums per-style weights over an answer vector and picks the arg-max
type Scorer struct {
	catalog *Catalog
}

func NewScorer(catalog *Catalog) *Scorer {
	return &Scorer{catalog: catalog}
}

// Score classifies one answer vector. A missing (question, key) row is skipped
// under MissZero and recorded in Misses; under MissFail it returns a
// LookupMissError. Ties go to the style listed first in the catalog.
func (s *Scorer) Score(table *WeightTable, answers AnswerVector) (ScoreResult, error) {
	if table == nil {
		return ScoreResult{}, &MissingSourceError{}
	}
	for q := range answers {
		if !s.catalog.ValidQuestion(q) {
			return ScoreResult{}, &InputError{Field: "question", Reason: fmt.Sprintf("%d outside 1..%d", q, QuestionCount)}
		}
	}

	styles := s.catalog.Styles()
	totals := make([]float64, len(styles))
	var misses []LookupMiss

	for _, q := range s.catalog.Questions() {
		key, answered := answers[q]
		key = strings.TrimSpace(key)
		row, ok := table.entry(q, key)
		if !answered || !ok {
			if s.catalog.OnMiss() == MissFail {
				return ScoreResult{}, &LookupMissError{Question: q, Key: key}
			}
			misses = append(misses, LookupMiss{Question: q, Key: key})
			continue
		}
		for i, st := range styles {
			totals[i] += row.Weights[st]
		}
	}

	result := ScoreResult{
		Scores: make([]StyleScore, len(styles)),
		Misses: misses,
	}
	best := 0
	for i, st := range styles {
		result.Scores[i] = StyleScore{Style: st, Score: totals[i]}
		// strict comparison keeps the earliest style on ties
		if totals[i] > totals[best] {
			best = i
		}
	}
	result.Recommended = styles[best]
	result.Description = s.catalog.Description(styles[best])

	return result, nil
}

// ScoreBatch scores each vector independently. The first failure aborts the
// batch and reports the offending position.
func (s *Scorer) ScoreBatch(table *WeightTable, batch []AnswerVector) ([]ScoreResult, error) {
	out := make([]ScoreResult, 0, len(batch))
	for i, answers := range batch {
		r, err := s.Score(table, answers)
		if err != nil {
			return nil, fmt.Errorf("response %d: %w", i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}
