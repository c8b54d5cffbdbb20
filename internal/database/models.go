package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
)

// StoredResult is one persisted single-response classification
type StoredResult struct {
	ID                 string                `json:"id" db:"id"`
	CreatedAt          time.Time             `json:"created_at" db:"created_at"`
	Answers            analysis.AnswerVector `json:"answers" db:"answers"`
	Scores             []analysis.StyleScore `json:"scores" db:"scores"`
	RecommendedStyle   analysis.Style        `json:"recommended_style" db:"recommended_style"`
	WeightsFingerprint string                `json:"weights_fingerprint" db:"weights_fingerprint"`
}

// StyleCount is how often a style was recommended
type StyleCount struct {
	Style analysis.Style `json:"style"`
	Count int            `json:"count"`
}

// NewStoredResult creates a new result record with generated ID
func NewStoredResult(answers analysis.AnswerVector, result analysis.ScoreResult, fingerprint string) *StoredResult {
	return &StoredResult{
		ID:                 uuid.New().String(),
		CreatedAt:          time.Now().UTC(),
		Answers:            answers,
		Scores:             result.Scores,
		RecommendedStyle:   result.Recommended,
		WeightsFingerprint: fingerprint,
	}
}
