package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
)

// ScoreRequest is the body of POST /score. Answers are keyed by question number
// as a string ("1".."12") or as the column name ("Q1".."Q12").
type ScoreRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
	Persist bool              `json:"persist"`
}

// AnswerVector converts the raw map, rejecting keys that are not question
// numbers and questions given under two spellings ("1" and "Q1")
func (r ScoreRequest) AnswerVector() (analysis.AnswerVector, error) {
	av := make(analysis.AnswerVector, len(r.Answers))
	for raw, key := range r.Answers {
		q, err := ParseQuestion(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := av[q]; dup {
			return nil, &analysis.InputError{Field: "answers", Reason: fmt.Sprintf("question %d answered more than once", q)}
		}
		av[q] = key
	}
	return av, nil
}

// ParseQuestion accepts "3" or "Q3"
func ParseQuestion(raw string) (int, error) {
	s := strings.TrimPrefix(strings.TrimSpace(strings.ToUpper(raw)), "Q")
	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("answer key %q is not a question number", raw)
	}
	return q, nil
}

// ScoreResponse is the body returned by POST /score
type ScoreResponse struct {
	analysis.ScoreResult
	ResultID    string    `json:"result_id,omitempty"`
	Weights     string    `json:"weights"`
	CacheHit    bool      `json:"cache_hit"`
	ProcessedAt time.Time `json:"processed_at"`
}

// StylesResponse lists the enumeration in tie-break order
type StylesResponse struct {
	Styles []analysis.StyleInfo `json:"styles"`
}

// QuestionsResponse is the collaborator form model
type QuestionsResponse struct {
	Questions []analysis.FormQuestion `json:"questions"`
	Weights   string                  `json:"weights"`
	Source    string                  `json:"source"`
}

// WeightsResponse describes the installed weight table
type WeightsResponse struct {
	Source        string           `json:"source"`
	Fingerprint   string           `json:"fingerprint"`
	Rows          int              `json:"rows"`
	MissingStyles []analysis.Style `json:"missing_styles,omitempty"`
}

// CalibrateResponse is the body returned by POST /calibrate
type CalibrateResponse struct {
	Report    analysis.CalibrationReport `json:"report"`
	Installed bool                       `json:"installed"`
	Weights   WeightsResponse            `json:"weights"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Weights   *WeightsResponse       `json:"weights,omitempty"`
	Checks    map[string]string      `json:"checks"`
	Stats     map[string]interface{} `json:"stats,omitempty"`
}
