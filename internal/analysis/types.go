package analysis

// AnswerVector maps question number to the chosen answer key. Absent questions
// are treated like a lookup miss.
type AnswerVector map[int]string

// StyleScore is the summed weight for one style
type StyleScore struct {
	Style Style   `json:"style"`
	Score float64 `json:"score"`
}

// LookupMiss records an answer that had no weight row
type LookupMiss struct {
	Question int    `json:"question"`
	Key      string `json:"key"`
}

// ScoreResult is one classified response. Scores is in enumeration order.
type ScoreResult struct {
	Scores      []StyleScore `json:"scores"`
	Recommended Style        `json:"recommended_style"`
	Description string       `json:"description"`
	Misses      []LookupMiss `json:"misses,omitempty"`
}

// ScoreOf returns the score for a style, or 0 when absent
func (r ScoreResult) ScoreOf(s Style) float64 {
	for _, sc := range r.Scores {
		if sc.Style == s {
			return sc.Score
		}
	}
	return 0
}

// ScoreMap is the scores keyed by style
func (r ScoreResult) ScoreMap() map[Style]float64 {
	out := make(map[Style]float64, len(r.Scores))
	for _, sc := range r.Scores {
		out[sc.Style] = sc.Score
	}
	return out
}

// CaseStudy is a labelled training example for calibration
type CaseStudy struct {
	Name          string       `json:"name,omitempty"`
	Answers       AnswerVector `json:"answers"`
	ExpectedStyle Style        `json:"expected_style"`
}
