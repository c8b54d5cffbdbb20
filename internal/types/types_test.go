package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
)

func TestParseQuestion(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"Q12", 12, false},
		{" q7 ", 7, false},
		{"14", 14, false},
		{"delivery", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseQuestion(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreRequest_AnswerVector(t *testing.T) {
	var req ScoreRequest
	require.NoError(t, json.Unmarshal([]byte(`{"answers":{"1":"Vertical","Q2":"None"},"persist":true}`), &req))

	av, err := req.AnswerVector()
	require.NoError(t, err)
	assert.Equal(t, analysis.AnswerVector{1: "Vertical", 2: "None"}, av)
	assert.True(t, req.Persist)

	req.Answers["sector"] = "x"
	_, err = req.AnswerVector()
	assert.Error(t, err)
}

func TestScoreRequest_AnswerVectorDuplicateQuestion(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]string
	}{
		{name: "number and column name", answers: map[string]string{"1": "A", "Q1": "B"}},
		{name: "case and padding variants", answers: map[string]string{"q2": "A", " Q2 ": "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ScoreRequest{Answers: tt.answers}
			// map order varies between calls; every call must reject
			for i := 0; i < 50; i++ {
				av, err := req.AnswerVector()
				require.Error(t, err)
				assert.Nil(t, av)

				var ie *analysis.InputError
				require.True(t, errors.As(err, &ie))
				assert.Equal(t, "answers", ie.Field)
				assert.Contains(t, ie.Reason, "answered more than once")
			}
		})
	}
}

func TestScoreResponse_FlattensResult(t *testing.T) {
	resp := ScoreResponse{
		ScoreResult: analysis.ScoreResult{Recommended: analysis.StyleCMAR},
		Weights:     "abc",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "Lean: CMAR", body["recommended_style"])
	assert.Equal(t, "abc", body["weights"])
	assert.NotContains(t, body, "result_id")
}
