package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		status   int
	}{
		{
			name:     "schema error",
			err:      &analysis.SchemaError{Source: "w.csv", Missing: []string{"question"}},
			category: CategorySchema,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "wrapped lookup miss",
			err:      fmt.Errorf("response 3: %w", &analysis.LookupMissError{Question: 4, Key: "GMP"}),
			category: CategoryLookup,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "missing source",
			err:      &analysis.MissingSourceError{Tried: []string{"a.csv"}},
			category: CategoryMissingSource,
			status:   http.StatusServiceUnavailable,
		},
		{
			name:     "input error",
			err:      &analysis.InputError{Field: "question", Reason: "13 outside 1..12"},
			category: CategoryValidation,
			status:   http.StatusBadRequest,
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("scoring: %w", context.DeadlineExceeded),
			category: CategoryTimeout,
			status:   http.StatusGatewayTimeout,
		},
		{
			name:     "connection refused",
			err:      fmt.Errorf("dial tcp 127.0.0.1:6379: connection refused"),
			category: CategoryNetwork,
			status:   http.StatusBadGateway,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			category: CategoryInternal,
			status:   http.StatusInternalServerError,
		},
		{
			name:     "already an app error",
			err:      NewNotFoundError("result", "abc"),
			category: CategoryNotFound,
			status:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.category, appErr.Category)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestAppError_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{"validation", NewValidationError("bad answers", "q"), "[VALIDATION_ERROR] bad answers"},
		{"missing source", NewMissingSourceError(nil, nil), "[MISSING_SOURCE] No weight table available"},
		{"lookup", NewLookupMissError(2, "x", nil), "[LOOKUP_MISS] Answer has no weight row"},
		{"rate limit", NewRateLimitError("60s"), "[RATE_LIMIT_EXCEEDED] Rate limit exceeded"},
		{"configuration", NewConfigurationError("bad alpha", nil), "[CONFIGURATION_ERROR] Configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := &analysis.MissingSourceError{}
	appErr := NewMissingSourceError(nil, cause)

	var ms *analysis.MissingSourceError
	assert.ErrorAs(t, appErr, &ms)
}

func TestNewAppError_Builder(t *testing.T) {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("Custom error message")

	appErr := NewAppError(builder, CategoryValidation, http.StatusBadRequest)
	assert.Equal(t, "Custom error message", appErr.Msg)
	assert.False(t, appErr.Timestamp.IsZero())
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/schema", func(c *gin.Context) {
		_ = c.Error(&analysis.SchemaError{Source: "upload.csv", Missing: []string{"answer_text"}})
	})
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "fine")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/schema", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(CategorySchema), body["category"])
	assert.Equal(t, "req-1", body["request_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine", w.Body.String())
}

func TestRecoveryHandler(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("scorer exploded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), string(CategoryInternal))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ctx"))

	err := WrapError(&analysis.LookupMissError{Question: 1, Key: "A"}, "scoring row %d", 4)
	assert.Contains(t, err.Error(), "scoring row 4: ")
	var miss *analysis.LookupMissError
	assert.ErrorAs(t, err, &miss)
}
