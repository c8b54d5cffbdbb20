package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/cache"
	"github.com/ZanzyTHEbar/methodmatch/internal/database"
	"github.com/ZanzyTHEbar/methodmatch/internal/middleware"
	"github.com/ZanzyTHEbar/methodmatch/internal/monitoring"
	"github.com/ZanzyTHEbar/methodmatch/internal/ratelimit"
	"github.com/ZanzyTHEbar/methodmatch/internal/security"
	"github.com/ZanzyTHEbar/methodmatch/internal/types"
)

const styleHeader = "Lean: Design Build,Lean: CMAR,Lean: JOC,Agile: IPD,Agile: P3,Predictive: DBB,Predictive: BOT"

const weightsCSV = "question,question_text,answer_text," + styleHeader + `
1,Project type,Vertical,1,0,0,0,0,0,0
1,Project type,Horizontal,0,1,0,0,0,0,0
1,Project type,Unknown,0,0,0,0,0,0,0
2,Operations after handover,None,0,0,0,0,0,1,0
2,Operations after handover,Short-term O&M,0,0,1,0,0,0,0
2,Operations after handover,Long-term O&M,0,0,0,0,1,0,0
2,Operations after handover,Finance + Operate,0,0,0,0,0,0,1
`

const questionHeader = "Q1,Q2,Q3,Q4,Q5,Q6,Q7,Q8,Q9,Q10,Q11,Q12"

type testEnv struct {
	srv    *server
	router *gin.Engine
	dir    string
}

type envOptions struct {
	noWeights bool
	noDB      bool
	ipLimit   int
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	if !opts.noWeights {
		require.NoError(t, os.WriteFile(filepath.Join(dir, analysis.FullWeightsFile), []byte(weightsCSV), 0644))
	}

	catalog := analysis.DefaultCatalog()
	analyzer := analysis.NewAnalyzer(catalog, analysis.NewWeightStore(dir, "", catalog))
	if !opts.noWeights {
		require.NoError(t, analyzer.Reload())
	}

	redisClient, err := ratelimit.NewRedisClient("", "", 0)
	require.NoError(t, err)

	metrics := monitoring.NewMetrics()
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{IPLimit: opts.ipLimit}, metrics)
	t.Cleanup(limiter.Close)

	scoreCache := cache.New(nil, time.Minute)
	t.Cleanup(func() { scoreCache.Close() })

	srv := &server{
		analyzer: analyzer,
		cache:    scoreCache,
		limiter:  limiter,
		security: security.NewSecurityMiddleware(security.DefaultSecurityConfig()),
		metrics:  metrics,
		logger:   monitoring.NewLoggerTo(io.Discard, monitoring.ParseLevel("error")),
		redis:    redisClient,
		compress: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
	}

	if !opts.noDB {
		db, err := database.NewDB(dir, "results.db")
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		srv.db = db
		srv.repo = database.NewRepository(db.DB)
	}

	return &testEnv{srv: srv, router: setupRouter(srv), dir: dir}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func (e *testEnv) postFile(t *testing.T, path, field, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		opts       envOptions
		wantStatus int
		wantBody   string
		checks     map[string]string
	}{
		{
			name:       "healthy with weights and database",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			checks:     map[string]string{"weights": "ok", "database": "ok", "redis": "disabled"},
		},
		{
			name:       "degraded without weights",
			opts:       envOptions{noWeights: true, noDB: true},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
			checks:     map[string]string{"database": "disabled", "redis": "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.opts)
			w := env.get("/health")
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp types.HealthResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, version, resp.Version)
			for k, v := range tt.checks {
				assert.Equal(t, v, resp.Checks[k], k)
			}
		})
	}
}

func TestStylesAndQuestions(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.get("/styles")
	require.Equal(t, http.StatusOK, w.Code)
	var styles types.StylesResponse
	decode(t, w, &styles)
	require.Len(t, styles.Styles, analysis.StyleCount)
	assert.Equal(t, analysis.StyleDesignBuild, styles.Styles[0].Style)
	assert.Equal(t, analysis.StyleBOT, styles.Styles[6].Style)

	w = env.get("/questions")
	require.Equal(t, http.StatusOK, w.Code)
	var questions types.QuestionsResponse
	decode(t, w, &questions)
	assert.Len(t, questions.Questions, 2)
	assert.NotEmpty(t, questions.Weights)
	assert.Equal(t, filepath.Join(env.dir, analysis.FullWeightsFile), questions.Source)
}

func TestQuestions_NoWeights(t *testing.T) {
	env := newTestEnv(t, envOptions{noWeights: true})

	w := env.get("/questions")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "missing_source")
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantStyle  analysis.Style
		wantMisses int
	}{
		{
			name:       "numeric and column keys",
			body:       `{"answers":{"1":"Horizontal","Q2":"None"}}`,
			wantStatus: http.StatusOK,
			wantStyle:  analysis.StyleCMAR,
			wantMisses: 10,
		},
		{
			name:       "surrounding whitespace is ignored",
			body:       `{"answers":{"1":"  Vertical ","2":"Short-term O&M"}}`,
			wantStatus: http.StatusOK,
			wantStyle:  analysis.StyleDesignBuild,
			wantMisses: 10,
		},
		{
			name:       "unknown and unanswered questions score zero",
			body:       `{"answers":{"1":"Diagonal"}}`,
			wantStatus: http.StatusOK,
			wantStyle:  analysis.StyleDesignBuild,
			wantMisses: analysis.QuestionCount,
		},
		{
			name:       "malformed body",
			body:       `{"answers":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "answers required",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric question key",
			body:       `{"answers":{"abc":"Vertical"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "question given twice",
			body:       `{"answers":{"1":"Vertical","Q1":"Horizontal"}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{noDB: true})
			w := env.postJSON("/score", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), "validation")
				return
			}

			var resp types.ScoreResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantStyle, resp.Recommended)
			assert.Len(t, resp.Scores, analysis.StyleCount)
			assert.Len(t, resp.Misses, tt.wantMisses)
			assert.False(t, resp.CacheHit)
			assert.Empty(t, resp.ResultID)
		})
	}
}

func TestScore_CacheHit(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true})
	body := `{"answers":{"1":"Vertical","2":"None"}}`

	var first, second types.ScoreResponse
	decode(t, env.postJSON("/score", body), &first)
	decode(t, env.postJSON("/score", body), &second)

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Recommended, second.Recommended)
	assert.Equal(t, first.Scores, second.Scores)

	stats := env.srv.metrics.GetStats()
	assert.EqualValues(t, 1, stats["cache_hits"])
}

func TestScore_NoWeights(t *testing.T) {
	env := newTestEnv(t, envOptions{noWeights: true, noDB: true})

	w := env.postJSON("/score", `{"answers":{"1":"Vertical"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestScore_PersistAndResults(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.postJSON("/score", `{"answers":{"1":"Horizontal","2":"Long-term O&M"},"persist":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var scored types.ScoreResponse
	decode(t, w, &scored)
	require.NotEmpty(t, scored.ResultID)

	w = env.get("/results/" + scored.ResultID)
	require.Equal(t, http.StatusOK, w.Code)
	var stored database.StoredResult
	decode(t, w, &stored)
	assert.Equal(t, scored.ResultID, stored.ID)
	assert.Equal(t, scored.Recommended, stored.RecommendedStyle)
	assert.Equal(t, "Long-term O&M", stored.Answers[2])
	assert.Equal(t, scored.Weights, stored.WeightsFingerprint)

	w = env.get("/results?limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	var recent struct {
		Count int `json:"count"`
	}
	decode(t, w, &recent)
	assert.Equal(t, 1, recent.Count)

	w = env.get("/results/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Total  int                   `json:"total"`
		Styles []database.StyleCount `json:"styles"`
	}
	decode(t, w, &stats)
	assert.Equal(t, 1, stats.Total)
	require.Len(t, stats.Styles, 1)
	assert.Equal(t, scored.Recommended, stats.Styles[0].Style)
}

func TestResults_Errors(t *testing.T) {
	tests := []struct {
		name       string
		opts       envOptions
		path       string
		wantStatus int
	}{
		{name: "unknown id", path: "/results/does-not-exist", wantStatus: http.StatusNotFound},
		{name: "bad limit", path: "/results?limit=many", wantStatus: http.StatusBadRequest},
		{name: "persistence disabled", opts: envOptions{noDB: true}, path: "/results", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.opts)
			w := env.get(tt.path)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestScore_PersistWithoutDatabase(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true})

	w := env.postJSON("/score", `{"answers":{"1":"Vertical"},"persist":true}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "configuration")
}

func TestScoreSingleCSV(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true})

	w := env.postJSON("/score/single.csv", `{"answers":{"1":"Horizontal","2":"Short-term O&M"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "methodmatch_result_")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,Q1,Q2"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), string(analysis.StyleCMAR)))
}

func TestScoreBatch(t *testing.T) {
	responses := questionHeader + "\n" +
		"Vertical,None,,,,,,,,,,\n" +
		"Horizontal,Finance + Operate,,,,,,,,,,\n"

	tests := []struct {
		name        string
		path        string
		content     string
		wantStatus  int
		contentType string
	}{
		{
			name:        "csv output",
			path:        "/score/batch",
			content:     responses,
			wantStatus:  http.StatusOK,
			contentType: "text/csv",
		},
		{
			name:        "xlsx output",
			path:        "/score/batch?format=xlsx",
			content:     responses,
			wantStatus:  http.StatusOK,
			contentType: "spreadsheetml",
		},
		{
			name:       "missing question columns",
			path:       "/score/batch",
			content:    "Q1,Q2\nVertical,None\n",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{noDB: true})
			w := env.postFile(t, tt.path, "responses", "responses.csv", tt.content, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), "schema")
				return
			}
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			assert.EqualValues(t, 2, env.srv.metrics.GetStats()["batch_rows"])
		})
	}
}

func TestScoreBatch_CSVRows(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true})
	responses := questionHeader + "\nVertical,None,,,,,,,,,,\nHorizontal,Finance + Operate,,,,,,,,,,\n"

	w := env.postFile(t, "/score/batch", "responses", "responses.csv", responses, nil)
	require.Equal(t, http.StatusOK, w.Code)

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "row,Q1"))
	assert.True(t, strings.HasPrefix(lines[1], "0,Vertical,"))
	assert.True(t, strings.HasPrefix(lines[2], "1,Horizontal,"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), string(analysis.StyleDesignBuild)))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), string(analysis.StyleCMAR)))
}

func TestScoreBatch_MissingFile(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true})

	w := env.postFile(t, "/score/batch", "other", "x.csv", questionHeader+"\n", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeights(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true})

	w := env.get("/weights")
	require.Equal(t, http.StatusOK, w.Code)
	var info types.WeightsResponse
	decode(t, w, &info)
	assert.Equal(t, 7, info.Rows)
	assert.Empty(t, info.MissingStyles)
	assert.Equal(t, env.srv.analyzer.Fingerprint(), info.Fingerprint)

	w = env.get("/weights.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "question,question_text,answer_text,"+styleHeader))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pm_style_weights.csv")
}

func TestUploadWeights(t *testing.T) {
	partial := "question,question_text,answer_text,Lean: Design Build,Lean: CMAR\n1,Project type,A,2.0,1.0\n1,Project type,B,0.0,3.0\n"

	tests := []struct {
		name        string
		field       string
		filename    string
		content     string
		wantStatus  int
		wantMissing int
	}{
		{
			name:        "partial table installs with missing styles",
			field:       "weights",
			filename:    "upload.csv",
			content:     partial,
			wantStatus:  http.StatusOK,
			wantMissing: 5,
		},
		{
			name:       "missing required columns",
			field:      "weights",
			filename:   "upload.csv",
			content:    "question,answer_text\n1,A\n",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "wrong field",
			field:      "file",
			filename:   "upload.csv",
			content:    partial,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{noDB: true})
			before := env.srv.analyzer.Fingerprint()

			w := env.postFile(t, "/weights", tt.field, tt.filename, tt.content, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, before, env.srv.analyzer.Fingerprint())
				return
			}

			var info types.WeightsResponse
			decode(t, w, &info)
			assert.Equal(t, "upload.csv", info.Source)
			assert.Len(t, info.MissingStyles, tt.wantMissing)
			assert.NotEqual(t, before, env.srv.analyzer.Fingerprint())

			var scored types.ScoreResponse
			decode(t, env.postJSON("/score", `{"answers":{"1":"B"}}`), &scored)
			assert.Equal(t, analysis.StyleCMAR, scored.Recommended)
		})
	}
}

func TestReloadWeights(t *testing.T) {
	env := newTestEnv(t, envOptions{noWeights: true, noDB: true})

	w := env.do(httptest.NewRequest(http.MethodPost, "/weights/reload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	require.NoError(t, os.WriteFile(filepath.Join(env.dir, analysis.FullWeightsFile), []byte(weightsCSV), 0644))

	w = env.do(httptest.NewRequest(http.MethodPost, "/weights/reload", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, env.srv.analyzer.Fingerprint())
	assert.EqualValues(t, 1, env.srv.metrics.GetStats()["weight_reloads"])
}

func TestCalibrate(t *testing.T) {
	cases := "case," + questionHeader + ",expected_style\n" +
		"Hospital,Vertical,None,,,,,,,,,,,Agile: IPD\n" +
		"Toll road,Horizontal,Long-term O&M,,,,,,,,,,,Agile: P3\n"

	tests := []struct {
		name        string
		fields      map[string]string
		content     string
		wantStatus  int
		wantInstall bool
	}{
		{
			name:       "dry run",
			fields:     map[string]string{"alpha": "1"},
			content:    cases,
			wantStatus: http.StatusOK,
		},
		{
			name:        "install",
			fields:      map[string]string{"install": "true", "canonicalize": "true"},
			content:     cases,
			wantStatus:  http.StatusOK,
			wantInstall: true,
		},
		{
			name:       "bad alpha",
			fields:     map[string]string{"alpha": "lots"},
			content:    cases,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing expected style",
			content:    questionHeader + "\nVertical,None,,,,,,,,,,\n",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{noDB: true})
			before := env.srv.analyzer.Fingerprint()

			w := env.postFile(t, "/calibrate", "cases", "cases.csv", tt.content, tt.fields)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, before, env.srv.analyzer.Fingerprint())
				return
			}

			var resp types.CalibrateResponse
			decode(t, w, &resp)
			assert.Equal(t, 2, resp.Report.Cases)
			assert.Equal(t, 1.0, resp.Report.Alpha)
			assert.Equal(t, 1.0, resp.Report.TrainingAccuracy)
			assert.Equal(t, tt.wantInstall, resp.Installed)

			if tt.wantInstall {
				assert.Equal(t, resp.Weights.Fingerprint, env.srv.analyzer.Fingerprint())
				assert.FileExists(t, filepath.Join(env.dir, analysis.CalibratedWeightsFile))

				var scored types.ScoreResponse
				decode(t, env.postJSON("/score", `{"answers":{"1":"Vertical","2":"None"}}`), &scored)
				assert.Equal(t, analysis.StyleIPD, scored.Recommended)
			} else {
				assert.Equal(t, before, env.srv.analyzer.Fingerprint())
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.postJSON("/score", `{"answers":{"1":"Vertical"}}`)

	w := env.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	decode(t, w, &stats)
	for _, key := range []string{"cache", "rate_limiter", "database_pool", "style_distribution", "compression"} {
		assert.Contains(t, stats, key)
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true, ipLimit: 1})

	w := env.get("/styles")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = env.get("/styles")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit")
}

func TestUnsupportedContentType(t *testing.T) {
	env := newTestEnv(t, envOptions{noDB: true})

	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader("1=Vertical"))
	req.Header.Set("Content-Type", "text/plain")
	w := env.do(req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestSwaggerDoc(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.get("/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	decode(t, w, &doc)
	assert.Equal(t, version, doc.Info.Version)

	// every registered route other than the docs themselves is described
	for _, route := range env.router.Routes() {
		if strings.HasPrefix(route.Path, "/swagger/") {
			continue
		}
		path := route.Path
		if i := strings.Index(path, ":"); i >= 0 {
			path = path[:i] + "{" + path[i+1:] + "}"
		}
		t.Run(route.Method+" "+route.Path, func(t *testing.T) {
			ops, ok := doc.Paths[path]
			require.True(t, ok, "%s missing from doc", path)
			assert.Contains(t, ops, strings.ToLower(route.Method))
		})
	}
}
