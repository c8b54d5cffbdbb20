package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/cache"
	"github.com/ZanzyTHEbar/methodmatch/internal/database"
	"github.com/ZanzyTHEbar/methodmatch/internal/errors"
	"github.com/ZanzyTHEbar/methodmatch/internal/tabular"
	"github.com/ZanzyTHEbar/methodmatch/internal/types"
)

// handleHealth reports weight table, database and redis status
//
// @Summary	Service health
// @Tags		system
// @Produce	json
// @Success	200	{object}	types.HealthResponse
// @Failure	503	{object}	types.HealthResponse
// @Router		/health [get]
func (s *server) handleHealth(c *gin.Context) {
	resp := types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version,
		Checks:    map[string]string{},
	}

	if wt, err := s.analyzer.Weights(); err != nil {
		resp.Status = "degraded"
		resp.Checks["weights"] = errors.ToAppError(err).Response().Message
	} else {
		resp.Checks["weights"] = "ok"
		resp.Weights = weightsInfo(wt)
	}

	switch {
	case s.db == nil:
		resp.Checks["database"] = "disabled"
	case s.db.PingContext(c.Request.Context()) != nil:
		resp.Checks["database"] = "unreachable"
	default:
		resp.Checks["database"] = "ok"
	}

	if s.redis.IsEnabled() {
		if err := s.redis.HealthCheck(c.Request.Context()); err != nil {
			resp.Checks["redis"] = "unreachable"
		} else {
			resp.Checks["redis"] = "ok"
		}
	} else {
		resp.Checks["redis"] = "disabled"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// @Summary	Request, scoring and cache counters
// @Tags		system
// @Produce	json
// @Success	200	{object}	map[string]interface{}
// @Router		/metrics [get]
func (s *server) handleMetrics(c *gin.Context) {
	stats := s.metrics.GetStats()
	stats["cache"] = s.cache.Stats()
	stats["rate_limiter"] = s.limiter.GetStats()
	if s.db != nil {
		stats["database_pool"] = s.db.GetPoolStats()
	}
	if s.compress != nil {
		stats["compression"] = s.compress.GetStats()
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary	List delivery styles in tie-break order
// @Tags		catalog
// @Produce	json
// @Success	200	{object}	types.StylesResponse
// @Router		/styles [get]
func (s *server) handleStyles(c *gin.Context) {
	c.JSON(http.StatusOK, types.StylesResponse{Styles: s.analyzer.Catalog().Infos()})
}

// @Summary	Questionnaire form built from the installed weight table
// @Tags		catalog
// @Produce	json
// @Success	200	{object}	types.QuestionsResponse
// @Failure	503	{object}	errors.ErrorResponse
// @Router		/questions [get]
func (s *server) handleQuestions(c *gin.Context) {
	wt, err := s.analyzer.Weights()
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.QuestionsResponse{
		Questions: wt.Form(),
		Weights:   wt.Fingerprint(),
		Source:    wt.Source(),
	})
}

// score classifies one request body against the current table, consulting the
// cache unless the result is to be persisted
func (s *server) score(c *gin.Context) (analysis.AnswerVector, types.ScoreResponse, bool) {
	// bind and validate
	var req types.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError("invalid JSON body", err.Error()))
		return nil, types.ScoreResponse{}, false
	}
	if err := s.security.ValidateAnswers(req.Answers); err != nil {
		c.Error(err)
		return nil, types.ScoreResponse{}, false
	}
	answers, err := req.AnswerVector()
	if err != nil {
		c.Error(errors.NewValidationError(err.Error(), "answers"))
		return nil, types.ScoreResponse{}, false
	}

	wt, err := s.analyzer.Weights()
	if err != nil {
		c.Error(err)
		return nil, types.ScoreResponse{}, false
	}

	start := time.Now()
	resp := types.ScoreResponse{Weights: wt.Fingerprint(), ProcessedAt: start.UTC()}
	key := cache.Key(wt.Fingerprint(), answers)

	// cache lookup, skipped for persisted requests
	if !req.Persist {
		if data, ok := s.cache.Get(c.Request.Context(), key); ok {
			if err := json.Unmarshal(data, &resp.ScoreResult); err == nil {
				s.metrics.IncrementCacheHit()
				resp.CacheHit = true
				s.logger.ScoreLogger(string(resp.Recommended), len(answers), len(resp.Misses), resp.Weights, time.Since(start), true)
				return answers, resp, true
			}
		}
		s.metrics.IncrementCacheMiss()
	}

	// score
	result, err := s.analyzer.ScoreWith(wt, answers)
	if err != nil {
		c.Error(err)
		return nil, types.ScoreResponse{}, false
	}
	resp.ScoreResult = result
	s.metrics.RecordScore(string(result.Recommended), len(result.Misses))

	// cache
	if data, err := json.Marshal(result); err == nil {
		s.cache.Set(c.Request.Context(), key, data)
	}

	// persist
	if req.Persist {
		if s.repo == nil {
			c.Error(errors.NewConfigurationError("result persistence is disabled", nil))
			return nil, types.ScoreResponse{}, false
		}
		stored := database.NewStoredResult(answers, result, wt.Fingerprint())
		if err := s.repo.Save(c.Request.Context(), stored); err != nil {
			c.Error(errors.WrapError(err, "persist result"))
			return nil, types.ScoreResponse{}, false
		}
		s.metrics.IncrementResultSaved()
		resp.ResultID = stored.ID
	}

	s.logger.ScoreLogger(string(result.Recommended), len(answers), len(result.Misses), resp.Weights, time.Since(start), false)
	return answers, resp, true
}

// @Summary	Classify one answer set
// @Tags		scoring
// @Accept		json
// @Produce	json
// @Param		request	body		types.ScoreRequest	true	"Answers keyed by question number"
// @Success	200		{object}	types.ScoreResponse
// @Failure	400		{object}	errors.ErrorResponse
// @Failure	503		{object}	errors.ErrorResponse
// @Router		/score [post]
func (s *server) handleScore(c *gin.Context) {
	_, resp, ok := s.score(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary	Classify one answer set and download the result row
// @Tags		scoring
// @Accept		json
// @Produce	text/csv
// @Param		request	body		types.ScoreRequest	true	"Answers keyed by question number"
// @Success	200		{file}		file
// @Failure	400		{object}	errors.ErrorResponse
// @Router		/score/single.csv [post]
func (s *server) handleScoreSingleCSV(c *gin.Context) {
	answers, resp, ok := s.score(c)
	if !ok {
		return
	}

	t := analysis.SingleResultTable(s.analyzer.Catalog().Styles(), resp.ProcessedAt, answers, resp.ScoreResult)
	name := fmt.Sprintf("methodmatch_result_%s.csv", resp.ProcessedAt.Format("20060102T150405Z"))
	s.sendTable(c, t, name, tabular.FormatCSV)
}

// @Summary	Classify every row of a responses sheet
// @Tags		scoring
// @Accept		multipart/form-data
// @Produce	text/csv
// @Param		responses	formData	file	true	"CSV or XLSX with columns Q1..Q12"
// @Param		format		query		string	false	"Output format"	Enums(csv, xlsx)
// @Success	200			{file}		file
// @Failure	400			{object}	errors.ErrorResponse
// @Failure	422			{object}	errors.ErrorResponse
// @Router		/score/batch [post]
func (s *server) handleScoreBatch(c *gin.Context) {
	start := time.Now()

	t, name, err := readUpload(c, "responses")
	if err != nil {
		c.Error(err)
		return
	}

	answers, err := analysis.AnswerVectorsFromTable(t, name)
	if err != nil {
		c.Error(err)
		return
	}

	results, err := s.analyzer.ScoreBatch(answers)
	if err != nil {
		c.Error(err)
		return
	}

	// record
	for _, r := range results {
		s.metrics.RecordScore(string(r.Recommended), len(r.Misses))
	}
	s.metrics.RecordBatch(len(results))
	s.logger.BatchLogger(name, len(results), time.Since(start))

	out := analysis.BatchTable(s.analyzer.Catalog().Styles(), answers, results)
	format := outputFormat(c)
	s.sendTable(c, out, "scored_responses."+string(format), format)
}

// @Summary	Describe the installed weight table
// @Tags		weights
// @Produce	json
// @Success	200	{object}	types.WeightsResponse
// @Failure	503	{object}	errors.ErrorResponse
// @Router		/weights [get]
func (s *server) handleWeightsInfo(c *gin.Context) {
	wt, err := s.analyzer.Weights()
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, weightsInfo(wt))
}

// @Summary	Download the installed weight table
// @Tags		weights
// @Produce	text/csv
// @Param		format	query		string	false	"Output format"	Enums(csv, xlsx)
// @Success	200		{file}		file
// @Failure	503		{object}	errors.ErrorResponse
// @Router		/weights.csv [get]
func (s *server) handleWeightsCSV(c *gin.Context) {
	wt, err := s.analyzer.Weights()
	if err != nil {
		c.Error(err)
		return
	}
	format := outputFormat(c)
	s.sendTable(c, wt.Table(), "pm_style_weights."+string(format), format)
}

// handleUploadWeights swaps the in-memory table; nothing is written to disk
//
// @Summary	Replace the weight table in memory
// @Tags		weights
// @Accept		multipart/form-data
// @Produce	json
// @Param		weights	formData	file	true	"CSV or XLSX weight table"
// @Success	200		{object}	types.WeightsResponse
// @Failure	400		{object}	errors.ErrorResponse
// @Failure	422		{object}	errors.ErrorResponse
// @Router		/weights [post]
func (s *server) handleUploadWeights(c *gin.Context) {
	file, header, err := c.Request.FormFile("weights")
	if err != nil {
		c.Error(errors.NewValidationError("multipart field \"weights\" is required", err.Error()))
		return
	}
	defer file.Close()

	wt, err := s.analyzer.Store().LoadFrom(file, header.Filename)
	if err != nil {
		c.Error(err)
		return
	}

	s.analyzer.ReplaceWeights(wt)
	s.metrics.IncrementWeightReload()
	s.logger.WeightsLogger(wt.Source(), wt.Fingerprint(), wt.Len())

	c.JSON(http.StatusOK, weightsInfo(wt))
}

// @Summary	Reload the weight table from the data directory
// @Tags		weights
// @Produce	json
// @Success	200	{object}	types.WeightsResponse
// @Failure	503	{object}	errors.ErrorResponse
// @Router		/weights/reload [post]
func (s *server) handleReloadWeights(c *gin.Context) {
	if err := s.analyzer.Reload(); err != nil {
		c.Error(err)
		return
	}

	wt, err := s.analyzer.Weights()
	if err != nil {
		c.Error(err)
		return
	}
	s.metrics.IncrementWeightReload()
	s.logger.WeightsLogger(wt.Source(), wt.Fingerprint(), wt.Len())

	c.JSON(http.StatusOK, weightsInfo(wt))
}

// @Summary	Fit weights from labelled case studies
// @Tags		weights
// @Accept		multipart/form-data
// @Produce	json
// @Param		cases			formData	file	true	"CSV or XLSX with Q1..Q12 and expected_style"
// @Param		alpha			formData	number	false	"Ridge penalty"
// @Param		canonicalize	formData	boolean	false	"Map expected styles onto the canonical set"
// @Param		keep_unobserved	formData	boolean	false	"Keep weight rows no case selected"
// @Param		install			formData	boolean	false	"Write and install the calibrated table"
// @Success	200				{object}	types.CalibrateResponse
// @Failure	400				{object}	errors.ErrorResponse
// @Failure	422				{object}	errors.ErrorResponse
// @Router		/calibrate [post]
func (s *server) handleCalibrate(c *gin.Context) {
	start := time.Now()

	t, name, err := readUpload(c, "cases")
	if err != nil {
		c.Error(err)
		return
	}

	opts := analysis.CalibrateOptions{
		CanonicalizeCases: formBool(c, "canonicalize"),
		KeepUnobserved:    formBool(c, "keep_unobserved"),
	}
	if raw := c.PostForm("alpha"); raw != "" {
		alpha, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.Error(errors.NewValidationError("alpha must be a number", raw))
			return
		}
		opts.Alpha = alpha
	}
	install := formBool(c, "install")

	cases, err := analysis.CaseStudiesFromTable(t, name)
	if err != nil {
		c.Error(err)
		return
	}

	wt, report, err := s.analyzer.Calibrate(cases, opts, install)
	if err != nil {
		c.Error(err)
		return
	}

	s.metrics.IncrementCalibration()
	if install {
		s.metrics.IncrementWeightReload()
	}
	s.logger.CalibrationLogger(report.Cases, report.Features, report.Alpha, report.Solver, report.TrainingAccuracy, install, time.Since(start))

	c.JSON(http.StatusOK, types.CalibrateResponse{
		Report:    report,
		Installed: install,
		Weights:   *weightsInfo(wt),
	})
}

// @Summary	Most recent stored results
// @Tags		results
// @Produce	json
// @Param		limit	query		int	false	"Maximum rows"	default(50)
// @Success	200		{object}	map[string]interface{}
// @Failure	400		{object}	errors.ErrorResponse
// @Router		/results [get]
func (s *server) handleRecentResults(c *gin.Context) {
	if !s.requireRepo(c) {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(database.DefaultRecentLimit)))
	if err != nil {
		c.Error(errors.NewValidationError("limit must be an integer", c.Query("limit")))
		return
	}

	results, err := s.repo.Recent(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	if results == nil {
		results = []*database.StoredResult{}
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// @Summary	Fetch one stored result
// @Tags		results
// @Produce	json
// @Param		id	path		string	true	"Result id"
// @Success	200	{object}	database.StoredResult
// @Failure	404	{object}	errors.ErrorResponse
// @Router		/results/{id} [get]
func (s *server) handleGetResult(c *gin.Context) {
	if !s.requireRepo(c) {
		return
	}

	id := c.Param("id")
	res, err := s.repo.Get(c.Request.Context(), id)
	if stderrors.Is(err, database.ErrNotFound) {
		c.Error(errors.NewNotFoundError("result", id))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary	Recommendation counts per style
// @Tags		results
// @Produce	json
// @Success	200	{object}	map[string]interface{}
// @Router		/results/stats [get]
func (s *server) handleResultStats(c *gin.Context) {
	if !s.requireRepo(c) {
		return
	}

	counts, err := s.repo.StyleCounts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	// sum
	total := 0
	for _, sc := range counts {
		total += sc.Count
	}
	if counts == nil {
		counts = []database.StyleCount{}
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "styles": counts})
}

func (s *server) requireRepo(c *gin.Context) bool {
	if s.repo == nil {
		c.Error(errors.NewConfigurationError("result persistence is disabled", nil))
		return false
	}
	return true
}

// sendTable renders t fully before writing so that encoding failures still
// produce a JSON error
func (s *server) sendTable(c *gin.Context, t *tabular.Table, filename string, format tabular.Format) {
	var buf bytes.Buffer
	if err := tabular.Write(&buf, t, format); err != nil {
		c.Error(errors.WrapError(err, "render %s", filename))
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == tabular.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func readUpload(c *gin.Context, field string) (*tabular.Table, string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, "", errors.NewValidationError(fmt.Sprintf("multipart field %q is required", field), err.Error())
	}
	defer file.Close()

	t, err := tabular.Read(file, tabular.FormatFor(header.Filename))
	if err != nil {
		return nil, "", &analysis.SchemaError{Source: header.Filename, Detail: err.Error()}
	}
	return t, header.Filename, nil
}

func outputFormat(c *gin.Context) tabular.Format {
	if c.Query("format") == string(tabular.FormatXLSX) {
		return tabular.FormatXLSX
	}
	return tabular.FormatCSV
}

func formBool(c *gin.Context, field string) bool {
	v, err := strconv.ParseBool(c.PostForm(field))
	return err == nil && v
}

func weightsInfo(wt *analysis.WeightTable) *types.WeightsResponse {
	return &types.WeightsResponse{
		Source:        wt.Source(),
		Fingerprint:   wt.Fingerprint(),
		Rows:          wt.Len(),
		MissingStyles: wt.MissingStyles(),
	}
}
