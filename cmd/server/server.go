package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/apidocs"
	"github.com/ZanzyTHEbar/methodmatch/internal/cache"
	"github.com/ZanzyTHEbar/methodmatch/internal/database"
	"github.com/ZanzyTHEbar/methodmatch/internal/errors"
	"github.com/ZanzyTHEbar/methodmatch/internal/middleware"
	"github.com/ZanzyTHEbar/methodmatch/internal/monitoring"
	"github.com/ZanzyTHEbar/methodmatch/internal/ratelimit"
	"github.com/ZanzyTHEbar/methodmatch/internal/security"
)

const version = "1.0.0"

// server holds the collaborator API dependencies. repo and db are nil when
// result persistence is disabled.
type server struct {
	analyzer *analysis.Analyzer
	repo     *database.Repository
	db       *database.DB
	cache    cache.Store
	limiter  *ratelimit.RateLimiter
	security *security.SecurityMiddleware
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	redis    *ratelimit.RedisClient
	compress *middleware.CompressionMiddleware
}

func setupRouter(s *server) *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger, s.security.Config().MaxUploadBytes))
	if s.compress != nil {
		r.Use(s.compress.Handler())
	}

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(security.SecurityHeadersMiddleware())
	r.Use(s.security.CORS())
	r.Use(s.security.RequestTimeout)
	r.Use(s.security.LimitUploadSize)
	r.Use(s.security.ValidateContentType)
	r.Use(s.limiter.IPRateLimitMiddleware())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/ratelimit", s.limiter.HandleRateLimitStatus())

	r.GET("/styles", s.handleStyles)
	r.GET("/questions", s.handleQuestions)

	r.POST("/score", s.handleScore)
	r.POST("/score/single.csv", s.handleScoreSingleCSV)
	r.POST("/score/batch", s.handleScoreBatch)

	r.GET("/weights", s.handleWeightsInfo)
	r.GET("/weights.csv", s.handleWeightsCSV)
	r.POST("/weights", s.handleUploadWeights)
	r.POST("/weights/reload", s.handleReloadWeights)
	r.POST("/calibrate", s.handleCalibrate)

	r.GET("/results", s.handleRecentResults)
	r.GET("/results/stats", s.handleResultStats)
	r.GET("/results/:id", s.handleGetResult)

	// API documentation
	apidocs.SwaggerInfo.Version = version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
