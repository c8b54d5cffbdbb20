package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
	"github.com/ZanzyTHEbar/methodmatch/internal/cache"
	"github.com/ZanzyTHEbar/methodmatch/internal/config"
	"github.com/ZanzyTHEbar/methodmatch/internal/database"
	"github.com/ZanzyTHEbar/methodmatch/internal/errors"
	"github.com/ZanzyTHEbar/methodmatch/internal/middleware"
	"github.com/ZanzyTHEbar/methodmatch/internal/monitoring"
	"github.com/ZanzyTHEbar/methodmatch/internal/ratelimit"
	"github.com/ZanzyTHEbar/methodmatch/internal/security"
)

//	@title			MethodMatch API
//	@version		1.0.0
//	@description	Classifies construction project questionnaires into a recommended delivery style and calibrates the weight table from case studies.
//	@BasePath		/
func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLoggerTo(os.Stdout, monitoring.ParseLevel(cfg.Server.LogLevel))
	slog.SetDefault(appLogger.Logger)
	gin.SetMode(cfg.Server.GinMode)

	catalog, err := cfg.Catalog()
	if err != nil {
		slog.Error("Invalid style catalog", "error", err)
		os.Exit(1)
	}

	store := analysis.NewWeightStore(cfg.Data.Dir, cfg.Data.WeightsPath, catalog)
	analyzer := analysis.NewAnalyzer(catalog, store)
	if err := analyzer.Reload(); err != nil {
		// the server still starts; POST /weights can install a table later
		appErr := errors.ToAppError(err)
		slog.Warn("No weight table loaded", "category", appErr.Category, "error", err)
	}

	var db *database.DB
	if cfg.Data.ResultsDB != "" {
		db, err = database.NewDB(cfg.Data.Dir, cfg.Data.ResultsDB)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer errors.SafeClose(db, "results database")
	}

	redisClient, err := ratelimit.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		slog.Warn("Continuing without Redis", "error", err)
	}
	defer errors.SafeClose(redisClient, "redis client")

	appMetrics := monitoring.NewMetrics()

	scoreCache := cache.New(redisClient.GetClient(), cfg.Cache.TTL.Duration)
	defer errors.SafeClose(scoreCache, "score cache")

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimit:         cfg.RateLimit.PerMinute,
		Burst:           cfg.RateLimit.Burst,
		CleanupInterval: time.Hour,
	}, appMetrics)
	defer limiter.Close()

	securityConfig := security.DefaultSecurityConfig()
	securityConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	securityConfig.RequestTimeout = cfg.Server.RequestTimeout.Duration
	securityConfig.MaxUploadBytes = cfg.Server.MaxUploadBytes

	srv := &server{
		analyzer: analyzer,
		cache:    scoreCache,
		limiter:  limiter,
		security: security.NewSecurityMiddleware(securityConfig),
		metrics:  appMetrics,
		logger:   appLogger,
		redis:    redisClient,
		db:       db,
		compress: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
	}
	if db != nil {
		srv.repo = database.NewRepository(db.DB)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           setupRouter(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "data_dir", cfg.Data.Dir)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}
