package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/codemastery/codemastery-api/application/usecase"
	"github.com/codemastery/codemastery-api/infrastructure/adapter/postgres"
	"github.com/codemastery/codemastery-api/infrastructure/config"
	"github.com/codemastery/codemastery-api/infrastructure/http/handler"
	"github.com/codemastery/codemastery-api/infrastructure/http/middleware"
	"github.com/codemastery/codemastery-api/infrastructure/http/server"
	"github.com/codemastery/codemastery-api/infrastructure/service/clock"
	"github.com/codemastery/codemastery-api/infrastructure/service/jwt"
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
	"github.com/codemastery/codemastery-api/infrastructure/service/metrics"
	"github.com/codemastery/codemastery-api/infrastructure/service/password"
	"github.com/codemastery/codemastery-api/infrastructure/service/ratelimit"
	"github.com/codemastery/codemastery-api/migrations"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		CorrelationIDHeader: middleware.CorrelationIDHeader,
		EnableRequestLog:    true,
		ServiceName:         "codemastery-api",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"version": handler.Version,
		"env":     cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		structuredLogger.Info(ctx, "Migrations applied", nil)
	}

	// Rate limiting falls back to a noop service when disabled
	rateLimitService, closeRateLimit, err := ratelimit.NewRateLimitService(ctx, ratelimit.RateLimitConfig{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, structuredLogger)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize rate limit service", err, nil)
		log.Fatalf("Failed to initialize rate limit service: %v", err)
	}
	defer func() { _ = closeRateLimit() }()

	var (
		recorder       metrics.Recorder = metrics.Nop{}
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		authMetrics := metrics.NewAuthMetrics()
		recorder = authMetrics
		metricsHandler = authMetrics.Handler()
	}

	// One clock and one token config feed both the issuer and the verifier.
	utc := clock.NewUTC()
	codec, err := jwt.NewCodec(cfg.Token.Secret)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}
	issuer := jwt.NewIssuer(codec, utc, cfg.Token)
	verifier := jwt.NewVerifier(codec, utc)
	passwordService := password.NewBcryptPasswordService(cfg.BcryptCost)

	userRepo := postgres.NewUserRepositoryAdapter(db)
	courseRepo := postgres.NewCourseRepositoryAdapter(db)
	progressRepo := postgres.NewProgressRepositoryAdapter(db)
	lessonRepo := postgres.NewLessonRepositoryAdapter(db)
	attemptRepo := postgres.NewAttemptRepositoryAdapter(db)

	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		passwordService,
		issuer,
		rateLimitService,
		utc,
		structuredLogger,
		recorder,
		usecase.LoginThrottle{
			MaxAttempts:   cfg.RateLimitIPAttempts,
			Window:        cfg.RateLimitIPWindow,
			BlockDuration: cfg.RateLimitBlockDuration,
		},
	)
	courseUseCase := usecase.NewCourseUseCase(courseRepo, progressRepo, utc)
	lessonUseCase := usecase.NewLessonUseCase(courseRepo, lessonRepo, attemptRepo, utc, structuredLogger)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("Failed to parse TRUSTED_PROXIES: %v", err)
	}

	srv := server.NewServer(server.Config{
		Host:                 cfg.ServerHost,
		Port:                 cfg.ServerPort,
		ReadTimeout:          15 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		CORSEnabled:          cfg.CORSEnabled,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
		TrustedProxies:       trustedProxies,
	}, server.Dependencies{
		AuthUseCase:   authUseCase,
		CourseUseCase: courseUseCase,
		LessonUseCase: lessonUseCase,
		Guard:         middleware.NewAuthGuard(verifier, userRepo, structuredLogger, recorder),
		RateLimiter:   middleware.NewRateLimitMiddleware(rateLimitService, structuredLogger),
		Health:        handler.NewHealthHandler(db, utc),
		Metrics:       metricsHandler,
		Logger:        structuredLogger,
	})

	go func() {
		if err := srv.Start(); err != nil {
			structuredLogger.Error(ctx, "Server failed", err, nil)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
