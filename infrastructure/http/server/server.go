package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/infrastructure/http/handler"
	"github.com/codemastery/codemastery-api/infrastructure/http/middleware"
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
)

// Config represents server configuration
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	TrustedProxies *middleware.TrustedProxies
}

// Dependencies are the collaborators the router mounts. Metrics may be nil,
// in which case /metrics is not served.
type Dependencies struct {
	AuthUseCase   inbound.AuthUseCase
	CourseUseCase inbound.CourseUseCase
	LessonUseCase inbound.LessonUseCase
	Guard         *middleware.AuthGuard
	RateLimiter   *middleware.RateLimitMiddleware
	Health        *handler.HealthHandler
	Metrics       http.Handler
	Logger        logger.Logger
}

// Server represents the HTTP server
type Server struct {
	addr   string
	logger logger.Logger
	server *http.Server
}

// NewRouter builds the full route table with its middleware chain.
func NewRouter(cfg Config, deps Dependencies) http.Handler {
	router := mux.NewRouter()

	handler.NewAuthHandler(deps.AuthUseCase).RegisterRoutes(router, deps.Guard, deps.RateLimiter)
	handler.NewCourseHandler(deps.CourseUseCase).RegisterRoutes(router, deps.Guard)
	handler.NewLessonHandler(deps.LessonUseCase).RegisterRoutes(router, deps.Guard)

	if deps.Health != nil {
		router.HandleFunc("/health", deps.Health.Health).Methods(http.MethodGet)
	}
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.RequestLogMiddleware(deps.Logger))

	// CORS wraps the router so preflight requests for unknown methods still get answered.
	var h http.Handler = router
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		h = middleware.CORSMiddleware(h, cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)
	}
	h = middleware.ClientIPMiddleware(cfg.TrustedProxies)(h)
	return middleware.CorrelationIDMiddleware(h)
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies) *Server {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	return &Server{
		addr:   addr,
		logger: deps.Logger,
		server: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(cfg, deps),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{
		"addr": s.addr,
	})
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
