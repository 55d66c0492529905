package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/PathVault/internal/api/http"
	"github.com/GriffinCanCode/PathVault/internal/api/middleware"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/config"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PathVault/internal/vault"
)

// ShutdownTimeout bounds how long Close waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	vault   *vault.Vault
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	version string
}

// WithLogger uses an existing logger instead of building one from config.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithVersion sets the version reported by the root endpoint.
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	o := options{version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		built, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
		if err != nil {
			return nil, err
		}
		logger = built
	}

	logger.Info("Initializing PathVault server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("base_dir", cfg.Vault.BaseDir),
	)

	if err := os.MkdirAll(cfg.Vault.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare base directory %q: %w", cfg.Vault.BaseDir, err)
	}

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("pathvault", logger.Logger)

	v := vault.New(cfg.Vault.BaseDir,
		vault.WithLogger(logger.Logger),
		vault.WithObserver(metrics),
		vault.WithMaxTreeDepth(cfg.Vault.MaxTreeDepth),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Logger))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.RequestLogger(logger.Logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled && cfg.RateLimit.GlobalRequestsPerSecond > 0 {
		logger.Info("Global rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.GlobalRequestsPerSecond),
		)
		router.Use(middleware.GlobalRateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.GlobalRequestsPerSecond,
			Burst:             cfg.RateLimit.GlobalRequestsPerSecond,
		}))
	}
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(v,
		apihttp.WithMetrics(metrics),
		apihttp.WithTracer(tracer),
		apihttp.WithLogger(logger.Logger),
		apihttp.WithMaxUploadBytes(cfg.Vault.MaxUploadBytes),
		apihttp.WithVersion(o.version),
	)
	handlers.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		vault:   v,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

// Handler returns the router, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run starts the HTTP server and blocks until it stops. A shutdown through
// Close is not an error.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error("Graceful shutdown failed", zap.Error(err))
			s.closeErr = err
		}

		s.tracer.Close()
		s.logger.Info("Server shutdown complete")
		s.logger.Sync()
	})
	return s.closeErr
}
