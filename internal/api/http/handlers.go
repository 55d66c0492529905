package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PathVault/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PathVault/internal/vault"
)

// DefaultMaxUploadBytes caps multipart uploads when no limit is configured.
const DefaultMaxUploadBytes int64 = 32 << 20

// Handlers exposes a Vault over HTTP.
type Handlers struct {
	vault     *vault.Vault
	metrics   *monitoring.Metrics
	tracer    *tracing.Tracer
	logger    *zap.Logger
	maxUpload int64
	version   string
}

// Option configures Handlers.
type Option func(*Handlers)

// WithMetrics attaches a metrics collector for upload accounting and the
// health report.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(h *Handlers) { h.metrics = m }
}

// WithTracer enables child spans around subtree walks.
func WithTracer(t *tracing.Tracer) Option {
	return func(h *Handlers) { h.tracer = t }
}

// WithLogger sets the handler logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxUploadBytes limits the size of multipart upload bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithVersion sets the version reported by the root endpoint.
func WithVersion(version string) Option {
	return func(h *Handlers) { h.version = version }
}

// NewHandlers creates a new handler set
func NewHandlers(v *vault.Vault, opts ...Option) *Handlers {
	h := &Handlers{
		vault:     v,
		logger:    zap.NewNop(),
		maxUpload: DefaultMaxUploadBytes,
		version:   "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts every vault endpoint on r.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	folders := r.Group("/folders")
	folders.POST("", h.CreateFolder)
	folders.DELETE("", h.DeleteFolder)
	folders.PATCH("/rename", h.RenameFolder)
	folders.PATCH("/move", h.MoveFolder)
	folders.GET("/tree", h.GetFolderTree)
	folders.GET("/content", h.GetFolderContent)
	folders.GET("/entries", h.ListFolder)
	folders.GET("/search", h.Search)
	folders.GET("/archive", h.Archive)

	files := r.Group("/files")
	files.POST("", h.CreateFile)
	files.GET("", h.ReadFile)
	files.PATCH("/rename", h.RenameFile)
	files.PATCH("/move", h.MoveFile)
	files.DELETE("", h.DeleteFile)
}

// Root identifies the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "PathVault",
		"version": h.version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status": "healthy",
		"vault":  gin.H{"base_dir": h.vault.Base()},
	}
	if h.metrics != nil {
		resp["stats"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// pathResponse reports a resolved path relative to the vault base.
func (h *Handlers) pathResponse(c *gin.Context, status int, resolved string) {
	c.JSON(status, gin.H{"path": h.vault.Rel(resolved)})
}
