package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PathVault/internal/infrastructure/config"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Vault.BaseDir = filepath.Join(t.TempDir(), "storage")
	cfg.Logging.Development = true
	return cfg
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t)

	srv, err := NewServer(cfg, WithLogger(logging.NewNop()), WithVersion("test"))
	require.NoError(t, err)
	defer srv.Close()

	assert.DirExists(t, cfg.Vault.BaseDir)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestServerRoutes(t *testing.T) {
	srv, err := NewServer(testConfig(t), WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer srv.Close()

	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/folders", strings.NewReader(`{"path":"docs"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/folders/content?path=", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":["docs"]}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pathvault_operations_total{op="create_folder",outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), `pathvault_http_requests_total{method="POST",path="/folders",status="201"} 1`)
}

func TestServerRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 1

	srv, err := NewServer(cfg, WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer srv.Close()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/folders/tree", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServerGlobalRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 100
	cfg.RateLimit.Burst = 100
	cfg.RateLimit.GlobalRequestsPerSecond = 1

	srv, err := NewServer(cfg, WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer srv.Close()

	// Distinct clients still share the server-wide budget.
	codes := make([]int, 0, 2)
	for _, addr := range []string{"192.0.2.1:1000", "192.0.2.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/folders/tree", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewServerRejectsUnknownLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Level = "verbose"

	srv, err := NewServer(cfg)
	assert.Nil(t, srv)
	assert.ErrorContains(t, err, `level "verbose"`)
}

func TestRunAndClose(t *testing.T) {
	srv, err := NewServer(testConfig(t), WithLogger(logging.NewNop()))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	require.NoError(t, srv.Close())
	assert.NoError(t, <-done)

	// Close is idempotent.
	assert.NoError(t, srv.Close())
}
