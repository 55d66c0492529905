package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PathVault/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PathVault/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PathVault/internal/vault"
)

type testServer struct {
	router  *gin.Engine
	base    string
	metrics *monitoring.Metrics
}

func setupTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("test", zap.NewNop())
	t.Cleanup(tracer.Close)

	v := vault.New(base, vault.WithObserver(metrics))
	router := gin.New()
	NewHandlers(v, append([]Option{WithMetrics(metrics), WithTracer(tracer)}, opts...)...).RegisterRoutes(router)

	return &testServer{router: router, base: base, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if path != "" {
		require.NoError(t, mw.WriteField("path", path))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(s.base, d), 0o755))
	}
}

func (s *testServer) writeFile(t *testing.T, rel, content string) {
	t.Helper()
	full := filepath.Join(s.base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRootAndHealth(t *testing.T) {
	s := setupTestServer(t, WithVersion("1.2.3"))

	w := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.2.3", decode(t, w)["version"])

	s.do(t, http.MethodPost, "/folders", gin.H{"path": "a"})

	w = s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["total_operations"])
}

func TestFolderLifecycle(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/folders", gin.H{"path": "projects/alpha"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "projects/alpha", decode(t, w)["path"])
	assert.DirExists(t, filepath.Join(s.base, "projects/alpha"))

	s.mkdirs(t, "archive")

	w = s.do(t, http.MethodPatch, "/folders/rename", gin.H{"path": "projects/alpha", "new_name": "beta"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "projects/beta", decode(t, w)["path"])

	w = s.do(t, http.MethodPatch, "/folders/move", gin.H{"path": "projects/beta", "new_path": "archive"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "archive/beta", decode(t, w)["path"])

	w = s.do(t, http.MethodGet, "/folders/tree?path=", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tree":{"archive":{"beta":{}},"projects":{}}}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/folders/content?path=archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":["beta"]}`, w.Body.String())

	// Moving into the base itself uses an empty new_path.
	w = s.do(t, http.MethodPatch, "/folders/move", gin.H{"path": "archive/beta", "new_path": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "beta", decode(t, w)["path"])

	w = s.do(t, http.MethodDelete, "/folders?path=beta", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoDirExists(t, filepath.Join(s.base, "beta"))
}

func TestFolderErrors(t *testing.T) {
	s := setupTestServer(t)
	s.mkdirs(t, "exists")
	s.writeFile(t, "file.txt", "x")

	tests := []struct {
		name       string
		method     string
		target     string
		body       any
		wantStatus int
		wantKind   string
	}{
		{"create existing", http.MethodPost, "/folders", gin.H{"path": "exists"}, http.StatusConflict, "folder_already_exists"},
		{"create with parent segment", http.MethodPost, "/folders", gin.H{"path": "../escape"}, http.StatusBadRequest, "invalid_path"},
		{"create without path", http.MethodPost, "/folders", gin.H{}, http.StatusBadRequest, kindInvalidRequest},
		{"delete missing", http.MethodDelete, "/folders?path=missing", nil, http.StatusNotFound, "folder_not_found"},
		{"delete base", http.MethodDelete, "/folders?path=", nil, http.StatusBadRequest, "invalid_path"},
		{"delete file as folder", http.MethodDelete, "/folders?path=file.txt", nil, http.StatusBadRequest, "not_a_folder"},
		{"rename without new name", http.MethodPatch, "/folders/rename", gin.H{"path": "exists"}, http.StatusBadRequest, kindInvalidRequest},
		{"move without new path", http.MethodPatch, "/folders/move", gin.H{"path": "exists"}, http.StatusBadRequest, kindInvalidRequest},
		{"move into missing", http.MethodPatch, "/folders/move", gin.H{"path": "exists", "new_path": "nowhere"}, http.StatusNotFound, "folder_not_found"},
		{"tree of file", http.MethodGet, "/folders/tree?path=file.txt", nil, http.StatusBadRequest, "not_a_folder"},
		{"content of missing", http.MethodGet, "/folders/content?path=missing", nil, http.StatusNotFound, "folder_not_found"},
		{"search bad pattern", http.MethodGet, "/folders/search?path=&pattern=%5Bunclosed", nil, http.StatusBadRequest, "invalid_format"},
		{"archive bad format", http.MethodGet, "/folders/archive?path=exists&format=rar", nil, http.StatusBadRequest, "invalid_format"},
		{"archive missing", http.MethodGet, "/folders/archive?path=missing", nil, http.StatusNotFound, "folder_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantKind, decode(t, w)["kind"])
			assert.Empty(t, w.Header().Get("Content-Disposition"))
		})
	}
}

func TestListSearchArchive(t *testing.T) {
	s := setupTestServer(t)
	s.writeFile(t, "docs/a.txt", "alpha")
	s.writeFile(t, "docs/sub/b.txt", "beta")
	s.writeFile(t, "docs/c.md", "# gamma")

	w := s.do(t, http.MethodGet, "/folders/entries?path=docs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Entries []vault.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Entries, 3)

	w = s.do(t, http.MethodGet, "/folders/search?path=docs&pattern=**/*.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matches":["docs/a.txt","docs/sub/b.txt"],"count":2}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/folders/archive?path=docs/sub", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/gzip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename=sub.tar.gz`)

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "beta")

	w = s.do(t, http.MethodGet, "/folders/archive?path=&format=zstd", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zstd", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename=vault.tar.zst`)
}

func TestFileLifecycle(t *testing.T) {
	s := setupTestServer(t)
	content := []byte{0x00, 0x01, 0xfe, 0xff, 'h', 'i'}

	w := s.upload(t, "inbox/blob.bin", "blob.bin", content)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "inbox/blob.bin", body["path"])
	assert.EqualValues(t, len(content), body["size"])

	w = s.do(t, http.MethodGet, "/files?path=inbox/blob.bin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, content, w.Body.Bytes())

	w = s.do(t, http.MethodPatch, "/files/rename", gin.H{"path": "inbox/blob.bin", "new_name": "data.bin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inbox/data.bin", decode(t, w)["path"])

	s.mkdirs(t, "store")
	w = s.do(t, http.MethodPatch, "/files/move", gin.H{"path": "inbox/data.bin", "new_path": "store"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "store/data.bin", decode(t, w)["path"])

	w = s.do(t, http.MethodDelete, "/files?path=store/data.bin", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoFileExists(t, filepath.Join(s.base, "store/data.bin"))
}

func TestFileErrors(t *testing.T) {
	s := setupTestServer(t)
	s.writeFile(t, "taken.txt", "x")
	s.mkdirs(t, "dir")

	w := s.upload(t, "taken.txt", "taken.txt", []byte("new"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "file_already_exists", decode(t, w)["kind"])

	w = s.upload(t, "", "orphan.txt", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, kindInvalidRequest, decode(t, w)["kind"])

	w = s.upload(t, "nofile.txt", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/files?path=missing.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "file_not_found", decode(t, w)["kind"])

	w = s.do(t, http.MethodGet, "/files?path=dir", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not_a_file", decode(t, w)["kind"])

	w = s.do(t, http.MethodPatch, "/files/move", gin.H{"path": "taken.txt", "new_path": "taken.txt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not_a_folder", decode(t, w)["kind"])

	w = s.do(t, http.MethodDelete, "/files?path=../../etc/passwd", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_path", decode(t, w)["kind"])
}

func TestUploadSizeLimit(t *testing.T) {
	s := setupTestServer(t, WithMaxUploadBytes(512))

	w := s.upload(t, "big.bin", "big.bin", bytes.Repeat([]byte("x"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "payload_too_large", decode(t, w)["kind"])
	assert.NoFileExists(t, filepath.Join(s.base, "big.bin"))

	w = s.upload(t, "small.bin", "small.bin", []byte("ok"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{vault.ErrInvalidPath, http.StatusBadRequest},
		{vault.ErrInvalidFormat, http.StatusBadRequest},
		{vault.ErrNotAFolder, http.StatusBadRequest},
		{vault.ErrNotAFile, http.StatusBadRequest},
		{vault.ErrFolderAlreadyExists, http.StatusConflict},
		{vault.ErrFileAlreadyExists, http.StatusConflict},
		{vault.ErrFolderNotFound, http.StatusNotFound},
		{vault.ErrFileNotFound, http.StatusNotFound},
		{vault.ErrInternal, http.StatusInternalServerError},
		{errors.New("unrelated"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		respondError(c, errors.New("open /secret/location: permission denied"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "/secret"))
	assert.JSONEq(t, `{"error":"internal error","kind":"internal"}`, w.Body.String())
}
