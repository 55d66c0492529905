package http

import (
	"context"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PathVault/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PathVault/internal/vault"
)

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

type renameRequest struct {
	Path    string `json:"path" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

// NewPath may be empty to target the vault base, so presence is checked
// on the pointer.
type moveRequest struct {
	Path    string  `json:"path" binding:"required"`
	NewPath *string `json:"new_path" binding:"required"`
}

// CreateFolder creates a folder and any missing parents
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resolved, err := h.vault.CreateFolder(req.Path)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResponse(c, http.StatusCreated, resolved)
}

// DeleteFolder removes a folder and everything below it
func (h *Handlers) DeleteFolder(c *gin.Context) {
	if err := h.vault.DeleteFolder(c.Query("path")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RenameFolder renames a folder in place
func (h *Handlers) RenameFolder(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resolved, err := h.vault.RenameFolder(req.Path, req.NewName)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResponse(c, http.StatusOK, resolved)
}

// MoveFolder moves a folder into another folder
func (h *Handlers) MoveFolder(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resolved, err := h.vault.MoveFolder(req.Path, *req.NewPath)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResponse(c, http.StatusOK, resolved)
}

// GetFolderTree returns the nested folder hierarchy
func (h *Handlers) GetFolderTree(c *gin.Context) {
	tree, err := h.vault.GetFolderTree(c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tree": tree})
}

// GetFolderContent returns the names of a folder's immediate children
func (h *Handlers) GetFolderContent(c *gin.Context) {
	names, err := h.vault.GetFolderContent(c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": names})
}

// ListFolder returns metadata for a folder's immediate children
func (h *Handlers) ListFolder(c *gin.Context) {
	entries, err := h.vault.ListFolder(c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Search finds files below a folder matching a glob pattern
func (h *Handlers) Search(c *gin.Context) {
	folder, pattern := c.Query("path"), c.Query("pattern")

	ctx, finish := h.span(c, "vault.search", "pattern", pattern)
	matches, err := h.vault.Search(ctx, folder, pattern)
	finish(err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

// Archive streams a compressed tar of a folder as an attachment
func (h *Handlers) Archive(c *gin.Context) {
	folder, format := c.Query("path"), c.DefaultQuery("format", vault.FormatGzip)

	name := path.Base(path.Clean("/" + folder))
	if name == "/" || name == "." {
		name = "vault"
	}

	w := &attachmentWriter{
		c:           c,
		filename:    name + vault.ArchiveExtension(format),
		contentType: archiveContentType(format),
	}

	ctx, finish := h.span(c, "vault.archive", "format", format)
	err := h.vault.Archive(ctx, folder, w, format)
	finish(err)
	if err == nil {
		if !w.started {
			w.start()
		}
		return
	}

	if !w.started {
		respondError(c, err)
		return
	}
	// Headers are already on the wire; the client sees a truncated body.
	h.logger.Error("archive stream interrupted",
		append([]zap.Field{zap.String("path", folder), zap.Error(err)}, tracing.Fields(ctx)...)...)
	_ = c.Error(err)
	c.Abort()
}

func archiveContentType(format string) string {
	if format == vault.FormatZstd {
		return "application/zstd"
	}
	return "application/gzip"
}

// attachmentWriter defers the response headers until the first byte so a
// failure before any output can still produce a JSON error.
type attachmentWriter struct {
	c           *gin.Context
	filename    string
	contentType string
	started     bool
}

func (w *attachmentWriter) start() {
	w.started = true
	w.c.Header("Content-Type", w.contentType)
	w.c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": w.filename}))
	w.c.Status(http.StatusOK)
}

func (w *attachmentWriter) Write(p []byte) (int, error) {
	if !w.started {
		w.start()
	}
	return w.c.Writer.Write(p)
}

// span starts a child span for a subtree walk when tracing is enabled.
func (h *Handlers) span(c *gin.Context, name, key, value string) (context.Context, func(error)) {
	ctx := c.Request.Context()
	if h.tracer == nil {
		return ctx, func(error) {}
	}

	span, ctx := h.tracer.StartSpan(ctx, name)
	span.SetTag("vault.path", c.Query("path"))
	span.SetTag(key, value)
	return ctx, func(err error) {
		if err != nil {
			span.SetStatus(statusFor(err))
			span.SetError(err)
		}
		span.Finish()
		h.tracer.Submit(span)
	}
}
