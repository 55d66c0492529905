package http

import (
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// multipartMemory matches gin's default in-memory multipart budget.
const multipartMemory = 32 << 20

// CreateFile stores an uploaded file. The multipart form carries the
// target path in "path" and the content in "file".
func (h *Handlers) CreateFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	// Parse up front: PostForm drops parse errors, including the size limit.
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		respondBadRequest(c, err)
		return
	}

	target := c.PostForm("path")
	header, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if target == "" {
		respondBadRequest(c, errMissingPath)
		return
	}

	src, err := header.Open()
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	resolved, err := h.vault.CreateFile(target, data)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.AddUploadBytes(len(data))
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": h.vault.Rel(resolved),
		"size": len(data),
	})
}

// ReadFile returns a file's raw bytes
func (h *Handlers) ReadFile(c *gin.Context) {
	target := c.Query("path")
	data, err := h.vault.ReadFile(target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": path.Base(target)}))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// RenameFile renames a file in place
func (h *Handlers) RenameFile(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resolved, err := h.vault.RenameFile(req.Path, req.NewName)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResponse(c, http.StatusOK, resolved)
}

// MoveFile moves a file into another folder
func (h *Handlers) MoveFile(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resolved, err := h.vault.MoveFile(req.Path, *req.NewPath)
	if err != nil {
		respondError(c, err)
		return
	}
	h.pathResponse(c, http.StatusOK, resolved)
}

// DeleteFile removes a file
func (h *Handlers) DeleteFile(c *gin.Context) {
	if err := h.vault.DeleteFile(c.Query("path")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
