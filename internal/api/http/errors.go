package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/PathVault/internal/vault"
)

// Kinds for failures that happen before the vault is reached.
const (
	kindInvalidRequest = "invalid_request"
	kindTooLarge       = "payload_too_large"
)

var errMissingPath = errors.New(`form field "path" is required`)

// statusFor maps a vault error kind to an HTTP status code.
func statusFor(err error) int {
	switch vault.KindOf(err) {
	case vault.ErrInvalidPath, vault.ErrInvalidFormat, vault.ErrNotAFolder, vault.ErrNotAFile:
		return http.StatusBadRequest
	case vault.ErrFolderAlreadyExists, vault.ErrFileAlreadyExists:
		return http.StatusConflict
	case vault.ErrFolderNotFound, vault.ErrFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body for a failed vault operation.
// Internal failures hide their cause from the client; it is logged by the
// vault and attached to the gin context.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": msg,
		"kind":  vault.KindName(err),
	})
}

// respondBadRequest rejects malformed input that never reached the vault.
func respondBadRequest(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": err.Error(),
			"kind":  kindTooLarge,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request: " + err.Error(),
		"kind":  kindInvalidRequest,
	})
}
