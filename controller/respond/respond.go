// Package respond writes service errors as JSON responses.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kalender/services"
)

// Error maps a service error onto an HTTP status and aborts the request.
// Unexpected errors are attached to the context for the request logger and
// hidden from the client.
func Error(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func Status(err error) int {
	switch {
	case errors.Is(err, services.ErrBadArguments):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest reports a body or query that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "detail": err.Error()})
}
