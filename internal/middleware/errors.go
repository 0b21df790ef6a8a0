package middleware

import (
	"log/slog"
	"net/http"

	"agririsk-back/internal/apperr"

	"github.com/gin-gonic/gin"
)

// AbortWithError writes the {"error": ...} body for err and stops the chain.
// Only the status and public message of an *apperr.Error reach the client;
// anything else is logged and reported as an internal error.
func AbortWithError(c *gin.Context, logger *slog.Logger, err error) {
	status, message := apperr.Status(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed",
			"error", err,
			"status", status,
			"path", c.Request.URL.Path,
			"request_id", GetRequestID(c))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
