package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/log"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts the request with the status matching err's kind. Server errors carry only
// their generic message; the cause goes to the log.
func fail(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ctx := c.Request.Context()
		log.FromContext(ctx).WithComponent(log.ComponentHTTP).ErrorContext(ctx, fallback,
			log.FieldPath, c.FullPath(), log.FieldError, err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": core.Message(err, fallback)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
