package handler

import (
	"errors"
	"net/http"

	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError maps service-level errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "not found"
	case errors.Is(err, models.ErrNoStartPage):
		// The story exists but is not playable yet; the client should send
		// the author to the builder.
		statusCode = http.StatusConflict
		message = "story has no start page"
	case errors.Is(err, models.ErrSuspendedStory):
		statusCode = http.StatusConflict
		message = "story is suspended"
	case errors.Is(err, models.ErrInvalidTransition):
		statusCode = http.StatusBadRequest
		message = "chosen page is not offered by the current page"
	case errors.Is(err, models.ErrGraphUnreachable):
		// Retryable: the caller may resubmit; engine writes are idempotent.
		statusCode = http.StatusBadGateway
		message = "story graph store is unreachable"
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		message = "forbidden"
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenExpired),
		errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		message = "unauthorized"
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = "invalid input data"
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = "an unexpected internal error occurred"
	}

	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Error: message})
}
