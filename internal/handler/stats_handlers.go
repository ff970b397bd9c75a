package handler

import (
	"net/http"

	"story-engine/internal/middleware"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
)

// PlayStats handles GET /stats/plays. Staff see the global aggregates,
// everyone else sees only their own plays.
func (h *Handler) PlayStats(c *gin.Context) {
	reader, ok := middleware.ReaderFrom(c)
	if !ok {
		handleServiceError(c, models.ErrInternalServer)
		return
	}

	stats, err := h.stats.PlayStats(c.Request.Context(), reader, middleware.CallerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
