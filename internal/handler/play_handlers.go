package handler

import (
	"net/http"
	"strconv"

	"story-engine/internal/middleware"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListStories handles GET /stories. Readers only see published stories;
// the status query parameter is accepted for builder tooling.
func (h *Handler) ListStories(c *gin.Context) {
	status := models.StoryStatus(c.DefaultQuery("status", string(models.StoryStatusPublished)))
	stories, err := h.browsing.ListStories(c.Request.Context(), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

// GetStory handles GET /stories/:story_id.
func (h *Handler) GetStory(c *gin.Context) {
	storyID, ok := pathID(c, "story_id")
	if !ok {
		return
	}
	story, err := h.browsing.GetStory(c.Request.Context(), storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// StartPlay handles POST /stories/:story_id/play. With ?resume=true a saved
// session, if any, takes precedence over the start page.
func (h *Handler) StartPlay(c *gin.Context) {
	storyID, ok := pathID(c, "story_id")
	if !ok {
		return
	}
	reader, ok := middleware.ReaderFrom(c)
	if !ok {
		handleServiceError(c, models.ErrInternalServer)
		return
	}
	resume := c.Query("resume") == "true"

	res, err := h.traversal.Start(c.Request.Context(), reader, storyID, resume)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTraversalDTO(res))
}

// GetPlayPage handles GET /play/pages/:page_id, a read-positioning step that
// also autosaves progress for the reader.
func (h *Handler) GetPlayPage(c *gin.Context) {
	pageID, ok := pathID(c, "page_id")
	if !ok {
		return
	}
	reader, ok := middleware.ReaderFrom(c)
	if !ok {
		handleServiceError(c, models.ErrInternalServer)
		return
	}

	res, err := h.traversal.Advance(c.Request.Context(), reader, pageID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTraversalDTO(res))
}

// Choose handles POST /play/pages/:page_id/choose. The requested target must
// be one of the current page's choices.
func (h *Handler) Choose(c *gin.Context) {
	pageID, ok := pathID(c, "page_id")
	if !ok {
		return
	}
	reader, ok := middleware.ReaderFrom(c)
	if !ok {
		handleServiceError(c, models.ErrInternalServer)
		return
	}

	var req chooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid choose request body", zap.Error(err))
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	res, err := h.traversal.Choose(c.Request.Context(), reader, pageID, req.NextPageID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTraversalDTO(res))
}

// ResetPlay handles DELETE /stories/:story_id/play: drops the saved session
// and ending markers so the reader's next run counts again.
func (h *Handler) ResetPlay(c *gin.Context) {
	storyID, ok := pathID(c, "story_id")
	if !ok {
		return
	}
	reader, ok := middleware.ReaderFrom(c)
	if !ok {
		handleServiceError(c, models.ErrInternalServer)
		return
	}

	if err := h.traversal.Reset(c.Request.Context(), reader, storyID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a positive integer path parameter, responding 400 itself on
// malformed input.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}
