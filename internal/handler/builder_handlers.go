package handler

import (
	"net/http"

	"story-engine/internal/middleware"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateStory handles POST /stories. The caller becomes the story's owner.
func (h *Handler) CreateStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create story request body", zap.Error(err))
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	story, err := h.builder.CreateStory(c.Request.Context(), middleware.CallerFrom(c), models.StoryInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StoryStatusDraft,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

// UpdateStory handles PUT /stories/:story_id.
func (h *Handler) UpdateStory(c *gin.Context) {
	storyID, ok := pathID(c, "story_id")
	if !ok {
		return
	}
	var req updateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid update story request body", zap.Error(err))
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	story, err := h.builder.UpdateStory(c.Request.Context(), middleware.CallerFrom(c), storyID, models.StoryInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StartPageID: req.StartPageID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// DeleteStory handles DELETE /stories/:story_id. Engine-side session state
// goes with the story; recorded plays stay.
func (h *Handler) DeleteStory(c *gin.Context) {
	storyID, ok := pathID(c, "story_id")
	if !ok {
		return
	}
	if err := h.builder.DeleteStory(c.Request.Context(), middleware.CallerFrom(c), storyID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddPage handles POST /stories/:story_id/pages.
func (h *Handler) AddPage(c *gin.Context) {
	storyID, ok := pathID(c, "story_id")
	if !ok {
		return
	}
	var req createPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create page request body", zap.Error(err))
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	page, err := h.builder.AddPage(c.Request.Context(), middleware.CallerFrom(c), storyID, models.PageInput{
		Text:        req.Text,
		IsEnding:    req.IsEnding,
		EndingLabel: req.EndingLabel,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

// AddChoice handles POST /pages/:page_id/choices. Ownership is checked
// against the story of the source page.
func (h *Handler) AddChoice(c *gin.Context) {
	pageID, ok := pathID(c, "page_id")
	if !ok {
		return
	}
	var req createChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create choice request body", zap.Error(err))
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	choice, err := h.builder.AddChoice(c.Request.Context(), middleware.CallerFrom(c), pageID, models.ChoiceInput{
		Text:       req.Text,
		NextPageID: req.NextPageID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, choice)
}
