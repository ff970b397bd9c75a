package handler

import (
	"net/http"

	"story-engine/internal/authutils"
	"story-engine/internal/interfaces"
	"story-engine/internal/middleware"
	"story-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler wires the HTTP surface to the engine services.
type Handler struct {
	browsing  service.StoryBrowsingService
	traversal service.TraversalService
	builder   service.BuilderService
	stats     service.StatsService

	verifier         *authutils.JWTVerifier
	readerSessions   interfaces.ReaderSessionRepository
	sessionCookie    string
	sessionMaxAgeSec int
	logger           *zap.Logger
}

func NewHandler(
	browsing service.StoryBrowsingService,
	traversal service.TraversalService,
	builder service.BuilderService,
	stats service.StatsService,
	verifier *authutils.JWTVerifier,
	readerSessions interfaces.ReaderSessionRepository,
	sessionCookie string,
	sessionMaxAgeSec int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		browsing:         browsing,
		traversal:        traversal,
		builder:          builder,
		stats:            stats,
		verifier:         verifier,
		readerSessions:   readerSessions,
		sessionCookie:    sessionCookie,
		sessionMaxAgeSec: sessionMaxAgeSec,
		logger:           logger.Named("Handler"),
	}
}

// RegisterRoutes attaches all engine routes to the router. Reader routes run
// behind optional auth plus the session cookie; builder routes require an
// authenticated author.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	optionalAuth := middleware.OptionalAuth(h.verifier, h.logger)
	readerSession := middleware.ReaderSession(h.sessionCookie, h.sessionMaxAgeSec, h.readerSessions, h.logger)
	requireAuth := middleware.RequireAuth(h.verifier, h.logger)
	requireAuthor := middleware.RequireAuthor(h.logger)

	reader := router.Group("/")
	reader.Use(optionalAuth, readerSession)
	{
		reader.GET("/stories", h.ListStories)
		reader.GET("/stories/:story_id", h.GetStory)
		reader.POST("/stories/:story_id/play", h.StartPlay)
		reader.DELETE("/stories/:story_id/play", h.ResetPlay)
		reader.GET("/play/pages/:page_id", h.GetPlayPage)
		reader.POST("/play/pages/:page_id/choose", h.Choose)
		reader.GET("/stats/plays", h.PlayStats)
	}

	builder := router.Group("/")
	builder.Use(requireAuth, requireAuthor)
	{
		builder.POST("/stories", h.CreateStory)
		builder.PUT("/stories/:story_id", h.UpdateStory)
		builder.DELETE("/stories/:story_id", h.DeleteStory)
		builder.POST("/stories/:story_id/pages", h.AddPage)
		builder.POST("/pages/:page_id/choices", h.AddChoice)
	}
}
