package service

import (
	"context"
	"fmt"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"go.uber.org/zap"
)

// BuilderService carries the graph mutation operations. Every operation
// runs through the ownership guard before touching the graph store; story
// creation implicitly creates ownership for the creator.
type BuilderService interface {
	CreateStory(ctx context.Context, caller *models.CallerIdentity, in models.StoryInput) (*models.Story, error)
	UpdateStory(ctx context.Context, caller *models.CallerIdentity, storyID int64, in models.StoryInput) (*models.Story, error)
	DeleteStory(ctx context.Context, caller *models.CallerIdentity, storyID int64) error
	AddPage(ctx context.Context, caller *models.CallerIdentity, storyID int64, in models.PageInput) (*models.Page, error)
	AddChoice(ctx context.Context, caller *models.CallerIdentity, pageID int64, in models.ChoiceInput) (*models.Choice, error)
}

type builderServiceImpl struct {
	graph     interfaces.GraphStoreClient
	guard     OwnershipGuard
	ownership interfaces.StoryOwnershipRepository
	sessions  interfaces.PlaySessionRepository
	markers   interfaces.EndingMarkerRepository
	logger    *zap.Logger
}

// NewBuilderService wires the builder operations.
func NewBuilderService(
	graph interfaces.GraphStoreClient,
	guard OwnershipGuard,
	ownership interfaces.StoryOwnershipRepository,
	sessions interfaces.PlaySessionRepository,
	markers interfaces.EndingMarkerRepository,
	logger *zap.Logger,
) BuilderService {
	return &builderServiceImpl{
		graph:     graph,
		guard:     guard,
		ownership: ownership,
		sessions:  sessions,
		markers:   markers,
		logger:    logger.Named("BuilderService"),
	}
}

func (s *builderServiceImpl) CreateStory(ctx context.Context, caller *models.CallerIdentity, in models.StoryInput) (*models.Story, error) {
	if caller == nil {
		return nil, models.ErrForbidden
	}

	story, err := s.graph.CreateStory(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create story in graph store: %w", err)
	}

	if err := s.ownership.Create(ctx, story.ID, caller.ID); err != nil {
		// The story exists remotely but has no owner recorded: an orphan.
		// It stays detectable (and claimable by staff) through the absent
		// ownership row.
		s.logger.Error("Story created but ownership write failed, story is orphaned",
			zap.Int64("storyID", story.ID),
			zap.String("callerID", caller.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("story %d created but ownership could not be recorded: %w", story.ID, err)
	}

	s.logger.Info("Story created",
		zap.Int64("storyID", story.ID),
		zap.String("ownerID", caller.ID.String()))
	return story, nil
}

func (s *builderServiceImpl) UpdateStory(ctx context.Context, caller *models.CallerIdentity, storyID int64, in models.StoryInput) (*models.Story, error) {
	if err := s.guard.Authorize(ctx, caller, storyID); err != nil {
		return nil, err
	}

	story, err := s.graph.UpdateStory(ctx, storyID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update story in graph store: %w", err)
	}
	return story, nil
}

// DeleteStory removes the story from the graph store (which cascades to its
// pages and choices) and then drops the engine-side state for it. Play rows
// stay: they are an append-only analytics log.
func (s *builderServiceImpl) DeleteStory(ctx context.Context, caller *models.CallerIdentity, storyID int64) error {
	if err := s.guard.Authorize(ctx, caller, storyID); err != nil {
		return err
	}

	if err := s.graph.DeleteStory(ctx, storyID); err != nil {
		return fmt.Errorf("failed to delete story in graph store: %w", err)
	}

	if err := s.ownership.Delete(ctx, storyID); err != nil {
		return fmt.Errorf("story deleted but ownership cleanup failed: %w", err)
	}
	if err := s.sessions.DeleteByStory(ctx, storyID); err != nil {
		return fmt.Errorf("story deleted but session cleanup failed: %w", err)
	}
	if err := s.markers.DeleteByStory(ctx, storyID); err != nil {
		return fmt.Errorf("story deleted but marker cleanup failed: %w", err)
	}

	s.logger.Info("Story deleted", zap.Int64("storyID", storyID))
	return nil
}

func (s *builderServiceImpl) AddPage(ctx context.Context, caller *models.CallerIdentity, storyID int64, in models.PageInput) (*models.Page, error) {
	if err := s.guard.Authorize(ctx, caller, storyID); err != nil {
		return nil, err
	}

	// An ending label only makes sense on a terminal page.
	if !in.IsEnding {
		in.EndingLabel = nil
	}

	page, err := s.graph.CreatePage(ctx, storyID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create page in graph store: %w", err)
	}
	return page, nil
}

// AddChoice authorizes against the story owning the source page.
func (s *builderServiceImpl) AddChoice(ctx context.Context, caller *models.CallerIdentity, pageID int64, in models.ChoiceInput) (*models.Choice, error) {
	pw, err := s.graph.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source page: %w", err)
	}

	if err := s.guard.Authorize(ctx, caller, pw.Page.StoryID); err != nil {
		return nil, err
	}

	choice, err := s.graph.CreateChoice(ctx, pageID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create choice in graph store: %w", err)
	}
	return choice, nil
}
