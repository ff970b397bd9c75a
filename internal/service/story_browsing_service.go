package service

import (
	"context"
	"fmt"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"go.uber.org/zap"
)

// StoryBrowsingService exposes read-only story lookups for readers and the
// builder UI. It is a pass-through to the graph store; nothing is cached.
type StoryBrowsingService interface {
	ListStories(ctx context.Context, status models.StoryStatus) ([]models.Story, error)
	GetStory(ctx context.Context, storyID int64) (*models.Story, error)
}

type storyBrowsingServiceImpl struct {
	graph  interfaces.GraphStoreClient
	logger *zap.Logger
}

// NewStoryBrowsingService creates the browsing pass-through.
func NewStoryBrowsingService(graph interfaces.GraphStoreClient, logger *zap.Logger) StoryBrowsingService {
	return &storyBrowsingServiceImpl{
		graph:  graph,
		logger: logger.Named("StoryBrowsingService"),
	}
}

func (s *storyBrowsingServiceImpl) ListStories(ctx context.Context, status models.StoryStatus) ([]models.Story, error) {
	stories, err := s.graph.ListStories(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

func (s *storyBrowsingServiceImpl) GetStory(ctx context.Context, storyID int64) (*models.Story, error) {
	story, err := s.graph.GetStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch story: %w", err)
	}
	return story, nil
}
