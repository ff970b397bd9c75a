package mocks

import (
	"context"

	"story-engine/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock GraphStoreClient
type GraphStoreClient struct {
	mock.Mock
}

func (m *GraphStoreClient) ListStories(ctx context.Context, status models.StoryStatus) ([]models.Story, error) {
	args := m.Called(ctx, status)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}

func (m *GraphStoreClient) GetStory(ctx context.Context, storyID int64) (*models.Story, error) {
	args := m.Called(ctx, storyID)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *GraphStoreClient) GetPage(ctx context.Context, pageID int64) (*models.PageWithChoices, error) {
	args := m.Called(ctx, pageID)
	pw, _ := args.Get(0).(*models.PageWithChoices)
	return pw, args.Error(1)
}

func (m *GraphStoreClient) GetStartPage(ctx context.Context, storyID int64) (*models.PageWithChoices, error) {
	args := m.Called(ctx, storyID)
	pw, _ := args.Get(0).(*models.PageWithChoices)
	return pw, args.Error(1)
}

func (m *GraphStoreClient) CreateStory(ctx context.Context, in models.StoryInput) (*models.Story, error) {
	args := m.Called(ctx, in)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *GraphStoreClient) UpdateStory(ctx context.Context, storyID int64, in models.StoryInput) (*models.Story, error) {
	args := m.Called(ctx, storyID, in)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *GraphStoreClient) DeleteStory(ctx context.Context, storyID int64) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

func (m *GraphStoreClient) CreatePage(ctx context.Context, storyID int64, in models.PageInput) (*models.Page, error) {
	args := m.Called(ctx, storyID, in)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}

func (m *GraphStoreClient) CreateChoice(ctx context.Context, pageID int64, in models.ChoiceInput) (*models.Choice, error) {
	args := m.Called(ctx, pageID, in)
	choice, _ := args.Get(0).(*models.Choice)
	return choice, args.Error(1)
}
