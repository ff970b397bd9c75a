package interfaces

import (
	"context"

	"story-engine/internal/models"
)

// GraphStoreClient is the thin interface to the external Story Graph Store.
// The engine never caches results; every traversal step re-fetches current
// graph state so edits take effect immediately for in-flight play-throughs.
//
// Errors: models.ErrGraphUnreachable for transport failures,
// models.ErrNotFound for absent entities, models.ErrNoStartPage when a
// story's start page is missing or unset.
type GraphStoreClient interface {
	ListStories(ctx context.Context, status models.StoryStatus) ([]models.Story, error)
	GetStory(ctx context.Context, storyID int64) (*models.Story, error)
	GetPage(ctx context.Context, pageID int64) (*models.PageWithChoices, error)
	GetStartPage(ctx context.Context, storyID int64) (*models.PageWithChoices, error)

	CreateStory(ctx context.Context, in models.StoryInput) (*models.Story, error)
	UpdateStory(ctx context.Context, storyID int64, in models.StoryInput) (*models.Story, error)
	// DeleteStory cascades to the story's pages and choices inside the
	// graph store; the engine treats the cascade as atomic.
	DeleteStory(ctx context.Context, storyID int64) error
	CreatePage(ctx context.Context, storyID int64, in models.PageInput) (*models.Page, error)
	CreateChoice(ctx context.Context, pageID int64, in models.ChoiceInput) (*models.Choice, error)
}
