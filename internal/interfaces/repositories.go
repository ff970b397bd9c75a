package interfaces

import (
	"context"

	"story-engine/internal/models"

	"github.com/google/uuid"
)

// PlaySessionRepository owns the (session key, story) -> current page
// mapping. Upsert must be a single-row upsert guarded by the primary key so
// concurrent writes for the same pair resolve last-writer-wins.
type PlaySessionRepository interface {
	Upsert(ctx context.Context, session *models.PlaySession) error
	// Get returns models.ErrNotFound when no session exists for the pair.
	Get(ctx context.Context, sessionKey string, storyID int64) (*models.PlaySession, error)
	// Delete is a no-op when the session does not exist.
	Delete(ctx context.Context, sessionKey string, storyID int64) error
	// DeleteByStory removes every reader's session for a story (story
	// deletion cleanup).
	DeleteByStory(ctx context.Context, storyID int64) error
}

// PlayRepository owns the append-only Play log and the ending-arrival
// markers that deduplicate it.
type PlayRepository interface {
	// RecordEnding atomically sets the ending-arrival marker for
	// (play.SessionKey, play.StoryID, play.EndingPageID) and inserts the
	// Play row, in one transaction. Returns false without writing anything
	// when the marker was already set.
	RecordEnding(ctx context.Context, play *models.Play) (bool, error)
	PlaysPerStory(ctx context.Context, scope models.PlayScope) ([]models.StoryPlayCount, error)
	PlaysPerEnding(ctx context.Context, scope models.PlayScope) ([]models.EndingPlayCount, error)
}

// EndingMarkerRepository clears ending-arrival markers. Setting a marker
// happens only through PlayRepository.RecordEnding.
type EndingMarkerRepository interface {
	// ClearForReader removes a reader's markers for one story, so a fresh
	// run can re-count endings hit in a prior run.
	ClearForReader(ctx context.Context, sessionKey string, storyID int64) error
	DeleteByStory(ctx context.Context, storyID int64) error
}

// StoryOwnershipRepository maps a story to the account allowed to mutate it.
type StoryOwnershipRepository interface {
	Create(ctx context.Context, storyID int64, ownerID uuid.UUID) error
	// GetOwner returns models.ErrNotFound when no ownership row exists.
	GetOwner(ctx context.Context, storyID int64) (uuid.UUID, error)
	Delete(ctx context.Context, storyID int64) error
}

// ReaderSessionRepository tracks the per-browser session tokens on the side
// (last seen, optional linked account). It is bookkeeping only: progress and
// dedup state live in Postgres, never here.
type ReaderSessionRepository interface {
	Touch(ctx context.Context, sessionKey string, userID *uuid.UUID) error
}
