package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaySession is the durable per-reader-per-story pointer to the current
// page. Keyed by (SessionKey, StoryID); UserID is the optional link to an
// authenticated account.
type PlaySession struct {
	SessionKey    string     `db:"session_key"`
	StoryID       int64      `db:"story_id"`
	CurrentPageID int64      `db:"current_page_id"`
	UserID        *uuid.UUID `db:"user_id"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// Play is an immutable record of a confirmed ending arrival. Rows are only
// ever inserted; the ending marker, not this table, decides whether an
// arrival counts.
type Play struct {
	ID           uuid.UUID  `db:"id"`
	SessionKey   string     `db:"session_key"`
	UserID       *uuid.UUID `db:"user_id"`
	StoryID      int64      `db:"story_id"`
	EndingPageID int64      `db:"ending_page_id"`
	CreatedAt    time.Time  `db:"created_at"`
}

// StoryOwnership maps a story to the account that may mutate its graph.
type StoryOwnership struct {
	StoryID   int64     `db:"story_id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
}

// PlayScope restricts play-stats queries to a caller's own rows.
// Exactly one of All, UserID or SessionKey applies, checked in that order.
type PlayScope struct {
	All        bool
	UserID     *uuid.UUID
	SessionKey string
}

// StoryPlayCount is one row of the plays-per-story aggregate.
type StoryPlayCount struct {
	StoryID int64 `db:"story_id" json:"story_id"`
	Plays   int64 `db:"plays" json:"plays"`
}

// EndingPlayCount is one row of the plays-per-ending aggregate.
type EndingPlayCount struct {
	StoryID      int64 `db:"story_id" json:"story_id"`
	EndingPageID int64 `db:"ending_page_id" json:"ending_page_id"`
	Plays        int64 `db:"plays" json:"plays"`
}

// PlayStats bundles both aggregates for the stats endpoint.
type PlayStats struct {
	PerStory  []StoryPlayCount  `json:"plays_per_story"`
	PerEnding []EndingPlayCount `json:"plays_per_ending"`
}

// TraversalResult is what a traversal step hands back for rendering.
type TraversalResult struct {
	Page           Page     `json:"page"`
	Choices        []Choice `json:"choices"`
	Ended          bool     `json:"ended"`
	EndingRecorded bool     `json:"ending_recorded"`
}
