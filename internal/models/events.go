package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayRecordedEvent is published to the analytics queue after a Play row is
// committed. Consumers must tolerate duplicates; the Play table is the
// source of truth.
type PlayRecordedEvent struct {
	PlayID       uuid.UUID  `json:"play_id"`
	StoryID      int64      `json:"story_id"`
	EndingPageID int64      `json:"ending_page_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	RecordedAt   time.Time  `json:"recorded_at"`
}
