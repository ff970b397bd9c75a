package service

import (
	"context"
	"fmt"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"go.uber.org/zap"
)

// PlayRecorder decides whether an arrival at an ending page is a genuine
// first arrival for this play-through and, if so, records a permanent Play
// row exactly once.
type PlayRecorder interface {
	RecordIfNew(ctx context.Context, reader models.Reader, storyID, endingPageID int64) (bool, error)
}

type playRecorderImpl struct {
	plays     interfaces.PlayRepository
	publisher interfaces.PlayEventPublisher
	logger    *zap.Logger
}

// NewPlayRecorder creates the recorder. The publisher may be nil; analytics
// events are then skipped.
func NewPlayRecorder(plays interfaces.PlayRepository, publisher interfaces.PlayEventPublisher, logger *zap.Logger) PlayRecorder {
	return &playRecorderImpl{
		plays:     plays,
		publisher: publisher,
		logger:    logger.Named("PlayRecorder"),
	}
}

// RecordIfNew delegates the check-then-record to a single conditional insert
// in the repository, so concurrent arrivals at the same ending (duplicate
// browser tab) cannot double-count. The marker, not the Play table, is the
// source of truth for "already counted".
func (s *playRecorderImpl) RecordIfNew(ctx context.Context, reader models.Reader, storyID, endingPageID int64) (bool, error) {
	play := &models.Play{
		SessionKey:   reader.SessionKey,
		UserID:       reader.UserID,
		StoryID:      storyID,
		EndingPageID: endingPageID,
	}

	recorded, err := s.plays.RecordEnding(ctx, play)
	if err != nil {
		return false, fmt.Errorf("failed to record ending arrival: %w", err)
	}
	if !recorded {
		endingDuplicatesTotal.Inc()
		return false, nil
	}

	playsRecordedTotal.Inc()

	if s.publisher != nil {
		event := models.PlayRecordedEvent{
			PlayID:       play.ID,
			StoryID:      play.StoryID,
			EndingPageID: play.EndingPageID,
			UserID:       play.UserID,
			RecordedAt:   play.CreatedAt,
		}
		// The Play row is already committed; a publish failure must not
		// fail the traversal step.
		if err := s.publisher.PublishPlayRecorded(ctx, event); err != nil {
			s.logger.Warn("Failed to publish play event",
				zap.String("playID", play.ID.String()),
				zap.Error(err))
		}
	}

	return true, nil
}
