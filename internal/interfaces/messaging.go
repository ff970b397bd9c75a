package interfaces

import (
	"context"

	"story-engine/internal/models"
)

// PlayEventPublisher publishes analytics events for recorded plays.
type PlayEventPublisher interface {
	PublishPlayRecorded(ctx context.Context, event models.PlayRecordedEvent) error
}
