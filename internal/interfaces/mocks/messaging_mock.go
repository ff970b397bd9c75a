package mocks

import (
	"context"

	"story-engine/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock PlayEventPublisher
type PlayEventPublisher struct {
	mock.Mock
}

func (m *PlayEventPublisher) PublishPlayRecorded(ctx context.Context, event models.PlayRecordedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
