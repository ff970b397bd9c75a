package service

import (
	"context"
	"fmt"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"go.uber.org/zap"
)

// StatsService aggregates the append-only Play log. Results are scoped to
// the caller's own plays unless the caller is staff.
type StatsService interface {
	PlayStats(ctx context.Context, reader models.Reader, caller *models.CallerIdentity) (*models.PlayStats, error)
}

type statsServiceImpl struct {
	plays  interfaces.PlayRepository
	logger *zap.Logger
}

// NewStatsService creates the stats aggregator.
func NewStatsService(plays interfaces.PlayRepository, logger *zap.Logger) StatsService {
	return &statsServiceImpl{
		plays:  plays,
		logger: logger.Named("StatsService"),
	}
}

func (s *statsServiceImpl) PlayStats(ctx context.Context, reader models.Reader, caller *models.CallerIdentity) (*models.PlayStats, error) {
	scope := scopeFor(reader, caller)

	perStory, err := s.plays.PlaysPerStory(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate plays per story: %w", err)
	}
	perEnding, err := s.plays.PlaysPerEnding(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate plays per ending: %w", err)
	}

	return &models.PlayStats{PerStory: perStory, PerEnding: perEnding}, nil
}

// scopeFor picks the narrowest scope for the caller: staff sees everything,
// an authenticated reader sees their account's plays, an anonymous reader
// sees the plays of their browser session.
func scopeFor(reader models.Reader, caller *models.CallerIdentity) models.PlayScope {
	if caller != nil && caller.IsStaff {
		return models.PlayScope{All: true}
	}
	if caller != nil {
		id := caller.ID
		return models.PlayScope{UserID: &id}
	}
	return models.PlayScope{SessionKey: reader.SessionKey}
}
