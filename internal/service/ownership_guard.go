package service

import (
	"context"
	"errors"
	"fmt"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"go.uber.org/zap"
)

// OwnershipGuard authorizes graph mutation against the story->owner
// relation. Every mutating graph call must pass through Authorize first.
type OwnershipGuard interface {
	// Authorize returns nil when the caller may mutate the story, and
	// models.ErrForbidden otherwise. Staff callers always pass. A story
	// with no recorded owner cannot be mutated by a non-staff caller.
	Authorize(ctx context.Context, caller *models.CallerIdentity, storyID int64) error
}

type ownershipGuardImpl struct {
	ownership interfaces.StoryOwnershipRepository
	logger    *zap.Logger
}

// NewOwnershipGuard creates the guard over the ownership repository.
func NewOwnershipGuard(ownership interfaces.StoryOwnershipRepository, logger *zap.Logger) OwnershipGuard {
	return &ownershipGuardImpl{
		ownership: ownership,
		logger:    logger.Named("OwnershipGuard"),
	}
}

func (g *ownershipGuardImpl) Authorize(ctx context.Context, caller *models.CallerIdentity, storyID int64) error {
	if caller == nil {
		return models.ErrForbidden
	}
	if caller.IsStaff {
		return nil
	}

	ownerID, err := g.ownership.GetOwner(ctx, storyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			g.logger.Warn("Mutation refused: story has no recorded owner",
				zap.Int64("storyID", storyID),
				zap.String("callerID", caller.ID.String()))
			return models.ErrForbidden
		}
		return fmt.Errorf("failed to look up story owner: %w", err)
	}

	if ownerID != caller.ID {
		g.logger.Warn("Mutation refused: caller is not the owner",
			zap.Int64("storyID", storyID),
			zap.String("callerID", caller.ID.String()))
		return models.ErrForbidden
	}
	return nil
}
