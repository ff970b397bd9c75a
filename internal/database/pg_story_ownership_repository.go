package database

import (
	"context"
	"errors"
	"time"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.StoryOwnershipRepository = (*pgStoryOwnershipRepository)(nil)

type pgStoryOwnershipRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgStoryOwnershipRepository creates a new repository instance.
func NewPgStoryOwnershipRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.StoryOwnershipRepository {
	return &pgStoryOwnershipRepository{
		pool:   pool,
		logger: logger.Named("PgStoryOwnershipRepo"),
	}
}

// A story has at most one owner; re-creating ownership for an existing story
// id is rejected by the primary key.
const createOwnershipQuery = `
INSERT INTO story_ownership (story_id, owner_id, created_at)
VALUES ($1, $2, $3)`

const getOwnerQuery = `
SELECT owner_id FROM story_ownership WHERE story_id = $1`

const deleteOwnershipQuery = `
DELETE FROM story_ownership WHERE story_id = $1`

func (r *pgStoryOwnershipRepository) Create(ctx context.Context, storyID int64, ownerID uuid.UUID) error {
	logFields := []zap.Field{zap.Int64("storyID", storyID), zap.String("ownerID", ownerID.String())}
	_, err := r.pool.Exec(ctx, createOwnershipQuery, storyID, ownerID, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to create story ownership", append(logFields, zap.Error(err))...)
		return err
	}
	r.logger.Info("Recorded story ownership", logFields...)
	return nil
}

func (r *pgStoryOwnershipRepository) GetOwner(ctx context.Context, storyID int64) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.pool.QueryRow(ctx, getOwnerQuery, storyID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get story owner", zap.Int64("storyID", storyID), zap.Error(err))
		return uuid.Nil, err
	}
	return ownerID, nil
}

func (r *pgStoryOwnershipRepository) Delete(ctx context.Context, storyID int64) error {
	cmdTag, err := r.pool.Exec(ctx, deleteOwnershipQuery, storyID)
	if err != nil {
		r.logger.Error("Failed to delete story ownership", zap.Int64("storyID", storyID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent story ownership", zap.Int64("storyID", storyID))
	} else {
		r.logger.Info("Deleted story ownership", zap.Int64("storyID", storyID))
	}
	return nil
}
