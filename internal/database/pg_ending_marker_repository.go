package database

import (
	"context"

	"story-engine/internal/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.EndingMarkerRepository = (*pgEndingMarkerRepository)(nil)

type pgEndingMarkerRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgEndingMarkerRepository creates a new repository instance.
func NewPgEndingMarkerRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.EndingMarkerRepository {
	return &pgEndingMarkerRepository{
		pool:   pool,
		logger: logger.Named("PgEndingMarkerRepo"),
	}
}

const clearMarkersForReaderQuery = `
DELETE FROM ending_markers
WHERE session_key = $1 AND story_id = $2`

const deleteMarkersByStoryQuery = `
DELETE FROM ending_markers
WHERE story_id = $1`

func (r *pgEndingMarkerRepository) ClearForReader(ctx context.Context, sessionKey string, storyID int64) error {
	logFields := []zap.Field{zap.String("sessionKey", sessionKey), zap.Int64("storyID", storyID)}
	cmdTag, err := r.pool.Exec(ctx, clearMarkersForReaderQuery, sessionKey, storyID)
	if err != nil {
		r.logger.Error("Failed to clear ending markers", append(logFields, zap.Error(err))...)
		return err
	}
	if cmdTag.RowsAffected() > 0 {
		r.logger.Debug("Cleared ending markers for fresh run",
			append(logFields, zap.Int64("cleared", cmdTag.RowsAffected()))...)
	}
	return nil
}

func (r *pgEndingMarkerRepository) DeleteByStory(ctx context.Context, storyID int64) error {
	cmdTag, err := r.pool.Exec(ctx, deleteMarkersByStoryQuery, storyID)
	if err != nil {
		r.logger.Error("Failed to delete ending markers for story", zap.Int64("storyID", storyID), zap.Error(err))
		return err
	}
	r.logger.Info("Deleted ending markers for story",
		zap.Int64("storyID", storyID),
		zap.Int64("deleted", cmdTag.RowsAffected()))
	return nil
}
