package database

import (
	"context"
	"fmt"
	"time"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlayRepository = (*pgPlayRepository)(nil)

type pgPlayRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPlayRepository creates a new repository instance.
func NewPgPlayRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.PlayRepository {
	return &pgPlayRepository{
		pool:   pool,
		logger: logger.Named("PgPlayRepo"),
	}
}

const insertEndingMarkerQuery = `
INSERT INTO ending_markers (session_key, story_id, ending_page_id, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_key, story_id, ending_page_id) DO NOTHING`

const insertPlayQuery = `
INSERT INTO plays (id, session_key, user_id, story_id, ending_page_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// RecordEnding sets the ending-arrival marker and appends the Play row in a
// single transaction. The conditional insert on the marker's primary key is
// what makes repeated or concurrent arrivals at the same ending resolve to
// exactly one Play row: only the transaction that actually inserts the
// marker also inserts the play.
func (r *pgPlayRepository) RecordEnding(ctx context.Context, play *models.Play) (bool, error) {
	logFields := []zap.Field{
		zap.String("sessionKey", play.SessionKey),
		zap.Int64("storyID", play.StoryID),
		zap.Int64("endingPageID", play.EndingPageID),
	}

	if play.ID == uuid.Nil {
		play.ID = uuid.New()
	}
	play.CreatedAt = time.Now().UTC()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin ending-record transaction", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, insertEndingMarkerQuery,
		play.SessionKey, play.StoryID, play.EndingPageID, play.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert ending marker", append(logFields, zap.Error(err))...)
		return false, err
	}
	if cmdTag.RowsAffected() == 0 {
		// Marker already set in this play-through; nothing to count.
		r.logger.Debug("Ending already recorded for this play-through", logFields...)
		return false, nil
	}

	_, err = tx.Exec(ctx, insertPlayQuery,
		play.ID, play.SessionKey, play.UserID, play.StoryID, play.EndingPageID, play.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert play row", append(logFields, zap.Error(err))...)
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit ending-record transaction", append(logFields, zap.Error(err))...)
		return false, err
	}

	r.logger.Info("Recorded play", append(logFields, zap.String("playID", play.ID.String()))...)
	return true, nil
}

const playsPerStoryAllQuery = `
SELECT story_id, COUNT(*) AS plays
FROM plays
GROUP BY story_id
ORDER BY plays DESC`

const playsPerStoryByUserQuery = `
SELECT story_id, COUNT(*) AS plays
FROM plays
WHERE user_id = $1
GROUP BY story_id
ORDER BY plays DESC`

const playsPerStoryBySessionQuery = `
SELECT story_id, COUNT(*) AS plays
FROM plays
WHERE session_key = $1
GROUP BY story_id
ORDER BY plays DESC`

func (r *pgPlayRepository) PlaysPerStory(ctx context.Context, scope models.PlayScope) ([]models.StoryPlayCount, error) {
	var counts []models.StoryPlayCount
	var err error
	switch {
	case scope.All:
		err = pgxscan.Select(ctx, r.pool, &counts, playsPerStoryAllQuery)
	case scope.UserID != nil:
		err = pgxscan.Select(ctx, r.pool, &counts, playsPerStoryByUserQuery, *scope.UserID)
	default:
		err = pgxscan.Select(ctx, r.pool, &counts, playsPerStoryBySessionQuery, scope.SessionKey)
	}
	if err != nil {
		r.logger.Error("Failed to query plays per story", zap.Error(err))
		return nil, err
	}
	return counts, nil
}

const playsPerEndingAllQuery = `
SELECT story_id, ending_page_id, COUNT(*) AS plays
FROM plays
GROUP BY story_id, ending_page_id
ORDER BY story_id, plays DESC`

const playsPerEndingByUserQuery = `
SELECT story_id, ending_page_id, COUNT(*) AS plays
FROM plays
WHERE user_id = $1
GROUP BY story_id, ending_page_id
ORDER BY story_id, plays DESC`

const playsPerEndingBySessionQuery = `
SELECT story_id, ending_page_id, COUNT(*) AS plays
FROM plays
WHERE session_key = $1
GROUP BY story_id, ending_page_id
ORDER BY story_id, plays DESC`

func (r *pgPlayRepository) PlaysPerEnding(ctx context.Context, scope models.PlayScope) ([]models.EndingPlayCount, error) {
	var counts []models.EndingPlayCount
	var err error
	switch {
	case scope.All:
		err = pgxscan.Select(ctx, r.pool, &counts, playsPerEndingAllQuery)
	case scope.UserID != nil:
		err = pgxscan.Select(ctx, r.pool, &counts, playsPerEndingByUserQuery, *scope.UserID)
	default:
		err = pgxscan.Select(ctx, r.pool, &counts, playsPerEndingBySessionQuery, scope.SessionKey)
	}
	if err != nil {
		r.logger.Error("Failed to query plays per ending", zap.Error(err))
		return nil, err
	}
	return counts, nil
}
