package database

import (
	"context"
	"errors"
	"time"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlaySessionRepository = (*pgPlaySessionRepository)(nil)

type pgPlaySessionRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPlaySessionRepository creates a new repository instance.
func NewPgPlaySessionRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.PlaySessionRepository {
	return &pgPlaySessionRepository{
		pool:   pool,
		logger: logger.Named("PgPlaySessionRepo"),
	}
}

const getPlaySessionQuery = `
SELECT session_key, story_id, current_page_id, user_id, created_at, updated_at
FROM play_sessions
WHERE session_key = $1 AND story_id = $2`

// The primary key on (session_key, story_id) serializes concurrent writes
// for the same pair; last writer wins, which is fine because every request
// carries the authoritative page id it is transitioning to.
const upsertPlaySessionQuery = `
INSERT INTO play_sessions (session_key, story_id, current_page_id, user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (session_key, story_id) DO UPDATE SET
    current_page_id = EXCLUDED.current_page_id,
    user_id = COALESCE(EXCLUDED.user_id, play_sessions.user_id),
    updated_at = EXCLUDED.updated_at
`

const deletePlaySessionQuery = `
DELETE FROM play_sessions
WHERE session_key = $1 AND story_id = $2`

const deletePlaySessionsByStoryQuery = `
DELETE FROM play_sessions
WHERE story_id = $1`

func (r *pgPlaySessionRepository) Get(ctx context.Context, sessionKey string, storyID int64) (*models.PlaySession, error) {
	session := &models.PlaySession{}
	logFields := []zap.Field{zap.String("sessionKey", sessionKey), zap.Int64("storyID", storyID)}

	err := r.pool.QueryRow(ctx, getPlaySessionQuery, sessionKey, storyID).Scan(
		&session.SessionKey,
		&session.StoryID,
		&session.CurrentPageID,
		&session.UserID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get play session", append(logFields, zap.Error(err))...)
		return nil, err
	}

	r.logger.Debug("Retrieved play session", logFields...)
	return session, nil
}

func (r *pgPlaySessionRepository) Upsert(ctx context.Context, session *models.PlaySession) error {
	now := time.Now().UTC()
	session.UpdatedAt = now
	logFields := []zap.Field{
		zap.String("sessionKey", session.SessionKey),
		zap.Int64("storyID", session.StoryID),
		zap.Int64("currentPageID", session.CurrentPageID),
	}

	_, err := r.pool.Exec(ctx, upsertPlaySessionQuery,
		session.SessionKey,
		session.StoryID,
		session.CurrentPageID,
		session.UserID,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to upsert play session", append(logFields, zap.Error(err))...)
		return err
	}

	r.logger.Debug("Upserted play session", logFields...)
	return nil
}

func (r *pgPlaySessionRepository) Delete(ctx context.Context, sessionKey string, storyID int64) error {
	logFields := []zap.Field{zap.String("sessionKey", sessionKey), zap.Int64("storyID", storyID)}
	cmdTag, err := r.pool.Exec(ctx, deletePlaySessionQuery, sessionKey, storyID)
	if err != nil {
		r.logger.Error("Failed to delete play session", append(logFields, zap.Error(err))...)
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		// The goal (no session) is already reached, so this is not an error.
		r.logger.Debug("Attempted to delete non-existent play session", logFields...)
	} else {
		r.logger.Info("Deleted play session", logFields...)
	}
	return nil
}

func (r *pgPlaySessionRepository) DeleteByStory(ctx context.Context, storyID int64) error {
	cmdTag, err := r.pool.Exec(ctx, deletePlaySessionsByStoryQuery, storyID)
	if err != nil {
		r.logger.Error("Failed to delete play sessions for story", zap.Int64("storyID", storyID), zap.Error(err))
		return err
	}
	r.logger.Info("Deleted play sessions for story",
		zap.Int64("storyID", storyID),
		zap.Int64("deleted", cmdTag.RowsAffected()))
	return nil
}
