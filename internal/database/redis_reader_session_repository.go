package database

import (
	"context"
	"fmt"
	"time"

	"story-engine/internal/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ReaderSessionRepository = (*redisReaderSessionRepository)(nil)

type redisReaderSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisReaderSessionRepository creates a Redis-backed registry of reader
// session tokens. Two keys per token:
//
//	reader_session:{token}      -> last-seen timestamp (RFC3339)
//	reader_session_user:{token} -> linked user id, only when authenticated
//
// Both carry the session TTL and slide on every touch. Progress and dedup
// state stay in Postgres; losing these keys loses nothing but bookkeeping.
func NewRedisReaderSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) interfaces.ReaderSessionRepository {
	return &redisReaderSessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisReaderSessionRepo"),
	}
}

func (r *redisReaderSessionRepository) Touch(ctx context.Context, sessionKey string, userID *uuid.UUID) error {
	sessionRedisKey := fmt.Sprintf("reader_session:%s", sessionKey)
	userRedisKey := fmt.Sprintf("reader_session_user:%s", sessionKey)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionRedisKey, time.Now().UTC().Format(time.RFC3339), r.ttl)
	if userID != nil {
		pipe.Set(ctx, userRedisKey, userID.String(), r.ttl)
	} else {
		pipe.Expire(ctx, userRedisKey, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Failed to touch reader session in redis",
			zap.String("sessionKey", sessionKey), zap.Error(err))
		return fmt.Errorf("failed to touch reader session: %w", err)
	}
	return nil
}
