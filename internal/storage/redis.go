package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/session"
	"github.com/redis/go-redis/v9"
)

// RedisStorage implements Storage with one JSON value per session.
// Entries expire after ttl without activity.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage accepts either a redis:// URL or a bare host:port.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	var opt *redis.Options
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		var err error
		opt, err = redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
	} else {
		opt = &redis.Options{Addr: redisURL}
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) SaveSession(ctx context.Context, st *session.State) error {
	if st == nil {
		return errors.New("session state cannot be nil")
	}

	data, err := json.Marshal(st)
	if err != nil {
		r.logger.Error("Failed to marshal session", "session_id", st.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(st.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", "session_id", st.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.State, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Session not found", "session_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		r.logger.Error("Failed to unmarshal session", "session_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &st, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete session", "session_id", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
