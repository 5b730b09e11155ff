package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devicedesk/config"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "session:"

// ErrNotFound is returned when no session exists for a token hash, either
// because it was never created, was revoked, or expired.
var ErrNotFound = errors.New("session not found")

// Session is the server-side state kept per issued token, keyed by the
// SHA-256 hash of the token. Revoking a token deletes its session.
type Session struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists login sessions for the lifetime of their tokens.
type Store interface {
	Save(ctx context.Context, tokenHash string, s Session, ttl time.Duration) error
	Get(ctx context.Context, tokenHash string) (*Session, error)
	Delete(ctx context.Context, tokenHash string) error
}

// RedisStore is the Redis-backed session store used in production.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the configured Redis auth DB and verifies the
// connection before returning.
func NewRedisStore(ctx context.Context) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis (sessions): %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Save(ctx context.Context, tokenHash string, s Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionPrefix+tokenHash, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, tokenHash string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionPrefix+tokenHash).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	return r.client.Del(ctx, sessionPrefix+tokenHash).Err()
}
