package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

type Config struct {
	RedisAddr  string        `mapstructure:"redis_addr"`
	Password   string        `mapstructure:"redis_password"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Session is the Redis-backed durable store behind the engine's snapshot
// adapter. Records expire after SessionTTL of inactivity; an abandoned survey
// does not stay in Redis forever.
type Session struct {
	db        *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// New initializes and returns a new Session store configured with the provided Config.
func New(cfg *Config) *Session {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
	})

	return &Session{
		db:        rdb,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.SessionTTL,
	}
}

// Close terminates the connection to the Redis database and returns an error if the operation fails.
func (s *Session) Close() error {
	return s.db.Close()
}

// Get reads the snapshot record stored for the key. Returns flow.ErrNotFound
// when no record exists.
func (s *Session) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.db.Get(ctx, s.keyPrefix+key).Bytes()

	switch {
	case errors.Is(err, redis.Nil):
		return nil, flow.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return data, nil
}

// Set writes the snapshot record for the key, refreshing its TTL.
func (s *Session) Set(ctx context.Context, key string, data []byte) error {
	if err := s.db.Set(ctx, s.keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Del removes the snapshot record for the key.
func (s *Session) Del(ctx context.Context, key string) error {
	if err := s.db.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
