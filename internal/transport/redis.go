package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/logship/internal/core/config"
	"github.com/vietddude/logship/internal/core/domain"
)

// Redis ships events to a redis list (RPUSH) or pub/sub channel
// (PUBLISH), depending on the configured mode.
type Redis struct {
	rdb  *redis.Client
	key  string
	mode string
}

// NewRedis connects to redis and verifies the connection. A failed
// dial is a transport fault so the supervisor retries with backoff.
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, domain.NewTransportError("redis ping", err)
	}

	return &Redis{rdb: rdb, key: cfg.Key, mode: cfg.Mode}, nil
}

func (r *Redis) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	switch r.mode {
	case "channel":
		if err := r.rdb.Publish(ctx, r.key, payload).Err(); err != nil {
			return domain.NewTransportError("redis publish", err)
		}
	default: // list
		if err := r.rdb.RPush(ctx, r.key, payload).Err(); err != nil {
			return domain.NewTransportError("redis rpush", err)
		}
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
