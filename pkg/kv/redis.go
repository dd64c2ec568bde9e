package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabi-ops/tabi-api/pkg/config"
)

// Redis stores each blob as a Redis string under a prefixed key.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects, pings, and returns a Redis backend.
func NewRedis(cfg config.RedisConfig, prefix string) (*Redis, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Redis{client: client, prefix: prefix}, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.resolve(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.resolve(key), value, 0).Err()
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.resolve(key)).Err()
}

// Close releases the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}

func (s *Redis) resolve(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
