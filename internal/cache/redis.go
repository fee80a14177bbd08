package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bilgisen/titan/internal/config"
	"github.com/bilgisen/titan/internal/utils"
)

// ErrMiss is returned when a page shell is not cached.
var ErrMiss = errors.New("cache miss")

// RedisInterface caches page shells by name. Feed data is never stored here.
type RedisInterface interface {
	GetPage(ctx context.Context, name string) (string, error)
	SetPage(ctx context.Context, name, html string, ttl time.Duration) error
	DeletePage(ctx context.Context, name string) error
	ClearPages(ctx context.Context) error
	Close() error
}

type RedisClient struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisClientWith(client, cfg.RedisPrefix), nil
}

// NewRedisClientWith wraps an existing client.
func NewRedisClientWith(client *redis.Client, prefix string) *RedisClient {
	return &RedisClient{
		client: client,
		prefix: prefix + "page:",
	}
}

func (r *RedisClient) key(name string) string {
	return r.prefix + utils.Hash(name)
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) GetPage(ctx context.Context, name string) (string, error) {
	html, err := r.client.Get(ctx, r.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return html, nil
}

func (r *RedisClient) SetPage(ctx context.Context, name, html string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(name), html, ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (r *RedisClient) DeletePage(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, r.key(name)).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

func (r *RedisClient) ClearPages(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning keys: %w", err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("error deleting keys: %w", err)
		}
	}

	return nil
}
