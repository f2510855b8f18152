package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vasastore/storefront-client/models"
)

// Redis is a Store backed by a Redis instance, for headless or server-side
// embeddings of the SDK where state must outlive the process.
type Redis struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisClient initializes and returns a Redis client
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedis wraps an existing client. ttl bounds cart snapshots and cached
// descriptions; the token slot has no expiry of its own, the token carries one.
func NewRedis(client *redis.Client, namespace string, ttl time.Duration) *Redis {
	return &Redis{client: client, namespace: namespace, ttl: ttl}
}

func (r *Redis) tokenKey() string {
	return fmt.Sprintf("%s:token", r.namespace)
}

func (r *Redis) cartKey(userID int) string {
	return fmt.Sprintf("%s:cart:%d", r.namespace, userID)
}

func (r *Redis) descriptionKey(productID int) string {
	return fmt.Sprintf("%s:product:%d:description", r.namespace, productID)
}

func (r *Redis) Token(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.tokenKey()).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (r *Redis) SetToken(ctx context.Context, token string) error {
	return r.client.Set(ctx, r.tokenKey(), token, 0).Err()
}

func (r *Redis) ClearToken(ctx context.Context) error {
	return r.client.Del(ctx, r.tokenKey()).Err()
}

func (r *Redis) CartSnapshot(ctx context.Context, userID int) ([]models.CartLine, error) {
	data, err := r.client.Get(ctx, r.cartKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *Redis) SetCartSnapshot(ctx context.Context, userID int, lines []models.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.cartKey(userID), data, r.ttl).Err()
}

func (r *Redis) ProductDescription(ctx context.Context, productID int) (string, error) {
	val, err := r.client.Get(ctx, r.descriptionKey(productID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (r *Redis) SetProductDescription(ctx context.Context, productID int, description string) error {
	return r.client.Set(ctx, r.descriptionKey(productID), description, r.ttl).Err()
}
