package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"custodia/internal/config"
)

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

// RedisUsageRepository tracks per-user checklist generation counts across
// instances. A nil client disables limiting rather than failing requests.
type RedisUsageRepository struct {
	client *redis.Client
}

func NewRedisUsageRepository(client *redis.Client) *RedisUsageRepository {
	return &RedisUsageRepository{client: client}
}

// CheckRateLimit increments the user's generation counter and reports
// whether the call is still within limit for the window.
func (r *RedisUsageRepository) CheckRateLimit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return true, nil
	}

	key := fmt.Sprintf("checklist_rate:%s", userID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	return count <= int64(limit), nil
}
