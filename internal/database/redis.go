package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the Redis client used for import progress tracking and
// as the asynq broker backend.
func NewRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
