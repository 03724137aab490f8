package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis returns nil when no URL is configured or the server is not
// reachable; callers treat a nil client as "feature disabled" (the
// in-memory rate limiter takes over).
func NewRedis(url string, logger *zap.SugaredLogger) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis not reachable, continuing without it", "error", err)
		_ = client.Close()
		return nil, nil
	}
	return client, nil
}
