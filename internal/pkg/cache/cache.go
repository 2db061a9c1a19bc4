package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

const pingTimeout = 5 * time.Second

// NewClient connects to the Redis compatible cache server and checks it answers.
// The caller owns the client and closes it.
func NewClient(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("cache is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not connect to cache at %s: %w", cfg.Addr(), err)
	}

	log.Infof("[cache] connected to %s: %s", cfg.Addr(), pong)
	return client, nil
}
