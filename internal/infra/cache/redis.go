package cache

import (
	"context"
	"fmt"
	"time"

	"todo-api/pkg/redis"
)

const pingTimeout = 5 * time.Second

type Config struct {
	Host     string
	Port     int
	Password string
	Database int
	TTL      time.Duration
}

// Connect builds the redis client and checks the server answers
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	redisConfig := redis.NewRedisConfig().
		WithHost(cfg.Host).
		WithPort(cfg.Port).
		WithPassword(cfg.Password).
		WithDatabase(cfg.Database)
	if cfg.TTL > 0 {
		redisConfig = redisConfig.WithDefaultCacheTTL(cfg.TTL)
	}

	client, err := redis.NewClient(redisConfig)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", redisConfig.Addr(), err)
	}
	return client, nil
}
