package redis

import (
	"context"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shxlzz/To-Do-List/internal/config"
)

const pingTimeout = 5 * time.Second

// NewClient creates a Redis client for the key-value backend.
// A failed startup ping is logged and the client is still returned so writes can be buffered.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*goRedis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goRedis.NewClient(opts)
	log := logger.With(zap.String("addr", opts.Addr), zap.Int("db", opts.DB))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable at startup", zap.Error(err))
		return client, nil
	}
	log.Info("connected to redis")
	return client, nil
}

// clientOptions parses the URL; explicit password and db settings win over the URL's.
func clientOptions(cfg config.RedisConfig) (*goRedis.Options, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return opts, nil
}
