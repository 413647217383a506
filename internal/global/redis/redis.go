package redis

import (
	"context"
	"time"

	"campus-activity/config"
	"campus-activity/internal/global/sentry/tracing"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// Init 未配置 Redis 时 Client 保持为 nil
func Init() error {
	cfg := config.Get().Redis
	if !cfg.Enabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	Client = client
	return nil
}
