package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"campus-activity/config"

	"github.com/redis/go-redis/v9"
)

// RedisSentryHook 实现 redis.Hook 接口，追踪 Redis 命令
type RedisSentryHook struct {
	slowThreshold time.Duration
}

func NewRedisSentryHook() *RedisSentryHook {
	return &RedisSentryHook{
		slowThreshold: time.Duration(config.Get().Sentry.Tracing.RedisSlowThresholdMs) * time.Millisecond,
	}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		span := StartSpanFromContext(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		if span != nil {
			span.SetData("db.system", "redis")
			ctx = span.Context()
		}

		err := next(ctx, cmd)

		// redis.Nil 只是 key 不存在
		var spanErr error
		if err != nil && !errors.Is(err, redis.Nil) {
			spanErr = err
		}
		finishSpan(span, time.Since(start), h.slowThreshold, spanErr, "redis.error")
		return err
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		span := StartSpanFromContext(ctx, "db.redis.pipeline", pipelineDescription(cmds))
		if span != nil {
			span.SetData("db.system", "redis")
			span.SetData("redis.pipeline_length", len(cmds))
			ctx = span.Context()
		}

		err := next(ctx, cmds)
		finishSpan(span, time.Since(start), h.slowThreshold, err, "redis.error")
		return err
	}
}

// pipelineDescription 只列出前三个命令名
func pipelineDescription(cmds []redis.Cmder) string {
	const maxShow = 3
	names := make([]string, 0, maxShow)
	for i, cmd := range cmds {
		if i >= maxShow {
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	desc := "PIPELINE: " + strings.Join(names, ", ")
	if len(cmds) > maxShow {
		desc += "..."
	}
	return desc
}
