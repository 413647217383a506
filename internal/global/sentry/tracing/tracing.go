// Package tracing 提供 Sentry 性能追踪的集成
// 包含 GORM 和 Redis 的追踪实现
package tracing

import (
	"context"
	"time"

	"campus-activity/config"

	"github.com/getsentry/sentry-go"
)

// IsEnabled 检查 Sentry 追踪是否已启用
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// StartSpanFromContext 在 ctx 中的 transaction 下创建子 span
// 没有父 span 时返回 nil，调用方需自行判断
func StartSpanFromContext(ctx context.Context, operation, description string) *sentry.Span {
	if ctx == nil {
		return nil
	}
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}

// finishSpan 结束 span，未超过慢阈值的 span 不采样
func finishSpan(span *sentry.Span, elapsed, slowThreshold time.Duration, err error, errKey string) {
	if span == nil {
		return
	}
	if slowThreshold > 0 && elapsed < slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData(errKey, err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
