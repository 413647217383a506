// Package ping 存活与依赖健康检查
package ping

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"
)

// Checker 探测 MySQL 与 Redis，Redis 未配置时记为 disabled
type Checker struct {
	db      *gorm.DB
	redis   *redis.Client
	timeout time.Duration
}

func NewChecker(db *gorm.DB, client *redis.Client) *Checker {
	return &Checker{db: db, redis: client, timeout: 2 * time.Second}
}

// Report 各依赖的状态，healthy 仅在所有已启用依赖都可用时为 true
type Report struct {
	Healthy bool              `json:"healthy"`
	Deps    map[string]string `json:"deps"`
}

func (ch *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, ch.timeout)
	defer cancel()

	h := Report{Healthy: true, Deps: map[string]string{}}
	h.Deps["mysql"] = ch.checkDB(ctx)
	h.Deps["redis"] = ch.checkRedis(ctx)
	for _, status := range h.Deps {
		if status == statusDown {
			h.Healthy = false
		}
	}
	return h
}

func (ch *Checker) checkDB(ctx context.Context) string {
	if ch.db == nil {
		return statusDown
	}
	sqlDB, err := ch.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		log.Error("MySQL 健康检查失败", "error", err)
		return statusDown
	}
	return statusUp
}

func (ch *Checker) checkRedis(ctx context.Context) string {
	if ch.redis == nil {
		return statusDisabled
	}
	if err := ch.redis.Ping(ctx).Err(); err != nil {
		log.Error("Redis 健康检查失败", "error", err)
		return statusDown
	}
	return statusUp
}
