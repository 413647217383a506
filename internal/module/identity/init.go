package identity

import (
	"campus-activity/internal/global/database"
	"campus-activity/internal/global/redis"
)

// Default 进程内共享的身份目录，由 Init 构造
var Default *Directory

// Init 需在数据库与 Redis 初始化之后调用
func Init() {
	var revocations Revocations
	if redis.Client != nil {
		log.Info("token 撤销名单使用 Redis")
		revocations = NewRedisRevocations(redis.Client)
	} else {
		log.Warn("未配置 Redis，token 撤销名单仅在本进程内生效")
		revocations = NewMemoryRevocations()
	}
	Default = NewDirectory(database.DB, revocations)
}
