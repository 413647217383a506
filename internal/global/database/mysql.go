package database

import (
	"fmt"

	"campus-activity/config"
	"campus-activity/internal/global/sentry/tracing"
	"campus-activity/internal/model"
	"campus-activity/tools"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// Models 需要自动迁移的模型列表
var Models = []any{
	&model.User{},
	&model.Activity{},
	&model.Registration{},
	&model.CrowdfundingTier{},
	&model.CrowdfundingSupport{},
	&model.AuditLog{},
	&model.FundProof{},
	&model.Feedback{},
}

// GormConfig 业务库统一使用的 GORM 配置
func GormConfig(mode config.Mode) *gorm.Config {
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
		TranslateError: true,
	}
	switch mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}
	return gormConfig
}

func Init() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Get().Mysql.Username,
		config.Get().Mysql.Password,
		config.Get().Mysql.Host,
		config.Get().Mysql.Port,
		config.Get().Mysql.DBName,
	)

	db, err := gorm.Open(mysql.Open(dsn), GormConfig(config.Get().Mode))
	tools.PanicOnErr(err)
	DB = db

	if tracing.IsEnabled() {
		tools.PanicOnErr(DB.Use(tracing.NewGormTracingPlugin()))
	}

	tools.PanicOnErr(DB.AutoMigrate(Models...))
}
