package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campus-activity/config"
	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/global/middleware"
	internalOtel "campus-activity/internal/global/otel"
	"campus-activity/internal/global/pictureBed"
	"campus-activity/internal/global/redis"
	"campus-activity/internal/global/sentry"
	"campus-activity/internal/module"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	}

	database.Init()
	tools.PanicOnErr(redis.Init())
	identity.Init()
	pictureBed.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		tools.PanicOnErr(internalOtel.Init(context.Background()))
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

// Router 组装中间件与各模块路由
func Router() *gin.Engine {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())
	r.Use(sentry.Report())

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	return r
}

func Run() {
	defer func() {
		sentry.Flush(2 * time.Second)
		if config.Get().OTel.Enable {
			if err := internalOtel.Shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown TracerProvider", "error", err)
			}
		}
	}()

	err := Router().Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
