package ping

import (
	"log/slog"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/global/redis"
)

var (
	log     *slog.Logger = logger.New("Ping")
	checker *Checker
)

type ModulePing struct{}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {
	log = logger.New("Ping")
	checker = NewChecker(database.DB, redis.Client)
}
