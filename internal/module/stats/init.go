package stats

import (
	"log/slog"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/module/identity"
)

var (
	log     *slog.Logger = logger.New("Stats")
	service *Service
)

type ModuleStats struct{}

func (*ModuleStats) GetName() string {
	return "Stats"
}

func (*ModuleStats) Init() {
	log = logger.New("Stats")
	service = NewService(database.DB, identity.Default)
}
