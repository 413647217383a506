package activity

import (
	"log/slog"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/module/identity"
)

var (
	log     *slog.Logger = logger.New("Activity")
	service *Service
)

type ModuleActivity struct{}

func (p *ModuleActivity) GetName() string {
	return "Activity"
}

func (p *ModuleActivity) Init() {
	log = logger.New("Activity")
	service = NewService(database.DB, identity.Default)
}
