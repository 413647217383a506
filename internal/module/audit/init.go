package audit

import (
	"log/slog"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/module/identity"
)

var (
	log     *slog.Logger = logger.New("Audit")
	service *Service
)

type ModuleAudit struct{}

func (m *ModuleAudit) GetName() string {
	return "Audit"
}

func (m *ModuleAudit) Init() {
	log = logger.New("Audit")
	service = NewService(database.DB, identity.Default)
}
