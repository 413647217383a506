package registration

import (
	"log/slog"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/module/identity"
)

var (
	log     *slog.Logger = logger.New("Registration")
	service *Service
)

type ModuleRegistration struct{}

func (m *ModuleRegistration) GetName() string {
	return "Registration"
}

func (m *ModuleRegistration) Init() {
	log = logger.New("Registration")
	service = NewService(database.DB, identity.Default)
}
