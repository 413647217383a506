package user

import (
	"log/slog"

	"campus-activity/internal/global/logger"
)

var log *slog.Logger = logger.New("User")

type ModuleUser struct{}

func (u *ModuleUser) GetName() string {
	return "User"
}

func (u *ModuleUser) Init() {
	log = logger.New("User")
}
