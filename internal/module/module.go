package module

import (
	"campus-activity/internal/module/activity"
	"campus-activity/internal/module/audit"
	"campus-activity/internal/module/crowdfunding"
	"campus-activity/internal/module/feedback"
	"campus-activity/internal/module/ping"
	"campus-activity/internal/module/registration"
	"campus-activity/internal/module/stats"
	"campus-activity/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&activity.ModuleActivity{},
		&audit.ModuleAudit{},
		&registration.ModuleRegistration{},
		&crowdfunding.ModuleCrowdfunding{},
		&feedback.ModuleFeedback{},
		&stats.ModuleStats{},
	})
}
