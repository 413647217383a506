package feedback

import (
	"log/slog"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/logger"
	"campus-activity/internal/global/middleware"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"

	"github.com/gin-gonic/gin"
)

var (
	log     *slog.Logger = logger.New("Feedback")
	service *Service
)

type ModuleFeedback struct{}

func (m *ModuleFeedback) GetName() string {
	return "Feedback"
}

func (m *ModuleFeedback) Init() {
	log = logger.New("Feedback")
	service = NewService(database.DB, identity.Default)
}

func (m *ModuleFeedback) InitRouter(r *gin.RouterGroup) {
	r.GET("/activity/:id/feedback", List)
	r.POST("/activity/:id/feedback", middleware.Auth(model.RoleStudent), Submit)
}
