package registration

import (
	"campus-activity/internal/global/middleware"
	"campus-activity/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleRegistration) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("")
	userGroup.Use(middleware.Auth(model.RoleStudent))
	{
		userGroup.POST("/activity/:id/registration", Register)
		userGroup.DELETE("/registration/:id", Cancel)
		userGroup.GET("/registration/mine", ListMine)
	}

	organizerGroup := r.Group("/activity/:id")
	organizerGroup.Use(middleware.Auth(model.RoleOrganizer))
	{
		organizerGroup.GET("/registrations", ListByActivity)
	}
}
