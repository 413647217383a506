package activity

import (
	"campus-activity/internal/global/middleware"
	"campus-activity/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	publicGroup := r.Group("/activity")
	{
		publicGroup.GET("", ListActivities)
		publicGroup.GET("/:id", GetActivity)
	}

	organizerGroup := r.Group("/activity")
	organizerGroup.Use(middleware.Auth(model.RoleOrganizer))
	{
		organizerGroup.POST("", CreateActivity)
		organizerGroup.PUT("/:id", UpdateActivity)
		organizerGroup.DELETE("/:id", DeleteActivity)
	}

	adminGroup := r.Group("/admin/activity")
	adminGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		adminGroup.POST("/advance", AdvanceStatuses)
	}
}
