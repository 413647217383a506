package stats

import (
	"campus-activity/internal/global/middleware"
	"campus-activity/internal/model"

	"github.com/gin-gonic/gin"
)

func (*ModuleStats) InitRouter(r *gin.RouterGroup) {
	organizerGroup := r.Group("/stats")
	organizerGroup.Use(middleware.Auth(model.RoleOrganizer))
	{
		organizerGroup.GET("/activity", ActivityStats)
		organizerGroup.GET("/crowdfunding", CrowdfundingStats)
		organizerGroup.GET("/activity/:id/export", ExportRegistrations)
	}

	adminGroup := r.Group("/stats")
	adminGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		adminGroup.GET("/dashboard", Dashboard)
	}
}
