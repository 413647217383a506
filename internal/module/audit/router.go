package audit

import (
	"campus-activity/internal/global/middleware"
	"campus-activity/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleAudit) InitRouter(r *gin.RouterGroup) {
	adminGroup := r.Group("/audit")
	adminGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		adminGroup.POST("/activity/:id", AuditActivity)
		adminGroup.POST("/fund-proof/:id", AuditFundProof)
	}

	logGroup := r.Group("/audit")
	logGroup.Use(middleware.Auth(model.RoleStudent))
	{
		logGroup.GET("/activity/:id/logs", GetActivityAuditLogs)
	}
}
