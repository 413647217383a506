package ping

import (
	"campus-activity/internal/global/response"

	"github.com/gin-gonic/gin"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"version": "1.0.0",
		})
	})
	r.GET("/health", HealthCheck)
}

// HealthCheck 依赖不可用时仍返回 200，由 healthy 字段区分
func HealthCheck(c *gin.Context) {
	response.Success(c, checker.Check(c.Request.Context()))
}
