package user

import (
	"campus-activity/internal/global/middleware"
	"campus-activity/internal/model"

	"github.com/gin-gonic/gin"
)

// InitRouter 用户相关端点挂载在 /user 下
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")
	userGroup.POST("/login", Login)
	userGroup.POST("/register", Register)

	authGroup := r.Group("/user")
	authGroup.Use(middleware.Auth(model.RoleStudent))
	{
		authGroup.GET("/me", Me)
		authGroup.POST("/logout", Logout)
		authGroup.PUT("/password", ChangePassword)
	}

	adminGroup := r.Group("/user")
	adminGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		adminGroup.PUT("/role", SetRole)
	}
}
