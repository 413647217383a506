package middleware

import (
	"strings"

	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer token、撤销名单与最低角色，角色按库中当前值判断
func Auth(minRole model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		// token 中的角色只在未初始化身份目录时使用，否则以库中当前角色为准
		role := model.Role(payload.RoleID)
		if identity.Default != nil {
			ctx := c.Request.Context()
			revoked, err := identity.Default.IsRevoked(ctx, payload.TokenID())
			if err != nil {
				response.Fail(c, err)
				c.Abort()
				return
			}
			if revoked {
				response.Fail(c, response.ErrTokenInvalid.WithTips("登录已注销"))
				c.Abort()
				return
			}
			caller, err := identity.Default.Resolve(ctx, payload.StudentID)
			if err != nil {
				response.Fail(c, err)
				c.Abort()
				return
			}
			role = caller.Role
		}

		if role < minRole {
			response.Fail(c, response.ErrForbidden)
			c.Abort()
			return
		}
		c.Set(jwt.PayloadKey, payload)
		c.Next()
	}
}
