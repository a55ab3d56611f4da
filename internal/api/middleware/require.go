package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/pkg/response"
)

// Require 操作权限中间件
// 按 (角色, 资源, 动作) 查能力表，未授权返回 403
// 须挂在 JWTAuth 之后，依赖上下文中的 role
// 角色域由注册校验与库 CHECK 约束限定在 student/teacher/admin 之内；
// 能力表之外的角色在此即被拒绝，列表的行级收窄由 repository 层的 Scope 承担
func Require(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		if !authz.Can(role.(string), resource, action) {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}
