package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
	"github.com/GTD-web/ems-backend-sub027/pkg/response"
)

// RBAC enforces role-based access control for routes. Admin actors always pass.
// "SELF" admits a caller whose id equals the :recipientId or :employeeId route parameter.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	allowedRoles := make(map[models.UserRole]struct{}, len(allowed))
	for _, a := range allowed {
		if a == "SELF" {
			allowSelf = true
			continue
		}
		allowedRoles[models.UserRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if actor.IsAdmin {
			c.Next()
			return
		}
		if _, ok := allowedRoles[actor.Role]; ok {
			c.Next()
			return
		}
		if allowSelf {
			for _, param := range []string{"recipientId", "employeeId"} {
				if target := c.Param(param); target != "" && target == actor.ID {
					c.Next()
					return
				}
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
