package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/core/domain"
)

// RBAC lets the request through when the actor holds any of allowedRoles.
// It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := Actor(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if !actor.Roles.Intersects(allowed) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
