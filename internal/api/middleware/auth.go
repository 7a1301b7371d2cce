package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

// Context keys set by Auth.
const (
	ActorKey = "actor"
	TokenKey = "token"
)

// Auth resolves the bearer token into the acting user and stores both in the
// request context.
func Auth(authenticator ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			actor, err := authenticator.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(ActorKey, actor)
			c.Set(TokenKey, parts[1])

			return next(c)
		}
	}
}

// Actor returns the user stored by Auth.
func Actor(c echo.Context) (*domain.User, bool) {
	actor, ok := c.Get(ActorKey).(*domain.User)
	return actor, ok && actor != nil
}

// Token returns the raw bearer token stored by Auth.
func Token(c echo.Context) string {
	token, _ := c.Get(TokenKey).(string)
	return token
}
