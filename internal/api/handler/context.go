package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/api/middleware"
	"github.com/99minutos/portal-users/internal/core/domain"
)

// ctxActor returns the authenticated user injected by the Auth middleware.
// A missing actor means the route was registered without Auth.
func ctxActor(c echo.Context) (*domain.User, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return actor, nil
}

// userIDParam reads and normalises the user_id query parameter.
func userIDParam(c echo.Context) (string, error) {
	raw := c.QueryParam("user_id")
	if raw == "" {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity, "user_id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity, "user_id must be a valid UUID")
	}
	return id.String(), nil
}
