package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/api/metrics"
	"github.com/99minutos/portal-users/internal/api/middleware"
	"github.com/99minutos/portal-users/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges form credentials for a bearer token.
//
// @Summary      Login for access token
// @Tags         login
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Account email"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  tokenResponse
// @Failure      401       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /login/token [post]
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "username and password are required")
	}

	token, _, err := h.authService.Login(c.Request().Context(), username, password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout revokes the bearer token of the current request.
//
// @Summary      Logout
// @Tags         login
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /login/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.Token(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
