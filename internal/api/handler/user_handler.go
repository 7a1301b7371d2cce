package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/api/metrics"
	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

// UserHandler handles HTTP requests for the user directory.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /user.
//
// @Summary      Register a new user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Get handles GET /user?user_id=.
//
// @Summary      Get a user by id
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  true  "User id (UUID)"
// @Success      200      {object}  userResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /user [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update handles PATCH /user?user_id=.
//
// @Summary      Update a user's profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string             true  "User id (UUID)"
// @Param        body     body      updateUserRequest  true  "Fields to change"
// @Success      200      {object}  updatedUserResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /user [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), actor, id, req.toProfileUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedUserResponse{UpdatedUserID: updated.ID})
}

// Delete handles DELETE /user?user_id=.
//
// @Summary      Deactivate a user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  true  "User id (UUID)"
// @Success      200      {object}  deletedUserResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /user [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}

	metrics.UsersDeactivatedTotal.Inc()
	return c.JSON(http.StatusOK, deletedUserResponse{DeletedUserID: id})
}

// GrantAdmin handles PATCH /user/admin_privilege?user_id=.
//
// @Summary      Grant the admin role
// @Description  Adds ROLE_PORTAL_ADMIN to the user's roles. Superadmins only; idempotent.
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  true  "User id (UUID)"
// @Success      200      {object}  updatedUserResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /user/admin_privilege [patch]
func (h *UserHandler) GrantAdmin(c echo.Context) error {
	return h.changeAdminPrivilege(c, domain.GrantAdmin)
}

// RevokeAdmin handles DELETE /user/admin_privilege?user_id=.
//
// @Summary      Revoke the admin role
// @Description  Removes ROLE_PORTAL_ADMIN from the user's roles. Superadmins only; idempotent.
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  true  "User id (UUID)"
// @Success      200      {object}  updatedUserResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /user/admin_privilege [delete]
func (h *UserHandler) RevokeAdmin(c echo.Context) error {
	return h.changeAdminPrivilege(c, domain.RevokeAdmin)
}

func (h *UserHandler) changeAdminPrivilege(c echo.Context, change domain.AdminPrivilegeChange) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var updated *domain.User
	switch change {
	case domain.GrantAdmin:
		updated, err = h.service.GrantAdmin(ctx, actor, id)
	case domain.RevokeAdmin:
		updated, err = h.service.RevokeAdmin(ctx, actor, id)
	}

	metrics.AdminPrivilegeChangesTotal.WithLabelValues(change.String(), outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedUserResponse{UpdatedUserID: updated.ID})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrForbidden):
		return metrics.OutcomeForbidden
	case errors.Is(err, domain.ErrUserNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
