package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/api/middleware"
	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

type stubUserService struct {
	createFn      func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	getFn         func(ctx context.Context, id string) (*domain.User, error)
	updateFn      func(ctx context.Context, actor *domain.User, id string, update domain.ProfileUpdate) (*domain.User, error)
	deleteFn      func(ctx context.Context, actor *domain.User, id string) error
	grantAdminFn  func(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	revokeAdminFn func(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, actor *domain.User, id string, update domain.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, update)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubUserService) GrantAdmin(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return s.grantAdminFn(ctx, actor, id)
}

func (s *stubUserService) RevokeAdmin(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return s.revokeAdminFn(ctx, actor, id)
}

type stubAuthService struct {
	loginFn        func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn       func(ctx context.Context, token string) error
	authenticateFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.authenticateFn(ctx, token)
}

const (
	actorID  = "11111111-1111-4111-8111-111111111111"
	targetID = "22222222-2222-4222-8222-222222222222"
)

var superadmin = &domain.User{
	ID:       actorID,
	Email:    "root@example.com",
	IsActive: true,
	Roles:    domain.NewRoleSet(domain.RoleUser, domain.RoleSuperadmin),
}

// newContext builds an echo context with the validator installed and, when
// actor is non-nil, the actor stored as the Auth middleware would.
func newContext(method, target, body string, actor *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(middleware.ActorKey, actor)
	}
	return c, rec
}
