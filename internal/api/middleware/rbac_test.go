package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/core/domain"
)

func TestRBAC(t *testing.T) {
	tests := []struct {
		name  string
		actor *domain.User
		want  error
	}{
		{"superadmin allowed", &domain.User{Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleSuperadmin)}, nil},
		{"admin denied", &domain.User{Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin)}, domain.ErrForbidden},
		{"user denied", &domain.User{Roles: domain.NewRoleSet(domain.RoleUser)}, domain.ErrForbidden},
		{"no roles denied", &domain.User{}, domain.ErrForbidden},
		{"no actor", nil, domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newRequest("")
			if tt.actor != nil {
				c.Set(ActorKey, tt.actor)
			}

			err := RBAC(domain.RoleSuperadmin)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)

			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.want == nil && rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestRBAC_AnyOfSeveralRoles(t *testing.T) {
	c, _ := newRequest("")
	c.Set(ActorKey, &domain.User{Roles: domain.NewRoleSet(domain.RoleAdmin)})

	err := RBAC(domain.RoleAdmin, domain.RoleSuperadmin)(func(echo.Context) error { return nil })(c)
	if err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}
