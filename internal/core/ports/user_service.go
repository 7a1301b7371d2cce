package ports

import (
	"context"

	"github.com/99minutos/portal-users/internal/core/domain"
)

// CreateUserInput carries the data needed to register an account.
// Roles defaults to {USER} when empty.
type CreateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
	Roles    domain.RoleSet
}

// UserService defines the use cases over the user directory.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, actor *domain.User, id string, update domain.ProfileUpdate) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	GrantAdmin(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	RevokeAdmin(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
}
