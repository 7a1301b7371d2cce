package ports

import (
	"context"

	"github.com/99minutos/portal-users/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	Authenticator
}

// Authenticator turns a bearer token into the acting user, loaded fresh from
// the directory so that its role set is current.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
