package ports

import (
	"context"

	"github.com/99minutos/portal-users/internal/core/domain"
)

// RoleTransition computes a new role set from the current one. Repositories
// call it inside their atomic update unit and may call it more than once.
type RoleTransition func(current domain.RoleSet) domain.RoleSet

// UserRepository is the user directory. Implementations enforce email
// uniqueness across active and inactive records and return
// domain.ErrUserNotFound / domain.ErrEmailTaken for the matching outcomes.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByID returns the record regardless of its active flag.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile applies the set fields to an active record.
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	// Deactivate flips an active record to inactive.
	Deactivate(ctx context.Context, id string) error
	// UpdateRoles atomically reads the roles of an active record, applies
	// transition and stores the result. Concurrent calls on the same id
	// serialize: no update is lost and no merged set is stored.
	UpdateRoles(ctx context.Context, id string, transition RoleTransition) (*domain.User, error)
}
