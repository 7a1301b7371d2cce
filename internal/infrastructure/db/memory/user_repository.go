// Package memory provides an in-process user directory, used for local runs
// and tests. A single mutex serializes every write.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

type UserRepository struct {
	mu sync.RWMutex

	byID    map[string]domain.User
	byEmail map[string]string
}

func NewUserRepository(seed ...domain.User) *UserRepository {
	r := &UserRepository{
		byID:    make(map[string]domain.User, len(seed)),
		byEmail: make(map[string]string, len(seed)),
	}
	for _, u := range seed {
		r.byID[u.ID] = u
		r.byEmail[emailKey(u.Email)] = u.ID
	}
	return r
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[emailKey(user.Email)]; taken {
		return domain.ErrEmailTaken
	}
	if _, exists := r.byID[user.ID]; exists {
		return domain.ErrInvalidInput
	}
	r.byID[user.ID] = *user
	r.byEmail[emailKey(user.Email)] = user.ID
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok || !u.IsActive {
		return nil, domain.ErrUserNotFound
	}

	oldKey := emailKey(u.Email)
	update.Apply(&u)
	newKey := emailKey(u.Email)
	if newKey != oldKey {
		if _, taken := r.byEmail[newKey]; taken {
			return nil, domain.ErrEmailTaken
		}
		delete(r.byEmail, oldKey)
		r.byEmail[newKey] = id
	}
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return &u, nil
}

func (r *UserRepository) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok || !u.IsActive {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}

func (r *UserRepository) UpdateRoles(_ context.Context, id string, transition ports.RoleTransition) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok || !u.IsActive {
		return nil, domain.ErrUserNotFound
	}
	u.Roles = transition(u.Roles)
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return &u, nil
}

// emailKey matches the stores' unique index, which compares emails exactly.
func emailKey(email string) string { return email }
