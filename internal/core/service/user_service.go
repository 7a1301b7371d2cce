package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

// UserService implements the user directory use cases.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Create registers a new active account. The password is stored as a bcrypt
// hash and the role set defaults to {USER}.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if in.Name == "" || in.Surname == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	roles := in.Roles
	if roles.IsEmpty() {
		roles = domain.NewRoleSet(domain.RoleUser)
	}

	now := s.now()
	user := &domain.User{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Surname:        in.Surname,
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
		Roles:          roles,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Strs("roles", roles.Strings()).Msg("user created")
	return user, nil
}

// Get returns a user by id, active or not.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update edits the profile of an active user on behalf of actor.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return nil, domain.ErrNoUpdateFields
	}
	if err := s.authorizeManage(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user profile updated")
	return updated, nil
}

// Delete soft-deletes a user on behalf of actor. Superadmins cannot be
// deleted this way.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Roles.Has(domain.RoleSuperadmin) {
		return domain.ErrSuperadminDelete
	}
	if !domain.CanManage(actor, target) {
		return domain.ErrForbidden
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user deactivated")
	return nil
}

// EnsureSuperadmin creates a {USER, SUPERADMIN} account for email unless one
// is already registered under it.
func (s *UserService) EnsureSuperadmin(ctx context.Context, email, password string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.Roles.Has(domain.RoleSuperadmin) {
			s.logger.Warn().Str("email", email).Msg("bootstrap email belongs to a non-superadmin account")
		}
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("ensure superadmin: %w", err)
	}

	_, err = s.Create(ctx, ports.CreateUserInput{
		Name:     "Super",
		Surname:  "Admin",
		Email:    email,
		Password: password,
		Roles:    domain.NewRoleSet(domain.RoleUser, domain.RoleSuperadmin),
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		return nil
	}
	return err
}

func (s *UserService) authorizeManage(ctx context.Context, actor *domain.User, id string) error {
	if actor.ID == id {
		return nil
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanManage(actor, target) {
		return domain.ErrForbidden
	}
	return nil
}
