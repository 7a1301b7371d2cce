package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/portal-users/internal/core/domain"
	"github.com/99minutos/portal-users/internal/core/ports"
)

// AuthService implements login, logout and bearer token authentication.
type AuthService struct {
	repo     ports.UserRepository
	denylist ports.TokenDenylist
	tokens   tokenIssuer
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(repo ports.UserRepository, denylist ports.TokenDenylist, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{
		repo:     repo,
		denylist: denylist,
		tokens:   tokenIssuer{secret: []byte(jwtSecret), ttl: tokenTTL},
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks the credentials of an active user and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.issue(user, s.now())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.parse(token)
	if err != nil {
		return err
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("user_id", claims.Subject).Msg("token revoked")
	return nil
}

// Authenticate resolves a bearer token to an active user with its current
// role set.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
