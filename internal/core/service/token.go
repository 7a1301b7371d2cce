package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/portal-users/internal/core/domain"
)

// accessClaims are the claims carried by an access token. The subject is the
// user id, which never changes. Roles are informational only; authorization
// always reads the stored role set.
type accessClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func (t tokenIssuer) issue(user *domain.User, now time.Time) (string, error) {
	claims := accessClaims{
		Roles: user.Roles.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// parse verifies signature and expiry and returns the claims. Every failure
// is reported as domain.ErrUnauthorized.
func (t tokenIssuer) parse(token string) (*accessClaims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
