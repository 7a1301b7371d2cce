package ports

import (
	"context"
	"time"
)

// TokenDenylist remembers revoked token ids until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
