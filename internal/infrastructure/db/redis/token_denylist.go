package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked access tokens by their jti until the tokens
// would have expired anyway.
// Key format: revoked_token:<jti>
type TokenDenylist struct {
	client *redis.Client
	now    func() time.Time
}

func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client, now: time.Now}
}

// Revoke stores tokenID with a TTL running to expiresAt. Tokens that have
// already expired are not stored.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("token denylist check: %w", err)
	}
	return n > 0, nil
}

func key(tokenID string) string {
	return "revoked_token:" + tokenID
}
