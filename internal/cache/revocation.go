package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records revoked token ids until their natural expiry.
// A nil client turns every operation into a no-op.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList returns a RevocationList backed by c, which may be nil.
func NewRevocationList(c *redis.Client) *RevocationList {
	return &RevocationList{client: c}
}

// Revoke marks jti as revoked for ttl. Non-positive ttls are ignored since
// the token has already expired.
func (r *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r == nil || r.client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti has been revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r == nil || r.client == nil || jti == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
