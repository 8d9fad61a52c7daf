package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker keeps a denylist of logged-out token IDs until their natural
// expiry. With no redis configured every check passes, matching
// deployments that rely on token expiry alone.
type Revoker struct {
	client *redis.Client
}

func NewRevoker(addr string) *Revoker {
	if addr == "" {
		return &Revoker{}
	}
	return &Revoker{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Revoker) Enabled() bool {
	return r.client != nil
}

// Revoke denylists a token ID until expiresAt.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, "revoked:"+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token ID has been denylisted. Redis errors
// fail open; an unreachable denylist must not lock every user out.
func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) bool {
	if r.client == nil || tokenID == "" {
		return false
	}
	n, err := r.client.Exists(ctx, "revoked:"+tokenID).Result()
	if err != nil {
		return false
	}
	return n > 0
}
