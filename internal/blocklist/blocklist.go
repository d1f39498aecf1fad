package blocklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jomacs/bookly/internal/logging"
)

const (
	revokedMarker  = "revoked"
	DefaultTimeout = 3 * time.Second
)

// Store records revoked token ids in redis. Entries carry a TTL equal to the
// remaining validity of the token they revoke, so the set never grows past
// the outstanding-token horizon.
type Store struct {
	Client  *redis.Client
	Timeout time.Duration
}

func New(client *redis.Client) *Store {
	return &Store{Client: client, Timeout: DefaultTimeout}
}

func (s *Store) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

// Revoke marks jti revoked for ttl. A store failure is returned to the
// caller: a logout that cannot write the blocklist must not report success.
func (s *Store) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl < time.Second {
		// Near-expired tokens still get an entry so logout succeeds.
		ttl = time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err := s.Client.Set(ctx, key(jti), revokedMarker, ttl).Err(); err != nil {
		return fmt.Errorf("blocklist: revoke %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked. When the store is
// unreachable it returns false: a transient redis outage must not lock out
// every authenticated user. The failure is logged so the fallback stays
// observable.
func (s *Store) IsRevoked(ctx context.Context, jti string) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	err := s.Client.Get(callCtx, key(jti)).Err()
	if err == nil {
		return true
	}
	if !errors.Is(err, redis.Nil) {
		logging.FromContext(ctx).Warn("blocklist_read_failed", "jti", jti, "error", err)
	}
	return false
}

func key(jti string) string {
	return "blocklist:" + jti
}
