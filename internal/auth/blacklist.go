package auth

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// TokenBlacklist tracks revoked tokens until their natural expiry. There is
// no background sweep: stale entries are evicted lazily when looked up, so
// growth is bounded by revocations that are never checked again before
// expiring.
type TokenBlacklist struct {
	entries *xsync.MapOf[string, int64]
}

// NewTokenBlacklist creates an empty blacklist.
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{entries: xsync.NewMapOf[string, int64]()}
}

// Revoke records the token as revoked until expiresAt (epoch millis).
// A second revoke for the same token overwrites the stored expiry.
func (b *TokenBlacklist) Revoke(token string, expiresAt int64) {
	if token == "" {
		return
	}
	b.entries.Store(token, expiresAt)
}

// IsRevoked reports whether the token is currently revoked. An entry whose
// expiry has passed is removed and treated as absent.
func (b *TokenBlacklist) IsRevoked(token string) bool {
	if token == "" {
		return false
	}
	expiresAt, ok := b.entries.Load(token)
	if !ok {
		return false
	}
	if time.Now().UnixMilli() >= expiresAt {
		b.entries.Delete(token)
		return false
	}
	return true
}

// Size returns the number of stored entries, including not-yet-evicted
// stale ones.
func (b *TokenBlacklist) Size() int {
	return b.entries.Size()
}
