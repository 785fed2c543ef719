package authverify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedVerifier memoizes successful verifications in Redis so repeated
// requests with the same token skip signature checks or provider round-trips.
// Only the token hash is stored as the key, never the token itself.
type CachedVerifier struct {
	inner Verifier
	rdb   *redis.Client
	ttl   time.Duration
}

var _ Verifier = &CachedVerifier{}

func NewCachedVerifier(inner Verifier, rdb *redis.Client, ttl time.Duration) *CachedVerifier {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedVerifier{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "authverify:" + hex.EncodeToString(sum[:])
}

func (v *CachedVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	key := cacheKey(token)

	if raw, err := v.rdb.Get(ctx, key).Bytes(); err == nil {
		var identity Identity
		if err := json.Unmarshal(raw, &identity); err == nil {
			return &identity, nil
		}
	}

	identity, err := v.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(identity); err == nil {
		// Cache write failures are non-fatal, next request just re-verifies.
		v.rdb.Set(ctx, key, raw, v.ttl)
	}

	return identity, nil
}
