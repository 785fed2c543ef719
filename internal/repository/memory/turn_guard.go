package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TurnGuard tracks which sessions have a turn in flight so concurrent turns
// on the same session are rejected instead of interleaving their messages.
// Entries expire on their own as a safety net if a pipeline crashes without
// releasing.
type TurnGuard struct {
	cache *cache.Cache
}

func NewTurnGuard() *TurnGuard {
	// A turn should never take longer than the sum of the stage timeouts,
	// so a 2 minute expiry only matters after a crash.
	c := cache.New(2*time.Minute, 1*time.Minute)
	return &TurnGuard{
		cache: c,
	}
}

// Acquire returns false when the session already has a turn in flight.
func (g *TurnGuard) Acquire(sessionId string) bool {
	err := g.cache.Add(sessionId, struct{}{}, cache.DefaultExpiration)
	return err == nil
}

func (g *TurnGuard) Release(sessionId string) {
	g.cache.Delete(sessionId)
}
