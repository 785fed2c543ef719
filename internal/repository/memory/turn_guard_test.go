package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnGuardAcquireRelease(t *testing.T) {
	guard := NewTurnGuard()

	assert.True(t, guard.Acquire("session-1"))
	assert.False(t, guard.Acquire("session-1"))

	// Other sessions are unaffected.
	assert.True(t, guard.Acquire("session-2"))

	guard.Release("session-1")
	assert.True(t, guard.Acquire("session-1"))
}

func TestTurnGuardReleaseUnknownIsSafe(t *testing.T) {
	guard := NewTurnGuard()
	guard.Release("never-acquired")
	assert.True(t, guard.Acquire("never-acquired"))
}

func TestTurnGuardSingleWinnerUnderContention(t *testing.T) {
	guard := NewTurnGuard()

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.Acquire("hot-session") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
}
