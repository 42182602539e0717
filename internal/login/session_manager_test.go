package login

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionManager_Acquire(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(Limits{Capacity: 2, MaxPerAddress: 1})

	assert.Equal(t, ResponseSuccess, sm.Acquire("Alice", "10.0.0.1"))
	assert.Equal(t, ResponseConflictingSession, sm.Acquire("alice", "10.0.0.2"), "names compare normalized")
	assert.Equal(t, ResponseTooManyConnections, sm.Acquire("bob", "10.0.0.1"))
	assert.Equal(t, ResponseSuccess, sm.Acquire("bob", "10.0.0.2"))
	assert.Equal(t, ResponseWorldFull, sm.Acquire("carol", "10.0.0.3"))
	assert.Equal(t, 2, sm.Count())

	sm.Release("ALICE")
	assert.False(t, sm.IsOnline("alice"))
	assert.Equal(t, ResponseSuccess, sm.Acquire("carol", "10.0.0.1"), "releasing frees the address slot")
}

func TestSessionManager_ReleaseUnknownIsNoop(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(Limits{})
	sm.Release("ghost")
	assert.Equal(t, 0, sm.Count())
}

func TestSessionManager_Throttle(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	sm := NewSessionManager(Limits{MaxAttempts: 3, BlockDuration: time.Minute})
	sm.now = func() time.Time { return now }

	for range 2 {
		sm.Fail("10.0.0.1")
	}
	assert.False(t, sm.Blocked("10.0.0.1"))

	sm.Fail("10.0.0.1")
	assert.True(t, sm.Blocked("10.0.0.1"))
	assert.False(t, sm.Blocked("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.False(t, sm.Blocked("10.0.0.1"), "block expires")

	sm.Fail("10.0.0.1")
	assert.False(t, sm.Blocked("10.0.0.1"), "count restarts after expiry")
}

func TestSessionManager_SuccessClearsFailures(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(Limits{MaxAttempts: 2, BlockDuration: time.Minute})
	sm.Fail("10.0.0.1")
	assert.Equal(t, ResponseSuccess, sm.Acquire("alice", "10.0.0.1"))

	sm.Fail("10.0.0.1")
	assert.False(t, sm.Blocked("10.0.0.1"))
}

func TestSessionManager_ThrottleDisabled(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(Limits{})
	for range 100 {
		sm.Fail("10.0.0.1")
	}
	assert.False(t, sm.Blocked("10.0.0.1"))
}

func TestSessionManager_ConcurrentAcquire(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(Limits{Capacity: 10})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for range 50 {
		wg.Go(func() {
			if sm.Acquire("same", "10.0.0.1") == ResponseSuccess {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 1, granted)
}
