package login

import (
	"sync"
	"time"

	"github.com/udisondev/rs2go/internal/model"
)

// Limits configures SessionManager.
type Limits struct {
	// Capacity is the number of sessions that may be online at once.
	Capacity int
	// MaxAttempts failed logins from one address block it for BlockDuration.
	// Zero disables throttling.
	MaxAttempts   int
	BlockDuration time.Duration
	// MaxPerAddress caps concurrent sessions per address. Zero disables the cap.
	MaxPerAddress int
}

// SessionManager tracks online usernames and per-address login activity.
// Thread-safe.
type SessionManager struct {
	limits Limits
	now    func() time.Time

	mu       sync.Mutex
	online   map[string]string // normalized username -> address
	perAddr  map[string]int
	failures map[string]*attempts
}

type attempts struct {
	count        int
	blockedUntil time.Time
}

// NewSessionManager создаёт новый SessionManager.
func NewSessionManager(limits Limits) *SessionManager {
	return &SessionManager{
		limits:   limits,
		now:      time.Now,
		online:   make(map[string]string),
		perAddr:  make(map[string]int),
		failures: make(map[string]*attempts),
	}
}

// Blocked reports whether addr is throttled after too many failed logins.
func (sm *SessionManager) Blocked(addr string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	a, ok := sm.failures[addr]
	if !ok || a.blockedUntil.IsZero() {
		return false
	}
	if sm.now().Before(a.blockedUntil) {
		return true
	}
	delete(sm.failures, addr)
	return false
}

// Fail records a failed login from addr.
func (sm *SessionManager) Fail(addr string) {
	if sm.limits.MaxAttempts <= 0 {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	a, ok := sm.failures[addr]
	if !ok {
		a = &attempts{}
		sm.failures[addr] = a
	}
	a.count++
	if a.count >= sm.limits.MaxAttempts {
		a.blockedUntil = sm.now().Add(sm.limits.BlockDuration)
	}
}

// Acquire marks username online from addr. It returns ResponseSuccess or the
// code explaining why the session cannot start.
func (sm *SessionManager) Acquire(username, addr string) ResponseCode {
	key := model.NormalizeName(username)

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.online[key]; ok {
		return ResponseConflictingSession
	}
	if sm.limits.MaxPerAddress > 0 && sm.perAddr[addr] >= sm.limits.MaxPerAddress {
		return ResponseTooManyConnections
	}
	if sm.limits.Capacity > 0 && len(sm.online) >= sm.limits.Capacity {
		return ResponseWorldFull
	}

	sm.online[key] = addr
	sm.perAddr[addr]++
	delete(sm.failures, addr)
	return ResponseSuccess
}

// Release marks username offline. Unknown names are ignored.
func (sm *SessionManager) Release(username string) {
	key := model.NormalizeName(username)

	sm.mu.Lock()
	defer sm.mu.Unlock()

	addr, ok := sm.online[key]
	if !ok {
		return
	}
	delete(sm.online, key)
	if sm.perAddr[addr] <= 1 {
		delete(sm.perAddr, addr)
	} else {
		sm.perAddr[addr]--
	}
}

// IsOnline reports whether username holds a session.
func (sm *SessionManager) IsOnline(username string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.online[model.NormalizeName(username)]
	return ok
}

// Count возвращает количество активных сессий.
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.online)
}
