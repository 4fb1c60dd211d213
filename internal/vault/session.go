// Package vault owns the master-key lifecycle: the in-memory session that
// holds the key while unlocked, and the password operations (setup, unlock,
// lock, change) that open and close it.
package vault

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/common"
)

// State is the lock state of a Session.
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// Session holds the master key between unlock and lock. It is safe for
// concurrent use; the auto-lock watcher calls Lock from its own goroutine.
type Session struct {
	mu           sync.RWMutex
	key          []byte
	lastActivity time.Time
	now          func() time.Time
}

// NewSession returns a locked session.
func NewSession() *Session {
	return NewSessionWithClock(time.Now)
}

// NewSessionWithClock returns a locked session that measures idle time
// with now.
func NewSessionWithClock(now func() time.Time) *Session {
	return &Session{now: now}
}

// Open stores a copy of key and marks the session unlocked.
func (s *Session) Open(key []byte) {
	k := make([]byte, len(key))
	copy(k, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = k
	s.lastActivity = s.now()
}

// Key returns a copy of the master key, or common.ErrVaultLocked.
//
// Callers own the returned slice, so wiping the session on Lock never races
// with a decrypt already running on a previously returned key.
func (s *Session) Key() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil, common.ErrVaultLocked
	}
	k := make([]byte, len(s.key))
	copy(k, s.key)
	return k, nil
}

// Lock wipes the key. It is safe to call at any time, repeatedly.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return Locked
	}
	return Unlocked
}

// Touch records user activity for the idle timer.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = s.now()
	s.mu.Unlock()
}

// IdleFor returns how long the session has gone without activity.
func (s *Session) IdleFor() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().Sub(s.lastActivity)
}

// LockIfIdle locks an unlocked session that has been idle for at least
// timeout and reports whether it did. A zero timeout never locks.
func (s *Session) LockIfIdle(timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil || s.now().Sub(s.lastActivity) < timeout {
		return false
	}
	common.WipeByteArray(s.key)
	s.key = nil
	return true
}
