package handlers

import (
	"sync"

	"github.com/google/uuid"
)

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// sessionLocks hands out one mutex per session id. An entry lives only while
// some request holds or waits on it, so ids that are never seen again
// (unknown, expired, deleted) leave nothing behind.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*sessionLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *sessionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
