package services

import (
	"sync"

	"github.com/google/uuid"
)

// userLocker hands out one mutex per user. Entries are reference counted and removed
// once nobody holds or waits on them.
type userLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu      sync.Mutex
	holders int
}

func newUserLocker() *userLocker {
	return &userLocker{locks: make(map[uuid.UUID]*userLock)}
}

// Lock blocks until the caller owns the user's lock and returns the matching unlock.
func (l *userLocker) Lock(userID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &userLock{}
		l.locks[userID] = lock
	}
	lock.holders++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.holders--
		if lock.holders == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

func (l *userLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
