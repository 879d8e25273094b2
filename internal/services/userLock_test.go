package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserLocker_SerializesPerUser(t *testing.T) {
	locker := newUserLocker()
	userID := uuid.New()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)

	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(userID)
			defer unlock()

			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locker.size())
}

func TestUserLocker_IndependentUsers(t *testing.T) {
	locker := newUserLocker()

	unlockA := locker.Lock(uuid.New())
	unlockB := locker.Lock(uuid.New())
	assert.Equal(t, 2, locker.size())

	unlockA()
	unlockB()
	assert.Equal(t, 0, locker.size())
}
