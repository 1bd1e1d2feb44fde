package memory

import (
	"sync"

	"github.com/phrazzld/workforce-api/internal/domain"
)

type referenceKey struct {
	id      int64
	refType domain.ReferenceType
}

// keyedMutex hands out one mutex per reference. Entries are dropped once
// no goroutine holds or waits for them, so the map only grows with the
// number of references being worked on concurrently.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[referenceKey]*refLock
}

type refLock struct {
	mu      sync.Mutex
	waiters int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[referenceKey]*refLock)}
}

func (k *keyedMutex) Lock(key referenceKey) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.waiters++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *keyedMutex) Unlock(key referenceKey) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		// ALLOW-PANIC: unlocking a key that was never locked is a programming error
		panic("memory: unlock of unlocked reference")
	}
	l.waiters--
	if l.waiters == 0 {
		delete(k.locks, key)
	}
	l.mu.Unlock()
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
