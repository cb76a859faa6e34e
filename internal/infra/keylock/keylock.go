// Package keylock provides a mutex keyed by an arbitrary comparable value.
//
// The memory ledger backend uses it to serialize bankroll mutations per
// user: two goroutines touching the same user queue behind one mutex, while
// different users proceed in parallel.
package keylock

import "sync"

type KeyedMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*sync.Mutex
}

func New[K comparable]() *KeyedMutex[K] {
	return &KeyedMutex[K]{locks: make(map[K]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
//
// Per-key mutexes are retained for the life of the KeyedMutex. The key space
// here is user ids, which is bounded, so there is no eviction.
func (m *KeyedMutex[K]) Lock(key K) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()

	return l.Unlock
}
