// Package store holds the engine-pushed earning snapshot and notifies
// subscribers when it is replaced.
package store

import (
	"errors"
	"sync"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

// ErrNoSnapshot indicates that no snapshot has been published yet.
var ErrNoSnapshot = errors.New("no snapshot published")

// MemoryStore keeps the latest snapshot in memory. Published snapshots are
// treated as immutable: readers share them and nobody writes into them.
type MemoryStore struct {
	mu          sync.RWMutex
	snap        *domain.Snapshot
	version     uint64
	subscribers map[uint64]chan struct{}
	nextID      uint64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subscribers: make(map[uint64]chan struct{})}
}

// Current returns the latest snapshot.
func (s *MemoryStore) Current() (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return domain.Snapshot{}, ErrNoSnapshot
	}
	return *s.snap, nil
}

// Version returns how many snapshots have been published.
func (s *MemoryStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Publish replaces the snapshot and notifies every subscriber.
// Notifications coalesce: a slow subscriber sees one pending signal, not one per publish.
func (s *MemoryStore) Publish(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = &snap
	s.version++
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel signalled after every Publish and a function
// that cancels the subscription and closes the channel.
func (s *MemoryStore) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}
