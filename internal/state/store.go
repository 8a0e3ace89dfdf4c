// Package state holds the hub's canonical application snapshot.
package state

import (
	"sync"

	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/pkg/metrics"
)

// Updater computes the next snapshot from the previous one. The previous
// snapshot is the state current at commit time, not whatever a handler read
// before awaiting a remote call.
type Updater func(prev model.Snapshot) model.Snapshot

// Subscriber receives a copy of each committed snapshot.
type Subscriber func(model.Snapshot)

type subscription struct {
	id int
	fn Subscriber
}

// Store coordinates concurrent updates to the canonical snapshot. It is the
// single writer; everything else holds read-only copies obtained through
// Snapshot or subscriber notifications.
type Store struct {
	// commitMu serializes each commit together with its subscriber
	// notifications, so subscribers observe snapshots in commit order.
	// snapshot writes only ever happen under commitMu.
	commitMu sync.Mutex

	mu       sync.RWMutex
	snapshot model.Snapshot

	subMu     sync.Mutex
	subs      []subscription
	nextSubID int
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Snapshot returns a deep copy of the current snapshot.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Apply commits fn against the current snapshot and notifies subscribers
// synchronously, in registration order, with a copy of the committed state.
// Commits are serialized with their notifications: a subscriber is never
// handed snapshot N after snapshot N+1. fn receives a clone, so it may
// mutate its argument freely but must return the full next snapshot.
func (s *Store) Apply(fn Updater) model.Snapshot {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	prev := s.snapshot.Clone()
	s.mu.RUnlock()

	next := fn(prev)

	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()

	metrics.StoreCommitsTotal.Inc()

	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	committed := next.Clone()
	for _, sub := range subs {
		sub.fn(committed.Clone())
	}
	return committed
}

// Replace commits a full snapshot, discarding the previous one.
func (s *Store) Replace(next model.Snapshot) model.Snapshot {
	return s.Apply(func(model.Snapshot) model.Snapshot { return next })
}

// Subscribe registers fn for every future commit and returns an idempotent
// unsubscribe function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
