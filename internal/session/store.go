// Package session keeps the reference snapshot of each client. The snapshot
// lifecycle belongs to the client: absent until set, replaced wholesale by
// the next set, dropped on clear.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Oktaederim/RLT-Berechnung/internal/types"
	"github.com/google/uuid"
)

// ErrUnknownSession is returned for IDs that were never created or have expired
var ErrUnknownSession = errors.New("unknown session")

type entry struct {
	// reference is never modified after being stored; SetReference swaps the pointer
	reference *types.ReferenceSnapshot
	touched   time.Time
}

// Store holds reference snapshots keyed by session ID. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		now:      time.Now,
	}
}

// Create registers a new session without a reference
func (s *Store) Create() uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	s.sessions[id] = &entry{touched: s.now()}
	s.mu.Unlock()

	return id
}

// Reference returns a copy of the session's snapshot, or nil when none is set
func (s *Store) Reference(id uuid.UUID) (*types.ReferenceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	e.touched = s.now()

	if e.reference == nil {
		return nil, nil
	}
	snap := *e.reference
	return &snap, nil
}

// SetReference replaces the session's snapshot
func (s *Store) SetReference(id uuid.UUID, snap types.ReferenceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrUnknownSession
	}
	e.reference = &snap
	e.touched = s.now()
	return nil
}

// ClearReference removes the session's snapshot but keeps the session
func (s *Store) ClearReference(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return ErrUnknownSession
	}
	e.reference = nil
	e.touched = s.now()
	return nil
}

// Delete removes the session entirely
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrUnknownSession
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops sessions idle for longer than ttl and returns how many were removed
func (s *Store) Prune(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor prunes idle sessions every interval until ctx is cancelled.
// onPrune, if not nil, is called with the number of sessions removed.
func (s *Store) RunJanitor(ctx context.Context, wg *sync.WaitGroup, ttl, interval time.Duration, onPrune func(int)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Prune(ttl); n > 0 && onPrune != nil {
					onPrune(n)
				}
			}
		}
	}()
}
