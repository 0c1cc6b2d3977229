// Package session maps caller-supplied session identifiers to remote
// conversation thread identifiers for the lifetime of the process.
package session

import (
	"context"
	"fmt"
	"sync"
)

// CreateThreadFunc creates a remote thread and returns its identifier.
type CreateThreadFunc func(ctx context.Context) (string, error)

// Store holds the session-to-thread mapping. State is deliberately
// ephemeral: a restart loses every mapping and the next message for a
// session starts a fresh thread.
type Store struct {
	create CreateThreadFunc

	mu      sync.RWMutex
	threads map[string]string
	keys    map[string]*sync.Mutex
}

// NewStore creates an empty store that uses create for lazy thread creation.
func NewStore(create CreateThreadFunc) *Store {
	return &Store{
		create:  create,
		threads: make(map[string]string),
		keys:    make(map[string]*sync.Mutex),
	}
}

// Resolve returns the thread id mapped to sessionID, creating the remote
// thread on first use. Creation is serialized per session key, so two
// concurrent first calls for the same session cannot race to create two
// divergent threads. The second return value reports whether the thread
// was created by this call.
func (s *Store) Resolve(ctx context.Context, sessionID string) (string, bool, error) {
	key := s.keyLock(sessionID)
	key.Lock()
	defer key.Unlock()

	s.mu.RLock()
	threadID, ok := s.threads[sessionID]
	s.mu.RUnlock()
	if ok {
		return threadID, false, nil
	}

	threadID, err := s.create(ctx)
	if err != nil {
		return "", false, fmt.Errorf("create thread for session %s: %w", sessionID, err)
	}

	s.mu.Lock()
	s.threads[sessionID] = threadID
	s.mu.Unlock()
	return threadID, true, nil
}

// Put associates sessionID with threadID, replacing any prior mapping.
// Used by the explicit new-thread operation.
func (s *Store) Put(sessionID, threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[sessionID] = threadID
}

// Clear removes the mapping for sessionID, reporting whether one existed.
// Clearing an unknown session has no effect.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.threads[sessionID]
	delete(s.threads, sessionID)
	return ok
}

// Count returns the number of live mappings.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}

// keyLock returns the per-session creation mutex, allocating it on demand.
// Key mutexes are never released; session cardinality is bounded by the
// callers a single process serves.
func (s *Store) keyLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.keys[sessionID]; ok {
		return m
	}
	m := &sync.Mutex{}
	s.keys[sessionID] = m
	return m
}
