package store

import (
	"strings"
	"sync"
)

// SessionStore holds session-scoped markers in memory. Markers live for the
// process lifetime only - the Go analogue of browser session storage, which
// is cleared when the session ends.
//
// Thread-safety: all methods are safe for concurrent use.
type SessionStore struct {
	mu      sync.RWMutex
	markers map[string]bool
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{markers: make(map[string]bool)}
}

// Mark records the marker key as set.
func (s *SessionStore) Mark(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[key] = true
}

// Seen reports whether the marker key has been set this session.
func (s *SessionStore) Seen(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markers[key]
}

// DeleteByPrefix removes every marker whose key starts with one of the
// given prefixes.
func (s *SessionStore) DeleteByPrefix(prefixes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.markers {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(s.markers, key)
				break
			}
		}
	}
}

// Len returns the number of markers currently set.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}
