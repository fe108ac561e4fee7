package session

import (
	"sync"
	"time"
)

// Store is the key/value storage a browsing session's presentation state
// lives in. Implementations hold strings only; callers own the encoding.
// The production store is in-memory and session-scoped, so nothing outlives
// the process, mirroring browser session storage.
type Store interface {
	Get(sessionID, key string) (string, bool)
	Set(sessionID, key, value string)
	Delete(sessionID, key string)
}

type sessionData struct {
	values   map[string]string
	lastSeen time.Time
}

// MemoryStore is a TTL-bound in-memory Store keyed by session ID.
// Concurrent tabs share a session and may race on acknowledge; that is an
// accepted limitation, the same one browser storage has.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionData
	ttl      time.Duration
}

// NewMemoryStore creates a MemoryStore whose sessions expire after ttl of
// inactivity
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionData),
		ttl:      ttl,
	}
}

// Get returns the value stored under key for the given session
func (m *MemoryStore) Get(sessionID, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key for the given session, creating the session if
// it does not exist yet
func (m *MemoryStore) Set(sessionID, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		s = &sessionData{values: make(map[string]string)}
		m.sessions[sessionID] = s
	}
	s.values[key] = value
	s.lastSeen = time.Now()
}

// Delete removes key from the given session
func (m *MemoryStore) Delete(sessionID, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		delete(s.values, key)
		s.lastSeen = time.Now()
	}
}

// Prune drops sessions idle for longer than the store TTL and returns how
// many were removed. The scheduler calls this periodically.
func (m *MemoryStore) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
