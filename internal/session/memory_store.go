package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory, encoded so callers never
// share row maps with the store. Expired sessions are dropped lazily on
// access and by Sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	expiry   map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
		expiry:   make(map[string]time.Time),
	}
}

func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	return m.put(s, false)
}

func (m *MemoryStore) Update(ctx context.Context, s *Session) error {
	return m.put(s, true)
}

func (m *MemoryStore) put(s *Session, mustExist bool) error {
	if s.Expired(time.Now()) {
		return ErrExpired
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if mustExist {
		if _, ok := m.sessions[s.ID]; !ok {
			return ErrNotFound
		}
	}
	m.sessions[s.ID] = data
	m.expiry[s.ID] = s.ExpiresAt
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	expires := m.expiry[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !expires.IsZero() && time.Now().After(expires) {
		m.Delete(ctx, id)
		return nil, ErrExpired
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	delete(m.expiry, id)
	m.mu.Unlock()
	return nil
}

// Sweep removes every expired session and returns how many were dropped.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, exp := range m.expiry {
		if !exp.IsZero() && now.After(exp) {
			delete(m.sessions, id)
			delete(m.expiry, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
