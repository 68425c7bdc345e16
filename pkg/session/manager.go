package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager creates, restores, and persists sessions. Live sessions are kept
// in memory; records go to the store so that other processes sharing the
// store can restore them.
type Manager struct {
	store Store
	ttl   time.Duration

	mu   sync.Mutex
	live map[string]*Session
}

// NewManager returns a manager persisting to store. Sessions expire after
// ttl of inactivity; zero means never.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, live: make(map[string]*Session)}
}

// Create compiles expression in a new session and persists it. Nothing is
// stored if compilation fails.
func (m *Manager) Create(ctx context.Context, expression string, strict bool) (*Session, error) {
	s := New(GenerateID(), m.ttl)
	if _, err := s.Compile(expression, strict); err != nil {
		return nil, err
	}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the session with the given ID, restoring it from the store if
// this process has not seen it. It returns ErrNotFound for unknown and
// expired sessions.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.live[id]
	m.mu.Unlock()

	if ok {
		rec := s.Record()
		if !rec.IsExpired() {
			return s, nil
		}
		m.forget(id)
		return nil, ErrNotFound
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if rec == nil || rec.IsExpired() {
		return nil, ErrNotFound
	}
	s, err = Restore(*rec)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.live[id]; ok {
		return existing, nil
	}
	m.live[id] = s
	return s, nil
}

// Update recompiles the session's expression and persists the new record.
// On a compile error the session keeps its previous tree.
func (m *Manager) Update(ctx context.Context, id, expression string, strict bool) (*Session, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Compile(expression, strict); err != nil {
		return nil, err
	}
	s.Touch(m.ttl)
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a session from memory and from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	m.forget(id)
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup drops expired sessions from memory and asks the store to do the
// same.
func (m *Manager) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	for id, s := range m.live {
		rec := s.Record()
		if rec.IsExpired() {
			delete(m.live, id)
		}
	}
	m.mu.Unlock()
	return m.store.Cleanup(ctx)
}

// Len returns the number of live sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Close closes the underlying store.
func (m *Manager) Close() error { return m.store.Close() }

func (m *Manager) save(ctx context.Context, s *Session) error {
	rec := s.Record()
	if err := m.store.Set(ctx, &rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[rec.ID] = s
	return nil
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, id)
}
