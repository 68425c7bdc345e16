package session

import (
	"sync"
	"time"

	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/layout"
)

// Session is a compiler instance holding the current tree for one client.
// It is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	rec  Record
	tree *expr.Tree
}

// New returns an empty session with the given ID that expires after ttl.
// A ttl of zero never expires.
func New(id string, ttl time.Duration) *Session {
	now := time.Now()
	rec := Record{ID: id, CreatedAt: now, UpdatedAt: now}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl)
	}
	return &Session{rec: rec}
}

// Restore rebuilds a session from its record by recompiling the expression.
func Restore(rec Record) (*Session, error) {
	s := &Session{rec: rec}
	if rec.Expression == "" {
		return s, nil
	}
	t, err := compile(rec.Expression, rec.Strict)
	if err != nil {
		return nil, err
	}
	s.tree = t
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.ID
}

// Compile replaces the current tree with the tree of expression. On failure
// the previous tree is kept and the error is returned.
func (s *Session) Compile(expression string, strict bool) (*expr.Tree, error) {
	t, err := compile(expression, strict)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = t
	s.rec.Expression = expression
	s.rec.Strict = strict
	s.rec.UpdatedAt = time.Now()
	return t, nil
}

// Tree returns the current tree, or nil before the first successful
// compile. The tree is immutable and may be used after later compiles
// replace it.
func (s *Session) Tree() *expr.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Layout places the current tree in a width × height frame.
func (s *Session) Layout(width, height int) (layout.Layout, error) {
	t := s.Tree()
	if t == nil {
		return layout.Layout{}, ErrNoTree
	}
	return layout.Compute(t, width, height), nil
}

// Edges returns the parent→child edges of the current tree.
func (s *Session) Edges() ([]layout.Edge, error) {
	t := s.Tree()
	if t == nil {
		return nil, ErrNoTree
	}
	return layout.Edges(t), nil
}

// Record returns a copy of the session's persistable state.
func (s *Session) Record() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec
}

// Touch extends the expiry to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.ExpiresAt = time.Now().Add(ttl)
}

func compile(expression string, strict bool) (*expr.Tree, error) {
	var opts []expr.Option
	if strict {
		opts = append(opts, expr.Strict())
	}
	return expr.Compile(expression, opts...)
}
