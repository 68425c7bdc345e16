// Package session holds compiled expressions on behalf of clients.
//
// # Overview
//
// A [Session] is one compiler instance: it owns the current compiled tree
// and replaces it wholesale on every successful compile. Readers never see a
// partially built tree because the new tree is fully compiled before it is
// swapped in.
//
// Trees are never persisted. What a [Store] keeps is a [Record], the
// expression text and options needed to rebuild the tree, so any API
// instance can restore a session another instance created. Backends:
//
//   - [MemoryStore]: a map, for tests and single-process servers
//   - [FileStore]: one JSON file per session, for the CLI
//   - [RedisStore]: shared Redis with native key expiry
//   - [MongoStore]: a MongoDB collection with a TTL index
//
// [Open] picks a backend from configuration. A [Manager] combines a store
// with an in-process table of live sessions.
//
// # Usage
//
//	store, err := session.Open(ctx, cfg.Session)
//	m := session.NewManager(store, session.DefaultTTL)
//
//	sess, err := m.Create(ctx, "2+3*4", false)
//	fmt.Println(sess.Tree().ResultString()) // 14
//
//	l, err := sess.Layout(800, 600)
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")

	// ErrNoTree is returned when a session has not compiled anything yet.
	ErrNoTree = errors.New("session has no compiled expression")
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 24 * time.Hour

// Record is the persisted form of a session: enough to recompile its tree.
type Record struct {
	ID         string    `json:"id" bson:"_id"`
	Expression string    `json:"expression" bson:"expression"`
	Strict     bool      `json:"strict" bson:"strict"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
	ExpiresAt  time.Time `json:"expires_at" bson:"expires_at,omitempty"`
}

// IsExpired returns true if the record has expired. A zero ExpiresAt never
// expires.
func (r *Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// TTL returns the time left before expiry, or zero for records that never
// expire.
func (r *Record) TTL() time.Duration {
	if r.ExpiresAt.IsZero() {
		return 0
	}
	return max(time.Until(r.ExpiresAt), time.Millisecond)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns nil, nil if the record doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Record, error)

	// Set stores a record, replacing any previous one with the same ID.
	Set(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}
