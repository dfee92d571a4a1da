// Package session persists per-client explorer view state.
//
// The HTTP adapter gives every browser tab its own session so that several
// clients can explore the same graph independently. A session carries the
// dataset it was opened against and a selection.Snapshot of the view; the
// controller for a request is rebuilt from that snapshot.
//
// Backends:
//   - memory: in-process map, the default for a single server
//   - file: one JSON file per session, survives restarts
//   - redis: shared by several server instances
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(datasetURI, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kgview/pkg/selection"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the default session lifetime. Every Set extends it.
const DefaultTTL = 12 * time.Hour

// Session stores one client's view state.
type Session struct {
	ID        string             `json:"id"`
	Dataset   string             `json:"dataset"`
	View      selection.Snapshot `json:"view"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// New returns an idle session with a fresh random id.
func New(dataset string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		View:      selection.Snapshot{Kind: selection.KindNone.String()},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Require is like Store.Get but reports a missing or expired session as
// ErrNotFound.
func Require(ctx context.Context, store Store, id string) (*Session, error) {
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}
