// Package session implements the create/edit form session and the delete
// confirmation flow. Both own a Token that allows at most one remote call in
// flight and lets the owning view discard late results after teardown.
package session

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrInFlight is returned when a remote call is already outstanding for
	// the session or flow.
	ErrInFlight = errors.New("session: remote call already in flight")

	// ErrCancelled is returned when the owning view has been torn down. A
	// result that arrives after cancellation is discarded, not applied.
	ErrCancelled = errors.New("session: cancelled")
)

// Token is shared by every value of one session. It is safe for concurrent
// use.
type Token struct {
	id        uuid.UUID
	cancelled atomic.Bool
	inFlight  atomic.Bool
}

// NewToken returns a fresh token with a random ID.
func NewToken() *Token {
	return &Token{id: uuid.New()}
}

// ID identifies the session in logs.
func (t *Token) ID() string { return t.id.String() }

// Cancel marks the owning view as gone. It cannot abort a call already
// issued; the call's result will be dropped.
func (t *Token) Cancel() { t.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool { return t.cancelled.Load() }

// InFlight reports whether a remote call is outstanding.
func (t *Token) InFlight() bool { return t.inFlight.Load() }

func (t *Token) acquire() bool { return t.inFlight.CompareAndSwap(false, true) }

func (t *Token) release() { t.inFlight.Store(false) }
