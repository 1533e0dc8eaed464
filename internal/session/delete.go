package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotPending is returned by Confirm when no deletion awaits confirmation.
var ErrNotPending = errors.New("session: no deletion pending")

// DeletePhase is the position of a DeleteFlow.
type DeletePhase int

const (
	DeleteIdle DeletePhase = iota
	DeletePending
	DeleteConfirmed
)

func (p DeletePhase) String() string {
	switch p {
	case DeleteIdle:
		return "idle"
	case DeletePending:
		return "pending"
	case DeleteConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Deleter is the part of the remote store a DeleteFlow calls.
type Deleter interface {
	Delete(ctx context.Context, id int) error
}

// Remover drops a deleted entry from the list.
type Remover interface {
	Remove(id int) bool
}

// DeleteFlow is the two-step request/confirm gesture for deleting a user.
type DeleteFlow struct {
	mu     sync.Mutex
	phase  DeletePhase
	target int
	token  *Token
}

// NewDeleteFlow returns an idle flow.
func NewDeleteFlow() *DeleteFlow {
	return &DeleteFlow{token: NewToken()}
}

// Phase returns the current phase.
func (d *DeleteFlow) Phase() DeletePhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Target returns the ID awaiting or undergoing deletion, zero when idle.
func (d *DeleteFlow) Target() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target
}

// Token returns the flow's token.
func (d *DeleteFlow) Token() *Token { return d.token }

// Request records the intent to delete id and waits for confirmation. A
// pending request for another ID is replaced.
func (d *DeleteFlow) Request(id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.token.Cancelled() {
		return ErrCancelled
	}
	if d.phase == DeleteConfirmed {
		return ErrInFlight
	}
	d.phase = DeletePending
	d.target = id
	return nil
}

// Cancel abandons a pending request without any remote call. A confirmed
// deletion cannot be cancelled.
func (d *DeleteFlow) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.phase == DeleteConfirmed {
		return ErrInFlight
	}
	d.phase = DeleteIdle
	d.target = 0
	return nil
}

// Confirm deletes the pending target through deleter and, on success,
// removes it from list. Either way the flow returns to idle. On failure list
// is untouched and the error is returned for the caller to surface.
func (d *DeleteFlow) Confirm(ctx context.Context, deleter Deleter, list Remover) error {
	d.mu.Lock()
	if d.phase != DeletePending {
		d.mu.Unlock()
		return ErrNotPending
	}
	if d.token.Cancelled() {
		d.mu.Unlock()
		return ErrCancelled
	}
	if !d.token.acquire() {
		d.mu.Unlock()
		return ErrInFlight
	}
	d.phase = DeleteConfirmed
	id := d.target
	d.mu.Unlock()

	err := deleter.Delete(ctx, id)

	d.mu.Lock()
	d.phase = DeleteIdle
	d.target = 0
	d.token.release()
	d.mu.Unlock()

	if err != nil {
		return err
	}
	if d.token.Cancelled() {
		return ErrCancelled
	}
	list.Remove(id)
	return nil
}

// Close tears the flow down. A deletion in flight still completes remotely
// but its result is not applied to the list.
func (d *DeleteFlow) Close() {
	d.token.Cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.phase == DeletePending {
		d.phase = DeleteIdle
		d.target = 0
	}
}
