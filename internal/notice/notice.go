// Package notice carries user-visible outcomes of remote operations to
// whichever presentation layer is listening.
package notice

import "fmt"

// Level classifies a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelFailure Level = "failure"
)

// Notice is one outcome to show the user.
type Notice struct {
	Op      string // load, detail, create, update, delete
	UserID  int    // zero when not tied to a single user
	Level   Level
	Message string
	Err     error
}

// Reporter emits notices through a buffered channel.
type Reporter struct {
	ch chan Notice
}

// NewReporter creates a Reporter with a buffered channel of size 64.
func NewReporter() *Reporter {
	return &Reporter{
		ch: make(chan Notice, 64),
	}
}

// Emit sends a notice without blocking. If nobody drains the channel and it
// is full, the notice is dropped; the operation's returned error still
// carries the failure.
func (r *Reporter) Emit(n Notice) {
	select {
	case r.ch <- n:
	default:
	}
}

// Subscribe returns a read-only channel for consuming notices.
func (r *Reporter) Subscribe() <-chan Notice {
	return r.ch
}

// Close closes the notice channel.
func (r *Reporter) Close() {
	close(r.ch)
}

// Format renders n as a single human-readable line.
func Format(n Notice) string {
	subject := n.Op
	if n.UserID != 0 {
		subject = fmt.Sprintf("%s user %d", n.Op, n.UserID)
	}
	switch n.Level {
	case LevelSuccess:
		if n.Message != "" {
			return fmt.Sprintf("✓ %s: %s", subject, n.Message)
		}
		return fmt.Sprintf("✓ %s", subject)
	case LevelFailure:
		msg := n.Message
		if n.Err != nil {
			msg = n.Err.Error()
		}
		return fmt.Sprintf("✗ %s failed: %s", subject, msg)
	default:
		return fmt.Sprintf("? %s", subject)
	}
}
