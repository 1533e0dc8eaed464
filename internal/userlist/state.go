// Package userlist holds the client's in-memory mirror of the remote user
// collection. Entries only change in response to settled remote calls.
package userlist

import (
	"io"
	"iter"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"

	"github.com/dusk-indust/userdesk/internal/user"
)

// Status is the load state of the list view.
type Status int

const (
	// StatusLoading means the initial list call has not settled.
	StatusLoading Status = iota
	// StatusReady means the collection reflects a successful list call.
	StatusReady
	// StatusError means the last list call failed; see State.Status.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an insertion-ordered collection of users with unique IDs.
type State struct {
	mu      sync.RWMutex
	records []user.User
	status  Status
	loadErr error
	log     logrus.FieldLogger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger that receives desynchronization warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *State) {
		s.log = l
	}
}

// New returns an empty State in StatusLoading.
func New(opts ...Option) *State {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &State{log: discard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces the whole collection and marks the state ready. A repeated
// ID keeps its first position and the later value.
func (s *State) Seed(records []user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]user.User, 0, len(records))
	for _, u := range records {
		if i := s.indexOf(u.ID); i >= 0 {
			s.log.WithField("id", u.ID).Warn("duplicate id in seed; keeping the later record")
			s.records[i] = u
			continue
		}
		s.records = append(s.records, u)
	}
	s.status = StatusReady
	s.loadErr = nil
}

// Append adds u at the end. If an entry with the same ID already exists it
// is replaced in place instead, keeping IDs unique.
func (s *State) Append(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(u.ID); i >= 0 {
		s.log.WithField("id", u.ID).Warn("append of an id already listed; replacing in place")
		s.records[i] = u
		return
	}
	s.records = append(s.records, u)
}

// Replace swaps the entry whose ID matches u, leaving every other entry and
// the order untouched. It reports false, and changes nothing, when no entry
// matches: the list has drifted from the remote store.
func (s *State) Replace(u user.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(u.ID)
	if i < 0 {
		s.log.WithField("id", u.ID).Warn("replace of an id not in the list; list is out of sync with the remote store")
		return false
	}
	s.records[i] = u
	return true
}

// Remove deletes the entry with the given ID. It reports whether an entry was
// removed; removing an absent ID is a no-op.
func (s *State) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return true
}

// Get returns the entry with the given ID.
func (s *State) Get(id int) (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	return user.User{}, false
}

// Records returns a copy of the collection in order.
func (s *State) Records() []user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]user.User, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of entries.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// FilterByName returns the entries whose name contains term, compared with
// Unicode case folding. An empty term yields every entry. The sequence is
// lazy and restartable: each range reads the collection as it is then.
func (s *State) FilterByName(term string) iter.Seq[user.User] {
	return func(yield func(user.User) bool) {
		caser := cases.Fold()
		needle := caser.String(term)
		for _, u := range s.Records() {
			if needle != "" && !strings.Contains(caser.String(u.Name), needle) {
				continue
			}
			if !yield(u) {
				return
			}
		}
	}
}

// SetLoading marks a list call as in flight.
func (s *State) SetLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.loadErr = nil
}

// SetFailed records a failed list call. The existing entries are kept.
func (s *State) SetFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusError
	s.loadErr = err
}

// Status returns the load state and, for StatusError, the failure.
func (s *State) Status() (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.loadErr
}

// indexOf returns the position of id, or -1. Callers hold mu.
func (s *State) indexOf(id int) int {
	for i, u := range s.records {
		if u.ID == id {
			return i
		}
	}
	return -1
}
