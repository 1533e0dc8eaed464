// Package remotetest provides an in-memory fake of the remote user API for
// tests. It serves the same REST resource shape as the real API and can be
// told to fail upcoming calls.
package remotetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/dusk-indust/userdesk/internal/user"
)

// Call records one request the fake received.
type Call struct {
	Method string
	Path   string
	Body   json.RawMessage
}

// Server is an httptest server backed by an insertion-ordered user store.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[int]user.User
	orderIDs []int // insertion-order user IDs
	nextID   int
	faults   map[string][]int // method -> queued status codes
	calls    []Call
}

// NewServer starts a fake seeded with users and closes it when t finishes.
// Seeded users without an ID are assigned one.
func NewServer(t testing.TB, seed ...user.User) *Server {
	t.Helper()

	s := &Server{
		users:  make(map[int]user.User),
		nextID: 1,
		faults: make(map[string][]int),
	}
	for _, u := range seed {
		s.insert(u)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", s.handleList)
	mux.HandleFunc("POST /users", s.handleCreate)
	mux.HandleFunc("GET /users/{id}", s.handleGet)
	mux.HandleFunc("PUT /users/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /users/{id}", s.handleDelete)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// FailNext makes the next request with the given method answer with status
// and an error body instead of being served. Calls queue in order.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method] = append(s.faults[method], status)
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests used the given method.
func (s *Server) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Users returns the stored users in insertion order.
func (s *Server) Users() []user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]user.User, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		out = append(out, s.users[id])
	}
	return out
}

// insert stores u, assigning an ID when it has none. Callers hold mu or
// have exclusive access.
func (s *Server) insert(u user.User) user.User {
	if u.ID == 0 {
		u.ID = s.nextID
	}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	if u.Username == "" {
		u.Username = "user" + strconv.Itoa(u.ID)
	}
	if _, exists := s.users[u.ID]; !exists {
		s.orderIDs = append(s.orderIDs, u.ID)
	}
	s.users[u.ID] = u
	return u
}

// record logs the call and serves any queued fault before the real handler.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body json.RawMessage
		if len(bytes.TrimSpace(raw)) > 0 {
			body = raw
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		var status int
		if q := s.faults[r.Method]; len(q) > 0 {
			status, s.faults[r.Method] = q[0], q[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(raw))
		next.ServeHTTP(w, r)
	})
}
