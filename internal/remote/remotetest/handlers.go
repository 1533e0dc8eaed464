package remotetest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dusk-indust/userdesk/internal/user"
)

func decodeBody(r *http.Request, u *user.User) bool {
	return json.NewDecoder(r.Body).Decode(u) == nil
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Users())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	u, found := s.users[id]
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var u user.User
	if !decodeBody(r, &u) {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	u.ID = 0

	s.mu.Lock()
	created := s.insert(u)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var u user.User
	if !decodeBody(r, &u) {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, found := s.users[id]
	if !found {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	u.ID = id
	// The store owns usernames; an update cannot change one.
	u.Username = prev.Username
	s.users[id] = u

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.users[id]; found {
		delete(s.users, id)
		for i, oid := range s.orderIDs {
			if oid == id {
				s.orderIDs = append(s.orderIDs[:i], s.orderIDs[i+1:]...)
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
