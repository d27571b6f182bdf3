package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/board"
)

const (
	sessionCookie = "board_session"
	sessionTTL    = 24 * time.Hour
	maxSessions   = 1000
)

type session struct {
	controller *board.Controller
	lastSeen   time.Time
}

// sessions maps browser sessions to their view controllers. Idle sessions
// are dropped after ttl, and the least recently seen one is evicted when
// max sessions are live.
type sessions struct {
	mu    sync.Mutex
	store board.TaskStore
	ttl   time.Duration
	max   int
	byID  map[string]*session
}

func newSessions(store board.TaskStore, ttl time.Duration, max int) *sessions {
	return &sessions{
		store: store,
		ttl:   ttl,
		max:   max,
		byID:  make(map[string]*session),
	}
}

// controller returns the caller's controller, starting a session and
// setting the cookie when the request carries none.
func (h *Handlers) controller(w http.ResponseWriter, r *http.Request) *board.Controller {
	now := h.now()

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if c, ok := h.sessions.get(cookie.Value, now); ok {
			return c
		}
	}

	id := uuid.NewString()
	c := h.sessions.create(id, now)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c
}

func (s *sessions) get(id string, now time.Time) (*board.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.byID, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess.controller, true
}

func (s *sessions) create(id string, now time.Time) *board.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, sess := range s.byID {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.byID, key)
		}
	}
	if s.max > 0 && len(s.byID) >= s.max {
		s.evictOldest()
	}

	c := board.NewController(s.store)
	s.byID[id] = &session{controller: c, lastSeen: now}
	return c
}

// evictOldest drops the least recently seen session. Callers hold s.mu.
func (s *sessions) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.byID {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.byID, oldestID)
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
