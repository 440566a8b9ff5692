package http

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Barbenshi/HOD/internal/quiz"
)

// SessionRegistry holds live sessions by id. The mutex guards the map
// only; each session is single-consumer and callers serialize their own
// requests against it.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*quiz.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: map[string]*quiz.Session{}}
}

func (r *SessionRegistry) Add(s *quiz.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id
}

func (r *SessionRegistry) Get(id string) (*quiz.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove drops a finished or abandoned session.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
