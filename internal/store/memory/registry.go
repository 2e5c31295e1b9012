package memory

import (
	"sync"

	"github.com/SAP-F-2025/session-service/internal/session"
)

// Registry is the in-process map of live session controllers.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Controller
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session.Controller),
	}
}

// Put registers a controller under its session ID. It reports false when
// the ID is already taken, leaving the existing controller in place.
func (r *Registry) Put(sessionID string, ctrl *session.Controller) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; ok {
		return false
	}
	r.sessions[sessionID] = ctrl
	return true
}

func (r *Registry) Get(sessionID string) (*session.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctrl, ok := r.sessions[sessionID]
	return ctrl, ok
}

func (r *Registry) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Len reports the number of live sessions, for the health endpoint.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
