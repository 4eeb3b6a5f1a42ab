// Package presence maps stable user codes to their current live session.
// The registry is the sole source of truth for "is this user reachable for
// live delivery"; the durable isOnline flag is only a best-effort mirror.
package presence

import (
	"sync"

	"github.com/mehular0ra/pingme/pkg/models"
)

// Session is a live connection handle. Deliver reports false when the
// session could not accept the event (closed or backed up); callers treat
// that the same as the session being gone.
type Session interface {
	Deliver(event models.Event) bool
}

// Registry holds at most one session per user code. All mutations are
// guarded by a single mutex so that bind and unbind are linearizable.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Bind associates code with s, replacing any existing session for that
// code. Last register wins; the superseded session is not closed here.
func (r *Registry) Bind(code string, s Session) {
	r.mu.Lock()
	r.sessions[code] = s
	r.mu.Unlock()
}

// Lookup returns the current session for code, if any.
func (r *Registry) Lookup(code string) (Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[code]
	r.mu.RUnlock()
	return s, ok
}

// Unbind removes the binding whose current session is s and returns the
// code it was bound under. A stale session (already replaced or never
// registered) is a no-op; ok is false.
func (r *Registry) Unbind(s Session) (code string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c, bound := range r.sessions {
		if bound == s {
			delete(r.sessions, c)
			return c, true
		}
	}
	return "", false
}

// Codes returns a snapshot of all currently bound user codes.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.sessions))
	for c := range r.sessions {
		codes = append(codes, c)
	}
	return codes
}

// Len returns the number of bound sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
