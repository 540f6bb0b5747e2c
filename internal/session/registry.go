// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/fund-matcher/internal/metrics"
)

// Registry holds sessions by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating one when id is unknown or
// empty. The returned session's ID may differ from id.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := New(uuid.NewString())
	r.sessions[s.ID] = s
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	return s
}

// Lookup returns the session for id without creating one.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len is the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops sessions not seen for longer than idle, cancelling any
// search they still run, and returns how many were dropped.
func (r *Registry) Prune(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if time.Since(s.LastSeen()) <= idle {
			continue
		}
		s.Reset()
		delete(r.sessions, id)
		n++
	}
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	return n
}
