package shop

import (
	"sync"

	"github.com/localrivet/storefront/catalog"
)

// Sessions hands out one Session per MCP session id.
type Sessions struct {
	catalog  *catalog.Catalog
	settings Settings

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates an empty registry.
func NewSessions(cat *catalog.Catalog, settings Settings) *Sessions {
	return &Sessions{
		catalog:  cat,
		settings: settings.withDefaults(),
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = NewSession(r.catalog, r.settings)
		r.sessions[id] = s
	}
	return s
}

// Release forgets the session for id. It matches server.SessionEndFunc.
func (r *Sessions) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
