package session

import (
	"errors"
	"sync"
)

// ErrPlayerActive is returned by Registry.Register when the player already has a live session.
var ErrPlayerActive = errors.New("session: player already has an active session")

// Registry tracks live sessions, one per player, so that two connections of the same
// player never overwrite each other's saved game.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session // by player
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register adds a session. It fails if the player already has one.
func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.Player()]; ok {
		return ErrPlayerActive
	}
	r.sessions[s.Player()] = s
	return nil
}

// Unregister removes a session. Unknown or replaced sessions are ignored.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[s.Player()]; ok && cur.ID() == s.ID() {
		delete(r.sessions, s.Player())
	}
}

// Get retrieves the live session of player.
func (r *Registry) Get(player string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[player]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
