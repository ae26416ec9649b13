// Package session multiplexes puzzle engine instances behind opaque
// identifiers and reclaims instances that have gone idle.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/louisbranch/puzzlebox/internal/platform/id"
	"github.com/louisbranch/puzzlebox/internal/puzzle"
)

// DefaultIdleTimeout is how long a session may go without a lookup before
// the next sweep evicts it.
const DefaultIdleTimeout = 180 * time.Second

// Session pairs one engine instance with its idle-tracking metadata. The
// registry is the sole owner; the engine must only be driven by one
// caller at a time.
type Session struct {
	ID     string
	Engine puzzle.Engine

	lastAccess time.Time
}

// Registry maps session identifiers to live engine instances. All
// operations are safe for concurrent use; the engines themselves are not,
// so callers must serialize access per session.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration

	clock func() time.Time
	newID func() (string, error)
}

// NewRegistry creates an empty registry with the default idle timeout.
func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		idleTimeout: DefaultIdleTimeout,
		clock:       time.Now,
		newID:       id.NewID,
	}
}

// Create sweeps expired sessions, then constructs an engine for the given
// kind and registers it under a fresh identifier. Construction failures
// (puzzle.ErrUnknownKind, puzzle.ErrInvalidSize) pass through unchanged.
func (r *Registry) Create(kind puzzle.Kind, params puzzle.Params) (*Session, error) {
	engine, err := puzzle.New(kind, params)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	r.sweepLocked(now)

	sessionID, err := r.newID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	session := &Session{
		ID:         sessionID,
		Engine:     engine,
		lastAccess: now,
	}
	r.sessions[sessionID] = session
	return session, nil
}

// Get returns the session and refreshes its last-access time. The second
// result is false when no session has that identifier; callers must
// handle the not-found path explicitly.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	session.lastAccess = r.clock()
	return session, true
}

// Exists reports membership without refreshing the last-access time.
func (r *Registry) Exists(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[sessionID]
	return ok
}

// Delete removes the session and reports whether it was present.
func (r *Registry) Delete(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

// Sweep evicts every session idle for longer than the timeout and returns
// the evicted identifiers. Create runs a sweep implicitly, so under
// steady traffic nothing else needs to call this.
func (r *Registry) Sweep() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.clock())
}

// List returns the live sessions sorted by identifier, without refreshing
// any last-access times.
func (r *Registry) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked(now time.Time) []string {
	var evicted []string
	for sessionID, session := range r.sessions {
		if now.Sub(session.lastAccess) > r.idleTimeout {
			delete(r.sessions, sessionID)
			evicted = append(evicted, sessionID)
		}
	}
	return evicted
}
