package mapsync

import (
	"sync"
	"time"

	"phonedeal-be/internal/store"
)

const DefaultSessionIdle = 30 * time.Minute

// LatestBatch is a MapWidget that keeps the newest batch for clients that
// poll instead of holding a live map.
type LatestBatch struct {
	mu    sync.Mutex
	batch *Batch
}

func (w *LatestBatch) Render(b Batch) {
	w.mu.Lock()
	w.batch = &b
	w.mu.Unlock()
}

func (w *LatestBatch) Latest() (Batch, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.batch == nil {
		return Batch{}, false
	}
	return *w.batch, true
}

type Session struct {
	*Controller
	Widget *LatestBatch

	lastSeen time.Time
}

// Registry holds one controller per map session and forgets sessions idle
// for longer than the idle window.
type Registry struct {
	search store.Service
	idle   time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(search store.Service, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &Registry{
		search:   search,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session's controller, creating it from q on first use.
func (r *Registry) Get(id string, q QueryState) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	s, ok := r.sessions[id]
	if !ok {
		w := &LatestBatch{}
		s = &Session{
			Controller: NewController(r.search, w, WithSession(id), WithQueryState(q)),
			Widget:     w,
		}
		r.sessions[id] = s
	}
	s.lastSeen = now
	return s
}

// Lookup returns an existing session without creating one.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = now
	}
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked(now time.Time) {
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idle {
			delete(r.sessions, id)
		}
	}
}
