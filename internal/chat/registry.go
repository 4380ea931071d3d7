package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type registryEntry struct {
	owner    string
	widget   *Widget
	lastUsed time.Time
}

// Registry keeps REST conversations between requests. A conversation opened
// by a signed-in user is only visible to that user.
type Registry struct {
	newWidget func() *Widget
	now       func() time.Time

	mu      sync.Mutex
	widgets map[string]*registryEntry
}

// NewRegistry builds widgets with the given responder and options.
func NewRegistry(responder *Responder, opts WidgetOptions) *Registry {
	return &Registry{
		newWidget: func() *Widget { return NewWidget(responder, opts) },
		now:       time.Now,
		widgets:   make(map[string]*registryEntry),
	}
}

// Open starts a conversation and returns its id.
func (r *Registry) Open(owner string) (string, *Widget) {
	id := uuid.NewString()
	w := r.newWidget()
	r.mu.Lock()
	r.widgets[id] = &registryEntry{owner: owner, widget: w, lastUsed: r.now()}
	r.mu.Unlock()
	return id, w
}

// Get returns the conversation if owner may see it and marks it as used.
func (r *Registry) Get(id, owner string) (*Widget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.widgets[id]
	if !ok || e.owner != owner {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.widget, true
}

// Remove closes and forgets a conversation.
func (r *Registry) Remove(id, owner string) bool {
	r.mu.Lock()
	e, ok := r.widgets[id]
	if ok && e.owner == owner {
		delete(r.widgets, id)
	} else {
		ok = false
	}
	r.mu.Unlock()
	if ok {
		e.widget.Close()
	}
	return ok
}

// CloseAll cancels every pending reply and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	widgets := r.widgets
	r.widgets = make(map[string]*registryEntry)
	r.mu.Unlock()
	for _, e := range widgets {
		e.widget.Close()
	}
}

// Prune closes conversations not used since before cutoff and returns how
// many were removed.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	var stale []*Widget
	for id, e := range r.widgets {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, e.widget)
			delete(r.widgets, id)
		}
	}
	r.mu.Unlock()
	for _, w := range stale {
		w.Close()
	}
	return len(stale)
}

// RunJanitor prunes conversations idle for maxAge every interval until ctx
// ends.
func (r *Registry) RunJanitor(ctx context.Context, maxAge, interval time.Duration) {
	if maxAge <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune(r.now().Add(-maxAge))
		}
	}
}

// Len reports how many conversations are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.widgets)
}
