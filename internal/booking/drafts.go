package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type draftEntry struct {
	mu        sync.Mutex
	owner     string
	form      *Form
	updatedAt time.Time
}

// DraftStore keeps open booking forms between requests. Each draft belongs to
// the email that opened it.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]*draftEntry
	now    func() time.Time
}

// NewDraftStore creates an empty registry.
func NewDraftStore() *DraftStore {
	return &DraftStore{
		drafts: make(map[string]*draftEntry),
		now:    time.Now,
	}
}

// Open registers a form and returns its id.
func (s *DraftStore) Open(owner string, form *Form) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.drafts[id] = &draftEntry{owner: owner, form: form, updatedAt: s.now()}
	s.mu.Unlock()
	return id
}

func (s *DraftStore) entry(id, owner string) (*draftEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drafts[id]
	if !ok || e.owner != owner {
		return nil, ErrDraftNotFound
	}
	return e, nil
}

// With runs fn with exclusive access to the owner's draft. A draft whose form
// ends up confirmed is removed afterwards.
func (s *DraftStore) With(id, owner string, fn func(*Form) error) error {
	e, err := s.entry(id, owner)
	if err != nil {
		return err
	}
	e.mu.Lock()
	fnErr := fn(e.form)
	confirmed := e.form.State() == StateConfirmed
	e.updatedAt = s.now()
	e.mu.Unlock()

	if confirmed {
		s.Discard(id, owner)
	}
	return fnErr
}

// Discard drops a draft, as when the patient cancels the form. It reports
// whether anything was removed.
func (s *DraftStore) Discard(id, owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drafts[id]
	if !ok || e.owner != owner {
		return false
	}
	delete(s.drafts, id)
	return true
}

// Prune removes drafts untouched since before cutoff and returns how many.
// Drafts in use by a request are skipped.
func (s *DraftStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.drafts {
		if !e.mu.TryLock() {
			continue
		}
		stale := e.updatedAt.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}

// RunJanitor prunes drafts older than maxAge every interval until ctx ends.
func (s *DraftStore) RunJanitor(ctx context.Context, maxAge, interval time.Duration) {
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
			s.Prune(s.now().Add(-maxAge))
		}
	}
}

// Len reports how many drafts are open.
func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}
