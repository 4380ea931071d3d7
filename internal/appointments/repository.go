package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists appointments.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	ListUpcoming(ctx context.Context, filter ListFilter) ([]*Appointment, error)
	Summarize(ctx context.Context, from, to time.Time) (Summary, error)
}

// InMemoryRepository is used when no database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []*Appointment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(_ context.Context, appt *Appointment) error {
	if appt.Email == "" {
		return ErrMissingOwner
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now().UTC()
	}
	cp := *appt
	r.mu.Lock()
	r.items = append(r.items, &cp)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) ListUpcoming(_ context.Context, filter ListFilter) ([]*Appointment, error) {
	r.mu.RLock()
	var out []*Appointment
	for _, a := range r.items {
		if filter.Email != "" && a.Email != filter.Email {
			continue
		}
		if a.ScheduledFor.Before(filter.From) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledFor.Before(out[j].ScheduledFor)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Summarize counts appointments scheduled in [from, to).
func (r *InMemoryRepository) Summarize(_ context.Context, from, to time.Time) (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s Summary
	for _, a := range r.items {
		if a.ScheduledFor.Before(from) || !a.ScheduledFor.Before(to) {
			continue
		}
		s.Count++
		s.Revenue += a.Price
	}
	return s, nil
}
