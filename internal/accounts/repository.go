package accounts

import (
	"context"
	"sync"

	"github.com/wolfman30/synapse-clinic-hub/internal/session"
)

// Repository stores user accounts.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	CountByRole(ctx context.Context, role session.Role) (int64, error)
}

// InMemoryRepository is used when no MongoDB is configured.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byEmail: make(map[string]*User)}
}

func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *InMemoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateAccount
	}
	cp := *user
	r.byEmail[user.Email] = &cp
	return nil
}

func (r *InMemoryRepository) CountByRole(_ context.Context, role session.Role) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.byEmail {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
