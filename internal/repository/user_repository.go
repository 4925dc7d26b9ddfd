package repository

import (
	"context"
	"fmt"
	"sync"

	"minute-empire-backend/internal/model"
)

// UserRepository stores the account records the out-of-scope auth
// collaborator authenticates against; the core only reads FamilyName/Color
// off of it to decorate map output (spec.md §3).
type UserRepository interface {
	Add(ctx context.Context, user model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewUserRepository builds an in-memory UserRepository.
func NewUserRepository() UserRepository {
	return &userRepository{users: make(map[string]*model.User)}
}

func (r *userRepository) Add(ctx context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	r.users[user.ID] = user.DeepCopy()
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u.DeepCopy(), nil
}

func (r *userRepository) ListAll(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u.DeepCopy())
	}
	return out, nil
}
