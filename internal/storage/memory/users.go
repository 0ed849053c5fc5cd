package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
)

// UserRepository is a seeded, in-memory user directory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

var _ store.UserRepository = (*UserRepository)(nil)

func NewUserRepository(users ...domain.User) *UserRepository {
	repo := &UserRepository{users: make(map[int64]domain.User, len(users))}
	for _, u := range users {
		repo.Put(u)
	}
	return repo
}

// Put inserts or replaces a user.
func (r *UserRepository) Put(user domain.User) {
	r.mu.Lock()
	r.users[user.ID] = user
	r.mu.Unlock()
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) ListEditors(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	editors := make([]domain.User, 0)
	for _, user := range r.users {
		if user.CanEdit() {
			editors = append(editors, user)
		}
	}
	sort.Slice(editors, func(i, j int) bool { return editors[i].ID < editors[j].ID })
	return editors, nil
}
