package bunrepo

import (
	"context"

	"github.com/goliatone/go-realtime-notifications/pkg/domain"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/store"
	"github.com/uptrace/bun"
)

// UserRepository reads the application's users table.
type UserRepository struct {
	db *bun.DB
}

var _ store.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user := new(domain.User)
	err := conn(ctx, r.db).
		NewSelect().
		Model(user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (r *UserRepository) ListEditors(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := conn(ctx, r.db).
		NewSelect().
		Model(&users).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("is_editor = ?", true).WhereOr("is_admin = ?", true)
		}).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}
