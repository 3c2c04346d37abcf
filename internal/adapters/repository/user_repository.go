package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

const usersTable = "users"

var userColumns = []string{"id", "name", "email", "password", "role", "phone", "department", "created_at", "updated_at"}

type UserRepository struct {
	store *Store
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "find_by_email", sq.Eq{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "find_by_id", sq.Eq{"id": id})
}

func (r *UserRepository) findOne(ctx context.Context, operation string, where sq.Eq) (*domain.User, error) {
	return instrument(ctx, r.store, usersTable, operation, func(ctx context.Context) (*domain.User, error) {
		query, args, err := r.store.Builder().
			Select(userColumns...).
			From(usersTable).
			Where(where).
			ToSql()
		if err != nil {
			return nil, err
		}

		var user domain.User
		if err := r.store.DB.GetContext(ctx, &user, query, args...); err != nil {
			return nil, err
		}
		return &user, nil
	})
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	return instrumentVoid(ctx, r.store, usersTable, "create", func(ctx context.Context) error {
		query, args, err := r.store.Builder().
			Insert(usersTable).
			Columns(userColumns...).
			Values(user.ID, user.Name, user.Email, user.Password, string(user.Role),
				user.Phone, user.Department, user.CreatedAt, user.UpdatedAt).
			ToSql()
		if err != nil {
			return err
		}
		_, err = r.store.DB.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, password string, updatedAt time.Time) error {
	return instrumentVoid(ctx, r.store, usersTable, "update_password", func(ctx context.Context) error {
		query, args, err := r.store.Builder().
			Update(usersTable).
			SetMap(sq.Eq{"password": password, "updated_at": updatedAt}).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}

		res, err := r.store.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// List returns every user ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return instrument(ctx, r.store, usersTable, "list", func(ctx context.Context) ([]domain.User, error) {
		query, args, err := r.store.Builder().
			Select(userColumns...).
			From(usersTable).
			OrderBy("created_at", "id").
			ToSql()
		if err != nil {
			return nil, err
		}

		users := []domain.User{}
		if err := r.store.DB.SelectContext(ctx, &users, query, args...); err != nil {
			return nil, err
		}
		return users, nil
	})
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return instrument(ctx, r.store, usersTable, "count", func(ctx context.Context) (int, error) {
		query, args, err := r.store.Builder().Select("COUNT(*)").From(usersTable).ToSql()
		if err != nil {
			return 0, err
		}

		var n int
		err = r.store.DB.GetContext(ctx, &n, query, args...)
		return n, err
	})
}
