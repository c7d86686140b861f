package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmas-wbpl/sonicwall/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	query := `SELECT id, username, password, is_admin, created_at, updated_at
			  FROM users WHERE username = $1`

	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Password, &user.IsAdmin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (username, password, is_admin)
			  VALUES ($1, $2, $3)
			  RETURNING id, username, password, is_admin, created_at, updated_at`

	var savedUser model.User
	err := r.db.QueryRow(ctx, query,
		user.Username, user.Password, user.IsAdmin,
	).Scan(
		&savedUser.ID, &savedUser.Username, &savedUser.Password, &savedUser.IsAdmin,
		&savedUser.CreatedAt, &savedUser.UpdatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}
