package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ardian/klinikhub/internal/domain/user"
)

type UsersRepo struct {
	conn *sql.DB
}

func NewUsersRepo(conn *sql.DB) *UsersRepo {
	return &UsersRepo{conn: conn}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.conn.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, role, created_at
		 FROM users
		 WHERE username = ?`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// Create exists for the bootstrap path only; no request handler reaches it.
func (r *UsersRepo) Create(ctx context.Context, username, passwordHash, role string) (user.User, error) {
	if !user.ValidRole(role) {
		return user.User{}, errors.New("unknown role " + role)
	}

	now := time.Now().UTC()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?)`,
		username, passwordHash, role, now,
	)

	if err != nil {
		return user.User{}, err
	}

	id, err := res.LastInsertId()

	if err != nil {
		return user.User{}, err
	}

	return user.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
	}, nil
}

func (r *UsersRepo) Count(ctx context.Context) (int, error) {
	var n int

	err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)

	if err != nil {
		return 0, err
	}

	return n, nil
}
