package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ardian/klinikhub/internal/domain/user"
)

func TestUsersRepoGetByUsername(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer conn.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
		AddRow(int64(2), "dokter", "$2a$10$hash", "dokter", time.Now().UTC())

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("dokter").
		WillReturnRows(rows)

	repo := NewUsersRepo(conn)

	u, err := repo.GetByUsername(context.Background(), "dokter")
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if u.Role != user.RoleDokter {
		t.Fatalf("unexpected role %q", u.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUsersRepoGetByUsernameNotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewUsersRepo(conn)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUsersRepoCreate(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer conn.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("admin", "hash", "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewUsersRepo(conn)

	u, err := repo.Create(context.Background(), "admin", "hash", user.RoleAdmin)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if u.ID != 1 || u.Username != "admin" {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
