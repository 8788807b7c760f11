package db

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Open connects to the single-file store. The sqlite driver serializes
// writers itself; one open connection keeps the busy-timeout semantics
// predictable.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)

	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	err = conn.PingContext(ctx)

	if err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// EnsureSchema creates the two tables if absent. There is no migration
// tooling; the schema is fixed.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nama TEXT NOT NULL,
			tanggal_lahir TEXT NOT NULL,
			tanggal_kunjungan TEXT NOT NULL,
			diagnosis TEXT NOT NULL DEFAULT '',
			tindakan TEXT NOT NULL DEFAULT '',
			dokter TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin',
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
