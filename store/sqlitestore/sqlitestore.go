package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `CREATE TABLE IF NOT EXISTS client_storage (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store keeps the access token as a row in a local SQLite database.
type Store struct {
	db  *sql.DB
	key string
}

// Open creates (if needed) the database at path. key names the row the
// token is stored under.
func Open(path, key string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, key: key}, nil
}

func (s *Store) Get(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_storage WHERE key = ?`, s.key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}
	return token, nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, s.key, token)
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_storage WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
