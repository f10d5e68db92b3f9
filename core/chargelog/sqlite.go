package chargelog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores the slot as one row of a key-value table.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// NewSQLiteBackend opens or creates the database at path, creating its
// directory, and ensures schema.
func NewSQLiteBackend(path, key string) (*SQLiteBackend, error) {
	if key == "" {
		key = DefaultSlot
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteBackend{db: db, key: key}, nil
}

// Load returns the stored value or ErrNoData.
func (s *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Save upserts the value under the slot key.
func (s *SQLiteBackend) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, string(data))
	return err
}

// Close closes the underlying database.
func (s *SQLiteBackend) Close() error { return s.db.Close() }
