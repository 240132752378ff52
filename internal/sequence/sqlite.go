package sequence

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps counters in a single table of an embedded SQLite database.
//
//	counters(collection_name TEXT PRIMARY KEY, sequence_value INTEGER)
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating when needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS counters (
		collection_name TEXT PRIMARY KEY,
		sequence_value INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Increment is a single upsert statement, so concurrent writers serialize on the
// database write lock.
func (s *SQLiteStore) Increment(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO counters (collection_name, sequence_value) VALUES (?, 1)
		 ON CONFLICT(collection_name) DO UPDATE SET sequence_value = sequence_value + 1
		 RETURNING sequence_value`,
		name,
	).Scan(&value)
	return value, err
}

func (s *SQLiteStore) CompareAndSet(ctx context.Context, name string, oldValue, newValue int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE counters SET sequence_value = ? WHERE collection_name = ? AND sequence_value = ?",
		newValue, name, oldValue,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLiteStore) Ensure(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO counters (collection_name, sequence_value) VALUES (?, 0) ON CONFLICT(collection_name) DO NOTHING",
		name,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLiteStore) Current(ctx context.Context, name string) (int64, bool, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		"SELECT sequence_value FROM counters WHERE collection_name = ?", name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}
