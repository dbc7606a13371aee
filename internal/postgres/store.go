// Package postgres persists collection blobs in a single Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rpggio/cabinet/internal/repository"
)

const ddl = `
CREATE TABLE IF NOT EXISTS cabinet_kv (
  key text PRIMARY KEY,
  value bytea NOT NULL,
  version bigint NOT NULL DEFAULT 1,
  updated_at timestamptz NOT NULL DEFAULT now()
);
`

// Store implements repository.ByteStore backed by Postgres.
type Store struct {
	db *sql.DB
}

var _ repository.ByteStore = (*Store)(nil)

// New opens dsn and ensures the table exists.
func New(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return NewWithDB(db)
}

// NewWithDB reuses an existing *sql.DB.
func NewWithDB(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (*repository.Blob, error) {
	var blob repository.Blob
	err := s.db.QueryRowContext(ctx, `SELECT key, value, version FROM cabinet_kv WHERE key=$1`, key).
		Scan(&blob.Key, &blob.Value, &blob.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &blob, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var currentVersion int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM cabinet_kv WHERE key=$1 FOR UPDATE`, key).Scan(&currentVersion)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		if expectedVersion > 0 {
			return 0, repository.ErrConflict
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO cabinet_kv (key, value, version) VALUES ($1,$2,1)`, key, value)
		if err != nil {
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, err
		}
		return 1, nil
	}

	if expectedVersion > 0 && currentVersion != expectedVersion {
		return 0, repository.ErrConflict
	}
	nextVersion := currentVersion + 1
	_, err = tx.ExecContext(ctx, `UPDATE cabinet_kv SET value=$1, version=$2, updated_at=now() WHERE key=$3`,
		value, nextVersion, key)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return nextVersion, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cabinet_kv WHERE key=$1`, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM cabinet_kv ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
