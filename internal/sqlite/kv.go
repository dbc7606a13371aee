package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/cabinet/internal/repository"
)

// KVStore implements repository.ByteStore for SQLite
type KVStore struct {
	db *DB
}

var _ repository.ByteStore = (*KVStore)(nil)

// NewKVStore creates a new KVStore
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get retrieves a collection blob by key
func (s *KVStore) Get(ctx context.Context, key string) (*repository.Blob, error) {
	query := `
		SELECT key, value, version
		FROM kv_store
		WHERE key = ?
	`

	var blob repository.Blob
	err := s.db.QueryRowContext(ctx, query, key).Scan(&blob.Key, &blob.Value, &blob.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return &blob, nil
}

// Put writes a collection blob and returns its new version
func (s *KVStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM kv_store WHERE key = ?`, key).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if expectedVersion > 0 {
			return 0, repository.ErrConflict
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO kv_store (key, value, version, updated_at) VALUES (?, ?, 1, ?)`,
			key, value, time.Now().UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return 0, repository.ErrConflict
			}
			return 0, fmt.Errorf("failed to insert key %s: %w", key, err)
		}
		current = 0
	case err != nil:
		return 0, fmt.Errorf("failed to read version for %s: %w", key, err)
	default:
		if expectedVersion > 0 && current != expectedVersion {
			return 0, repository.ErrConflict
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE kv_store SET value = ?, version = ?, updated_at = ? WHERE key = ?`,
			value, current+1, time.Now().UTC(), key)
		if err != nil {
			return 0, fmt.Errorf("failed to update key %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return current + 1, nil
}

// Delete removes a collection blob
func (s *KVStore) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Keys lists every stored collection key
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_store ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating key rows: %w", err)
	}

	return keys, nil
}

// Close closes the underlying database
func (s *KVStore) Close() error {
	return s.db.Close()
}
