// Package redis persists collection blobs in a Redis hash per key, for
// deployments where several processes share one store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/cabinet/internal/repository"
)

const (
	fieldValue   = "value"
	fieldVersion = "version"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store implements repository.ByteStore on Redis.
type Store struct {
	rdb    *redis.Client
	prefix string
}

var _ repository.ByteStore = (*Store)(nil)

// New connects to Redis and verifies the connection with a ping.
func New(opts Options) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(rdb, opts.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "cabinet"
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) hashKey(key string) string {
	return s.prefix + ":kv:" + key
}

func (s *Store) indexKey() string {
	return s.prefix + ":keys"
}

// Get returns the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) (*repository.Blob, error) {
	fields, err := s.rdb.HGetAll(ctx, s.hashKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrNotFound
	}

	version, err := strconv.ParseInt(fields[fieldVersion], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis get %s: bad version: %w", key, err)
	}

	return &repository.Blob{
		Key:     key,
		Value:   []byte(fields[fieldValue]),
		Version: version,
	}, nil
}

// Put writes value under key inside a WATCH transaction.
func (s *Store) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	hk := s.hashKey(key)
	var next int64

	txf := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, hk, fieldVersion).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if errors.Is(err, redis.Nil) {
			current = 0
		}
		if expectedVersion > 0 && current != expectedVersion {
			return repository.ErrConflict
		}

		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hk, fieldValue, value, fieldVersion, next)
			pipe.SAdd(ctx, s.indexKey(), key)
			return nil
		})
		return err
	}

	err := s.rdb.Watch(ctx, txf, hk)
	switch {
	case errors.Is(err, repository.ErrConflict), errors.Is(err, redis.TxFailedErr):
		return 0, repository.ErrConflict
	case err != nil:
		return 0, fmt.Errorf("redis put %s: %w", key, err)
	}

	return next, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	var del *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.hashKey(key))
		pipe.SRem(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	if del.Val() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Keys lists stored collection keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}
