// Package postgres provides a storage.Store backed by a PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/pkg/database"
)

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const (
	getQuery = `
		SELECT value
		FROM storefront_kv
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`

	putQuery = `
		INSERT INTO storefront_kv (key, value, updated_at, expires_at)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = EXCLUDED.updated_at,
		    expires_at = EXCLUDED.expires_at`

	deleteQuery = `DELETE FROM storefront_kv WHERE key = $1`
)

// Store implements storage.Store on top of the storefront_kv table.
type Store struct {
	db  DB
	ttl time.Duration
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a new PostgreSQL-backed store. A zero TTL stores rows
// without expiry.
func NewStore(db DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// Get retrieves the value stored under key, ignoring expired rows.
func (s *Store) Get(ctx context.Context, key string) (value []byte, err error) {
	ctx, end := database.TraceQuery(ctx, "KVGet", getQuery)
	defer func() { end(err) }()

	if err := s.db.QueryRow(ctx, getQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.KeyNotFound(key)
		}
		return nil, fmt.Errorf("select kv %s: %w", key, err)
	}
	return value, nil
}

// Put upserts value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, "KVPut", putQuery)
	defer func() { end(err) }()

	var expiresAt *time.Time
	if s.ttl > 0 {
		t := s.now().UTC().Add(s.ttl)
		expiresAt = &t
	}

	if _, err := s.db.Exec(ctx, putQuery, key, value, expiresAt); err != nil {
		return fmt.Errorf("upsert kv %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceQuery(ctx, "KVDelete", deleteQuery)
	defer func() { end(err) }()

	if _, err := s.db.Exec(ctx, deleteQuery, key); err != nil {
		return fmt.Errorf("delete kv %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity to PostgreSQL.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
