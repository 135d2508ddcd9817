// Package repository persists storefront lists as whole JSON documents in a
// storage.Store. Every mutation is read-entire-list, modify, write-entire-list.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/internal/storage"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const keyPrefix = "storefront:"

// Key builds the storage key for a named document owned by a session.
func Key(sessionID, name string) string {
	return keyPrefix + sessionID + ":" + name
}

// SessionKey builds the storage key for name using the session in ctx.
func SessionKey(ctx context.Context, name string) (string, error) {
	id, ok := session.IDFromContext(ctx)
	if !ok {
		return "", apperrors.InvalidInput("session id is required")
	}
	return Key(id, name), nil
}

// Load reads the sequence stored under key. It fails soft: a missing key, an
// unreachable store or text that does not decode all yield an empty slice.
func Load[T any](ctx context.Context, store storage.Store, key string, logger *slog.Logger) []T {
	items, err := LoadForUpdate[T](ctx, store, key, logger)
	if err != nil {
		logger.WarnContext(ctx, "list read failed, using empty list",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return []T{}
	}
	return items
}

// LoadForUpdate reads the sequence stored under key before it is rewritten.
// A missing key or malformed text yields an empty slice, but any other store
// error is returned so the caller does not overwrite a list it never read.
func LoadForUpdate[T any](ctx context.Context, store storage.Store, key string, logger *slog.Logger) ([]T, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if storage.IsNotFound(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.WarnContext(ctx, "stored list is malformed, using empty list",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return []T{}, nil
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

// Save serializes the full sequence and overwrites any prior value under key.
func Save[T any](ctx context.Context, store storage.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
