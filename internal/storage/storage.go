// Package storage defines the key-value contract the storefront persists
// through. Backends live in subpackages.
package storage

import (
	"context"
	"errors"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Store is a last-writer-wins key-value store.
type Store interface {
	// Get returns the value stored under key. A missing key yields an error
	// matching apperrors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

// KeyNotFound builds the error returned by backends for a missing key.
func KeyNotFound(key string) error {
	return apperrors.NotFound("key", key)
}

// IsNotFound reports whether err signals a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
