// Package session carries the visitor id that namespaces stored lists.
package session

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const idKey contextKey = "session_id"

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.New().String()
}

// Valid reports whether id looks like a session id issued by NewID.
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// WithID returns a context carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey, id)
}

// IDFromContext extracts the session id. The boolean is false when no
// non-empty id is present.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey).(string)
	return id, ok && id != ""
}
