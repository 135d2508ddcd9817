package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func TestStore_PutGet(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("v1")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	// Last writer wins.
	require.NoError(t, s.Put(ctx, "k", []byte("v2")))
	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore(0)

	got, err := s.Get(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ValuesAreCopied(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", in))
	in[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestStore_Delete(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "never-set"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_TTLExpiry(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	assert.Equal(t, 1, s.Len())

	now = now.Add(59 * time.Second)
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, NewStore(0).Ping(context.Background()))
}

func TestStore_Sweep(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "old", []byte("v")))
	now = now.Add(30 * time.Second)
	require.NoError(t, s.Put(ctx, "new", []byte("v")))

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Sweep())

	_, err := s.Get(ctx, "new")
	assert.NoError(t, err)
}
