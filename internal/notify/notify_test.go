package notify

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestQueue() (*Queue, *time.Time) {
	q := NewQueue(memory.NewStore(0), testLogger())
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }
	return q, &now
}

func TestQueue_NotifyThenDrain(t *testing.T) {
	q, _ := newTestQueue()
	ctx := session.WithID(context.Background(), "s1")

	q.Notify(ctx, "Chicken Laps added to cart!", LevelSuccess)
	q.Notify(ctx, "Item is already in your cart!", LevelInfo)

	toasts := q.Drain(ctx)
	require.Len(t, toasts, 2)
	assert.Equal(t, "Chicken Laps added to cart!", toasts[0].Message)
	assert.Equal(t, LevelSuccess, toasts[0].Level)
	assert.Equal(t, "Item is already in your cart!", toasts[1].Message)

	assert.Empty(t, q.Drain(ctx), "drain empties the queue")
}

func TestQueue_ExpiredToastsDropped(t *testing.T) {
	q, now := newTestQueue()
	ctx := session.WithID(context.Background(), "s1")

	q.Notify(ctx, "old", LevelInfo)
	*now = now.Add(Lifetime)
	q.Notify(ctx, "fresh", LevelInfo)

	toasts := q.Drain(ctx)
	require.Len(t, toasts, 1)
	assert.Equal(t, "fresh", toasts[0].Message)
}

func TestQueue_PerSession(t *testing.T) {
	q, _ := newTestQueue()
	a := session.WithID(context.Background(), "a")
	b := session.WithID(context.Background(), "b")

	q.Notify(a, "for a", LevelInfo)

	assert.Empty(t, q.Drain(b))
	assert.Len(t, q.Drain(a), 1)
}

func TestQueue_NoSessionIsSilent(t *testing.T) {
	q, _ := newTestQueue()
	ctx := context.Background()

	assert.NotPanics(t, func() { q.Notify(ctx, "lost", LevelInfo) })
	assert.Empty(t, q.Drain(ctx))
}

func TestLifetime(t *testing.T) {
	assert.Equal(t, 2*time.Second, Lifetime)
}
