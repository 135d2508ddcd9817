// Package notify queues the transient toast messages shown after an action.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/storage"
)

// Lifetime is how long a toast stays on screen, and how long an undisplayed
// toast waits in the queue before it is dropped.
const Lifetime = 2 * time.Second

// Level styles a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Toast is a single notification message.
type Toast struct {
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier shows a toast to the visitor of the current request.
type Notifier interface {
	Notify(ctx context.Context, message string, level Level)
}

const queueName = "toasts"

// Queue is a Notifier that keeps pending toasts per session in the store
// until the next page render drains them.
type Queue struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

var _ Notifier = (*Queue)(nil)

// NewQueue creates a toast queue over store.
func NewQueue(store storage.Store, logger *slog.Logger) *Queue {
	return &Queue{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Notify appends a toast. Failures are logged and swallowed: toasts are
// cosmetic.
func (q *Queue) Notify(ctx context.Context, message string, level Level) {
	key, err := repository.SessionKey(ctx, queueName)
	if err != nil {
		q.logger.WarnContext(ctx, "toast dropped", slog.String("error", err.Error()))
		return
	}

	pending, err := repository.LoadForUpdate[Toast](ctx, q.store, key, q.logger)
	if err != nil {
		q.logger.WarnContext(ctx, "toast dropped",
			slog.String("message", message),
			slog.String("error", err.Error()),
		)
		return
	}
	pending = append(q.live(pending), Toast{
		Message:   message,
		Level:     level,
		CreatedAt: q.now().UTC(),
	})

	if err := repository.Save(ctx, q.store, key, pending); err != nil {
		q.logger.WarnContext(ctx, "toast dropped",
			slog.String("message", message),
			slog.String("error", err.Error()),
		)
	}
}

// Drain returns the pending toasts that are still within their lifetime and
// empties the queue.
func (q *Queue) Drain(ctx context.Context) []Toast {
	key, err := repository.SessionKey(ctx, queueName)
	if err != nil {
		return []Toast{}
	}

	pending := repository.Load[Toast](ctx, q.store, key, q.logger)
	if len(pending) == 0 {
		return pending
	}

	if err := q.store.Delete(ctx, key); err != nil {
		q.logger.WarnContext(ctx, "toast queue not cleared", slog.String("error", err.Error()))
	}
	return q.live(pending)
}

func (q *Queue) live(toasts []Toast) []Toast {
	now := q.now()
	out := toasts[:0]
	for _, t := range toasts {
		if now.Sub(t.CreatedAt) < Lifetime {
			out = append(out, t)
		}
	}
	return out
}
