package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// retryPolicy is an exponential backoff with symmetric jitter.
type retryPolicy struct {
	attempts int
	base     time.Duration
	jitter   float64
}

// startupRetry is used while connecting and migrating: 3 attempts waiting
// about 1s then 2s, each within ±25%.
var startupRetry = retryPolicy{attempts: 3, base: time.Second, jitter: 0.25}

// backoff returns the wait after the given 0-indexed failed attempt.
func (p retryPolicy) backoff(attempt int) time.Duration {
	base := p.base << max(attempt, 0)
	spread := float64(base) * p.jitter * (2*rand.Float64() - 1) // #nosec G404 -- jitter, not crypto
	return base + time.Duration(spread)
}

// do runs fn until it succeeds, returns an error retryable rejects, or the
// attempts run out. Each retry is logged at warn level when logger is set.
func (p retryPolicy) do(ctx context.Context, logger *slog.Logger, op string, retryable func(error) bool, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < p.attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == p.attempts-1 {
			break
		}

		wait := p.backoff(attempt)
		if logger != nil {
			logger.Warn(op+" failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", p.attempts),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: context canceled during retry: %w", op, ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%s after %d attempts: %w", op, p.attempts, err)
}

func always(error) bool { return true }

// connPatterns match driver messages for connection failures that carry no
// typed error.
var connPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"i/o timeout",
	"dial tcp",
	"EOF",
	"connection timed out",
	"server closed the connection unexpectedly",
	"could not connect",
}

// isConnectionError reports whether err is a transient failure to reach
// Postgres. Errors the server itself returned, such as SQL syntax or
// constraint violations, are never connection errors.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || pgconn.Timeout(err) {
		return true
	}

	msg := err.Error()
	for _, p := range connPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
