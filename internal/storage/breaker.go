package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// BreakerConfig holds configuration for the store circuit breaker.
type BreakerConfig struct {
	// Name identifies this breaker in metrics and logs.
	Name string

	// MaxRequests is the number of probes allowed in the half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio trips the breaker once reached.
	FailureRatio float64

	// MinRequests is the minimum number of requests before FailureRatio applies.
	MinRequests uint32
}

// DefaultBreakerConfig returns sensible defaults for a store breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      15 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = gobreaker.ErrOpenState

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "storefront_store_breaker_state",
		Help: "Current state of the store circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BreakerStore wraps a Store with circuit breaker protection. A missing key is
// an ordinary answer and never counts as a failure.
type BreakerStore struct {
	next    Store
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerStore wraps next with a circuit breaker.
func NewBreakerStore(next Store, cfg BreakerConfig, logger *slog.Logger) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsNotFound(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("store circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerStore{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Get implements Store.
func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.breaker.Execute(func() ([]byte, error) {
		return s.next.Get(ctx, key)
	})
	return value, rejected(err)
}

// Put implements Store.
func (s *BreakerStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.breaker.Execute(func() ([]byte, error) {
		return nil, s.next.Put(ctx, key, value)
	})
	return rejected(err)
}

// Delete implements Store.
func (s *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := s.breaker.Execute(func() ([]byte, error) {
		return nil, s.next.Delete(ctx, key)
	})
	return rejected(err)
}

// rejected maps calls refused by the breaker to a 503 application error.
func rejected(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.ServiceUnavailable("store", err)
	}
	return err
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (s *BreakerStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// State returns the current breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}
