package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/notify"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/internal/storage/memory"
	"github.com/utafrali/storefront/internal/storage/postgres"
	"github.com/utafrali/storefront/internal/storage/postgres/migrations"
	redisstore "github.com/utafrali/storefront/internal/storage/redis"
	"github.com/utafrali/storefront/internal/view"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

const (
	serviceName    = "storefront"
	serviceVersion = "0.1.0"
	sweepInterval  = time.Minute
)

// initTracer is replaced in tests to observe tracer shutdown.
var initTracer = tracing.InitTracer

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	producer       *pkgkafka.Producer
	scheduler      gocron.Scheduler
	closers        []func()
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := initTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}
	healthHandler := health.NewHandler()

	store, err := a.openStore(ctx, healthHandler)
	if err != nil {
		a.abort()
		return nil, err
	}

	publisher := a.openEvents(ctx, healthHandler)

	lists := repository.NewLists(store, logger)
	toasts := notify.NewQueue(store, logger)
	storefront := service.NewStorefront(catalog.Static{}, lists, toasts, publisher, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		a.abort()
		return nil, fmt.Errorf("parse page templates: %w", err)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(storefront, toasts, renderer, healthHandler, handler.RouterConfig{
		CORS:       corsCfg,
		PprofCIDRs: cfg.PprofAllowedCIDRs,
		Session: handler.SessionConfig{
			TTL:    cfg.SessionTTL(),
			Secure: cfg.SessionCookieSecure,
		},
	}, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Handler returns the HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// openStore connects the configured visitor storage backend. Remote backends
// sit behind a circuit breaker and are registered as critical health checks.
func (a *App) openStore(ctx context.Context, healthHandler *health.Handler) (storage.Store, error) {
	ttl := a.cfg.SessionTTL()

	var store storage.Store
	switch a.cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := rdb.Close(); err != nil {
				a.logger.Error("redis close error", slog.String("error", err.Error()))
			}
		})
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.RedisAddr),
			slog.Int("db", a.cfg.RedisDB),
		)
		store = redisstore.NewStore(rdb, ttl)

	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig(a.cfg.PostgresDSN)
		pgCfg.MaxConns = a.cfg.DBMaxConns
		pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.logger.Info("connected to PostgreSQL")
		database.RegisterPoolMetrics(pool, serviceName)

		if err := database.RunMigrations(ctx, pool, migrations.FS, a.logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.logger.Info("database migrations completed")

		if a.cfg.SlowQueryThresholdMs > 0 {
			database.SetSlowQueryLogging(time.Duration(a.cfg.SlowQueryThresholdMs)*time.Millisecond, a.logger)
		}
		store = postgres.NewStore(pool, ttl)

	default:
		mem := memory.NewStore(ttl)
		if err := a.scheduleSweeper(mem); err != nil {
			return nil, err
		}
		a.logger.Info("using in-memory visitor storage")
		healthHandler.RegisterCritical("store", mem.Ping)
		return mem, nil
	}

	breaker := storage.NewBreakerStore(store, storage.DefaultBreakerConfig(a.cfg.StorageBackend), a.logger)
	healthHandler.RegisterCritical("store", breaker.Ping)
	return breaker, nil
}

// openEvents returns the list event publisher. With events disabled list
// changes are not published anywhere.
func (a *App) openEvents(ctx context.Context, healthHandler *health.Handler) event.Publisher {
	if !a.cfg.EventsEnabled {
		return event.Noop{}
	}

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	if err := producer.Ping(ctx); err != nil {
		a.logger.Warn("kafka producer ping failed, continuing in degraded mode",
			slog.String("error", err.Error()),
		)
	} else {
		a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))
	}
	healthHandler.RegisterNonCritical("kafka", producer.Ping)
	a.producer = producer

	return event.NewProducer(producer, a.logger)
}

// Run serves HTTP and starts background jobs. It blocks until ctx is
// canceled or the server fails, and shuts everything down in both cases.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.scheduler != nil {
		a.scheduler.Start()
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
		}
		return a.Shutdown()
	})

	return g.Wait()
}

// scheduleSweeper evicts expired sessions from the in-memory store once per
// sweepInterval. The job does not overlap with itself.
func (a *App) scheduleSweeper(mem *memory.Store) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			if removed := mem.Sweep(); removed > 0 {
				a.logger.Debug("expired session entries swept", slog.Int("removed", removed))
			}
		}),
		gocron.WithName("memory-store-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("schedule sweeper: %w", err)
	}

	a.scheduler = scheduler
	a.closers = append(a.closers, func() {
		if err := scheduler.Shutdown(); err != nil {
			a.logger.Error("scheduler shutdown error", slog.String("error", err.Error()))
		}
	})
	return nil
}

type stopStep struct {
	name    string
	timeout time.Duration
	stop    func(context.Context) error
}

// stopSteps lists what Shutdown stops, in order: the HTTP server first so no
// request sees a closed dependency, then the tracer and the Kafka producer.
func (a *App) stopSteps() []stopStep {
	steps := []stopStep{{"http server", 10 * time.Second, a.httpServer.Shutdown}}
	if a.tracerShutdown != nil {
		steps = append(steps, stopStep{"tracer", 3 * time.Second, a.tracerShutdown})
	}
	if a.producer != nil {
		steps = append(steps, stopStep{"kafka producer", 5 * time.Second, func(context.Context) error {
			return a.producer.Close()
		}})
	}
	return steps
}

// Shutdown runs every stop step, then releases the store and its jobs. A
// failing step does not prevent the later ones.
func (a *App) Shutdown() error {
	a.logger.Info("stopping storefront")

	var errs []error
	for _, step := range a.stopSteps() {
		ctx, cancel := context.WithTimeout(context.Background(), step.timeout)
		if err := step.stop(ctx); err != nil {
			a.logger.Error("shutdown step failed",
				slog.String("component", step.name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("stop %s: %w", step.name, err))
		}
		cancel()
	}

	a.close()

	a.logger.Info("storefront stopped")
	return errors.Join(errs...)
}

// close releases store connections and jobs in reverse order of opening.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// abort releases what NewApp opened before it failed, tracer included.
func (a *App) abort() {
	a.close()
	if a.tracerShutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := a.tracerShutdown(ctx); err != nil {
		a.logger.Error("tracer shutdown failed", slog.String("error", err.Error()))
	}
}

// Migrate applies the Postgres schema without starting the server. It is a
// no-op for the other storage backends.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.StorageBackend != config.BackendPostgres {
		logger.Info("storage backend has no schema, nothing to migrate",
			slog.String("backend", cfg.StorageBackend),
		)
		return nil
	}

	pgCfg := database.DefaultPostgresConfig(cfg.PostgresDSN)
	pgCfg.MaxConns = 1
	pgCfg.MinConns = 0
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")
	return nil
}
