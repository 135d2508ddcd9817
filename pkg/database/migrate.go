package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MigrationDB is the part of pgxpool.Pool that RunMigrations needs.
type MigrationDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RunMigrations applies every pending *.up.sql file at the root of
// migrations in filename order, recording each in schema_migrations. Each
// file runs in its own transaction. Connection failures are retried; SQL
// errors are returned immediately.
func RunMigrations(ctx context.Context, pool MigrationDB, migrations fs.FS, logger *slog.Logger) error {
	return startupRetry.do(ctx, logger, "run migrations", isConnectionError, func(ctx context.Context) error {
		return runMigrationsOnce(ctx, pool, migrations, logger)
	})
}

const createTrackingTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

func runMigrationsOnce(ctx context.Context, db MigrationDB, migrations fs.FS, logger *slog.Logger) error {
	if _, err := db.Exec(ctx, createTrackingTable); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	// fs.ReadDir sorts by filename, which orders the numbered migrations.
	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	for _, entry := range entries {
		version := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(version, ".up.sql") {
			continue
		}

		var applied bool
		if err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", version, err)
		}
		if applied {
			logger.Debug("migration already applied", slog.String("version", version))
			continue
		}

		if err := applyMigration(ctx, db, migrations, version); err != nil {
			return err
		}
		logger.Info("migration applied", slog.String("version", version))
	}
	return nil
}

// applyMigration runs one file and records its version in a single
// transaction.
func applyMigration(ctx context.Context, db MigrationDB, migrations fs.FS, version string) error {
	script, err := fs.ReadFile(migrations, version)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", version, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx for migration %s: %w", version, err)
	}

	if _, err := tx.Exec(ctx, string(script)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("execute migration %s: %w", version, err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", version, err)
	}
	return nil
}
