// Package db opens the Postgres pool and applies the embedded schema
// migrations.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/restaurant-pos/internal/retry"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Connect opens a pool and pings it, retrying with backoff while the
// database is still coming up.
func Connect(ctx context.Context, dsn string, attempts int, base time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: parse dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute

	var pool *pgxpool.Pool
	err = retry.Do(ctx, attempts, base, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	log.Info().Msg("[db] connected to PostgreSQL")
	return pool, nil
}

func newMigrate(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("db: migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, MigrateURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("db: init migrations: %w", err)
	}
	return m, nil
}

// MigrateURL rewrites a postgres DSN to the pgx5 scheme used by the
// migrate driver.
func MigrateURL(dsn string) string {
	for _, p := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, p) {
			return "pgx5://" + strings.TrimPrefix(dsn, p)
		}
	}
	return dsn
}

// migrateUp is swapped in tests.
var migrateUp = MigrateUp

// Migrate applies pending migrations, retrying while the database refuses
// connections or another instance holds the migration lock.
func Migrate(ctx context.Context, dsn string, attempts int, base time.Duration) error {
	return retry.Do(ctx, attempts, base, func(context.Context) error {
		return migrateUp(dsn)
	})
}

func MigrateUp(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("[db] no new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("db: apply migrations: %w", err)
	}
	log.Info().Msg("[db] migrations applied")
	return nil
}

// MigrateDown rolls back a single migration step.
func MigrateDown(dsn string) error {
	m, err := newMigrate(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: rollback migration: %w", err)
	}
	return nil
}
