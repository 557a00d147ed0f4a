// Package dbtest connects repository tests to a disposable Postgres
// described by the DB_*_TEST variables. Each test package gets its own
// schema so packages can run in parallel against one server.
package dbtest

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/restaurant-pos/internal/db"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// DSN is empty unless DB_HOST_TEST is set.
func DSN() string {
	host := os.Getenv("DB_HOST_TEST")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getenv("DB_USER_TEST", "postgres"), getenv("DB_PASSWORD_TEST", "postgres")),
		Host:     net.JoinHostPort(host, getenv("DB_PORT_TEST", "5432")),
		Path:     "/" + getenv("DB_NAME_TEST", "pos_test"),
		RawQuery: "sslmode=" + getenv("DB_SSLMODE_TEST", "disable"),
	}
	return u.String()
}

// Open creates schema, migrates it and returns a pool bound to it. Without
// a configured test database it returns nil and no error.
func Open(ctx context.Context, schema string) (*pgxpool.Pool, error) {
	base := DSN()
	if base == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	admin, err := db.Connect(ctx, base, 3, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_, err = admin.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q`, schema))
	admin.Close()
	if err != nil {
		return nil, fmt.Errorf("dbtest: create schema %s: %w", schema, err)
	}

	dsn := base + "&search_path=" + url.QueryEscape(schema)
	if err := db.MigrateUp(dsn); err != nil {
		return nil, err
	}
	return db.Connect(ctx, dsn, 3, 200*time.Millisecond)
}

// Require skips tb when no test database is configured.
func Require(tb testing.TB, pool *pgxpool.Pool) {
	tb.Helper()
	if pool == nil {
		tb.Skip("DB_HOST_TEST not set, skipping database test")
	}
}

// Truncate empties every table in the schema.
func Truncate(tb testing.TB, pool *pgxpool.Pool) {
	tb.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE profiles, sessions, inventory, menu_items, customers, employees, employee_targets,
		         orders, order_items, inventory_movements, reservations
		RESTART IDENTITY CASCADE`)
	require.NoError(tb, err, "failed to truncate tables")
}
