// Package testutil provides shared helpers for integration tests against
// Postgres and Redis. Helpers skip the calling test when the TEST_*
// variable they need is unset, so unit tests run without any service.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/wanderly/migrations"
)

const (
	envDatabaseURL = "TEST_DATABASE_URL"
	envRedisURL    = "TEST_REDIS_URL"
)

// RunWithMigrations is the body of a package TestMain. When
// TEST_DATABASE_URL is set it applies every pending migration once before
// running the package's tests; otherwise it just runs them, and the
// Postgres-backed tests skip themselves.
//
//	func TestMain(m *testing.M) { os.Exit(testutil.RunWithMigrations(m)) }
func RunWithMigrations(m *testing.M) int {
	dsn := os.Getenv(envDatabaseURL)
	if dsn == "" {
		return m.Run()
	}
	if err := migrateUp(context.Background(), dsn); err != nil {
		log.Printf("testutil.RunWithMigrations: %v", err)
		return 1
	}
	return m.Run()
}

func migrateUp(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// NewPool opens a *pgxpool.Pool against TEST_DATABASE_URL and closes it when
// the test finishes. Callers that write should do so inside a transaction
// they roll back.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := requireEnv(t, envDatabaseURL)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a *sql.DB against TEST_DATABASE_URL through the pgx
// database/sql driver, for goose. It is closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := requireEnv(t, envDatabaseURL)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// requireEnv returns the value of key, skipping the test when it is unset.
func requireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", key)
	}
	return v
}
