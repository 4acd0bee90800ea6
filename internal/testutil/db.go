//go:build integration

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB connects to the test database, applies the migration, and
// truncates all tables so every test starts from an empty schema.
// It skips the test if TEST_DATABASE_URL is not set.
// The tables are global; run integration packages serially (go test -p 1).
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect to test DB: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping test DB: %v", err)
	}

	applyMigration(t, pool)
	truncateAll(t, pool)

	t.Cleanup(func() { pool.Close() })
	return pool
}

func applyMigration(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	data, err := os.ReadFile(migrationPath())
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	// The migration is idempotent (IF NOT EXISTS throughout), so reapplying
	// against an existing schema is fine.
	if _, err := pool.Exec(ctx, string(data)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
}

// migrationPath resolves the migration file relative to this source file so
// tests can run from any package directory.
func migrationPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "adapter", "postgres", "migrations", "001_initial.sql")
}

func truncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	if _, err := pool.Exec(ctx, "TRUNCATE requests, executors, processed_operations"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
