// Package testutil holds the database plumbing shared by integration tests.
// Everything keys off TEST_DATABASE_URL: when it is unset the calling test
// skips, so `go test ./...` stays green on machines without Postgres.
//
// Repo tests combine NewPool with a per-test transaction for isolation;
// migration-driven setup (goose) goes through NewSQLDB or MustOpenSQLDB,
// since goose speaks database/sql rather than the pgx pool API.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
)

// NewPool connects a *pgxpool.Pool to the test database, pinging it so a
// misconfigured TEST_DATABASE_URL fails loudly at the first test rather than
// deep inside a repo call. Closed via t.Cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := testDSN(t)

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

// NewSQLDB connects a database/sql handle to the test database through the
// pgx stdlib driver. Closed via t.Cleanup.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN(t)

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

// MustOpenSQLDB is NewSQLDB for TestMain, where no *testing.T exists to skip
// or clean up with: it panics on failure and leaves closing to the caller.
// Callers must gate on TEST_DATABASE_URL themselves before invoking it.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// testDSN returns TEST_DATABASE_URL, skipping the calling test when the
// variable is unset.
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}
