//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides PostgreSQL fixtures for integration tests.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// DefaultTestConnString is the server the tests connect to.
	// Override with PGEDGE_TEST_CONN environment variable.
	DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

	// TestDBPrefix is the prefix for test databases.
	TestDBPrefix = "retailwh_test_"
)

// ServerConnString returns the connection string of the test server.
func ServerConnString() string {
	if connStr := os.Getenv("PGEDGE_TEST_CONN"); connStr != "" {
		return connStr
	}
	return DefaultTestConnString
}

// PostgresAvailable reports whether the test server answers a ping.
func PostgresAvailable(connStr string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return false
	}
	defer pool.Close()

	return pool.Ping(ctx) == nil
}

// SkipIfNoPostgres skips the test if PostgreSQL is not available and
// returns the server connection string otherwise.
func SkipIfNoPostgres(t *testing.T) string {
	t.Helper()

	connStr := ServerConnString()
	if !PostgresAvailable(connStr) {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
	return connStr
}

// TestDatabase creates an empty database for the test and returns its
// connection string. It skips the test when PostgreSQL is not available.
// The database is dropped when the test passes and kept for diagnosis
// when it fails.
func TestDatabase(t *testing.T, suite string) string {
	t.Helper()

	serverConnStr := SkipIfNoPostgres(t)
	dbName := databaseName(t, suite)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, serverConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	ident := pgx.Identifier{dbName}.Sanitize()
	if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
		t.Fatalf("Failed to drop existing test database: %v", err)
	}
	if _, err := pool.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("Test failed - keeping database %s for diagnostics", dbName)
			return
		}
		dropDatabase(t, serverConnStr, dbName)
	})

	connStr, err := withDatabase(serverConnStr, dbName)
	if err != nil {
		t.Fatalf("Failed to build test connection string: %v", err)
	}
	return connStr
}

// ConnectTestDB opens a pool on a test database and closes it when the
// test ends.
func ConnectTestDB(t *testing.T, connStr string) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func databaseName(t *testing.T, suite string) string {
	t.Helper()

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("Failed to generate random database name: %v", err)
	}
	return TestDBPrefix + suite + "_" + hex.EncodeToString(randomBytes)
}

// withDatabase points a postgres:// URL at another database, keeping the
// host, credentials and parameters.
func withDatabase(connStr, dbName string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("PGEDGE_TEST_CONN must be a postgres:// URL, got %q", u.Scheme)
	}
	u.Path = "/" + dbName
	return u.String(), nil
}

func dropDatabase(t *testing.T, serverConnStr, dbName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, serverConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer pool.Close()

	// Terminate connections left open by the test
	_, _ = pool.Exec(ctx, `
        SELECT pg_terminate_backend(pid)
        FROM pg_stat_activity
        WHERE datname = $1 AND pid <> pg_backend_pid()
    `, dbName)

	if _, err := pool.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}
