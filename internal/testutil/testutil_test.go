//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package testutil

import (
	"strings"
	"testing"
)

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name    string
		connStr string
		want    string
		wantErr bool
	}{
		{
			name:    "no password",
			connStr: "postgres://postgres@localhost:5432/postgres",
			want:    "postgres://postgres@localhost:5432/retailwh_test_x",
		},
		{
			name:    "password and params",
			connStr: "postgresql://user:secret@db:5433/postgres?sslmode=disable",
			want:    "postgresql://user:secret@db:5433/retailwh_test_x?sslmode=disable",
		},
		{
			name:    "keyword form",
			connStr: "host=localhost dbname=postgres",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withDatabase(tt.connStr, "retailwh_test_x")
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDatabaseName(t *testing.T) {
	a := databaseName(t, "suite")
	b := databaseName(t, "suite")

	if !strings.HasPrefix(a, TestDBPrefix+"suite_") {
		t.Errorf("Expected prefix %ssuite_, got %s", TestDBPrefix, a)
	}
	if a == b {
		t.Errorf("Expected distinct names, got %s twice", a)
	}
}

func TestServerConnString(t *testing.T) {
	t.Setenv("PGEDGE_TEST_CONN", "")
	if got := ServerConnString(); got != DefaultTestConnString {
		t.Errorf("Expected default %s, got %s", DefaultTestConnString, got)
	}

	t.Setenv("PGEDGE_TEST_CONN", "postgres://other@db:5432/postgres")
	if got := ServerConnString(); got != "postgres://other@db:5432/postgres" {
		t.Errorf("Expected override, got %s", got)
	}
}
