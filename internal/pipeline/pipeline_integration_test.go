//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for a full pipeline run against PostgreSQL.
// Run with: go test -tags=integration ./internal/pipeline/...
// Requires PostgreSQL to be available.
// Set PGEDGE_TEST_CONN environment variable to override connection string.

package pipeline_test

import (
	"context"
	"testing"

	"github.com/pgEdge/pgedge-retailwh/internal/datagen"
	"github.com/pgEdge/pgedge-retailwh/internal/db"
	"github.com/pgEdge/pgedge-retailwh/internal/extract"
	"github.com/pgEdge/pgedge-retailwh/internal/pipeline"
	"github.com/pgEdge/pgedge-retailwh/internal/testutil"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
)

func TestGeneratedExtractsIntegration(t *testing.T) {
	connStr := testutil.TestDatabase(t, "pipeline")
	ctx := context.Background()

	// Generate a small set of extracts
	genCfg := datagen.DefaultConfig()
	genCfg.Customers = 200
	genCfg.Transactions = 3000
	genCfg.StartDate = "2024-01-01"
	genCfg.EndDate = "2024-12-31"

	gen, err := datagen.NewGenerator(genCfg)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	ds, err := gen.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	dir := t.TempDir()
	if _, err := datagen.Write(dir, extract.DefaultFiles(), ds); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	store, err := warehouse.Open(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to open warehouse: %v", err)
	}
	defer store.Close()

	cfg := pipeline.Config{
		InputDir: dir,
		Files:    extract.DefaultFiles(),
		Load:     warehouse.LoadConfig{BatchSize: 500},
	}

	first, err := pipeline.New(store, cfg).Run(ctx)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	facts, err := store.Count(ctx, "fact_sales")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if facts != int64(len(first.Clean.Transactions)) {
		t.Errorf("Expected %d facts, got %d", len(first.Clean.Transactions), facts)
	}

	// A second run inserts nothing
	second, err := pipeline.New(store, cfg).Run(ctx)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	for _, tr := range second.Load.Tables {
		if tr.Inserted != 0 {
			t.Errorf("Expected no inserts into %s on rerun, got %d", tr.Table, tr.Inserted)
		}
	}

	// Metadata is readable through the pool helpers as well
	pool := testutil.ConnectTestDB(t, connStr)

	meta, err := db.GetAllMetadata(ctx, pool)
	if err != nil {
		t.Fatalf("GetAllMetadata failed: %v", err)
	}
	if meta[pipeline.MetaLastRunID] != second.RunID {
		t.Errorf("Expected last_run_id %s, got %s", second.RunID, meta[pipeline.MetaLastRunID])
	}
	if meta[pipeline.MetaLastRunStatus] != pipeline.StatusComplete {
		t.Errorf("Expected status %s, got %s", pipeline.StatusComplete, meta[pipeline.MetaLastRunStatus])
	}
}
