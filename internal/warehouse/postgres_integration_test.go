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

// Integration tests for the PostgreSQL store.
// Run with: go test -tags=integration ./internal/warehouse/...
// Requires PostgreSQL to be available.
// Set PGEDGE_TEST_CONN environment variable to override connection string.

package warehouse_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-retailwh/internal/datedim"
	"github.com/pgEdge/pgedge-retailwh/internal/db"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
	"github.com/pgEdge/pgedge-retailwh/internal/testutil"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
)

func integrationInput() warehouse.Input {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	margin := 40.0
	return warehouse.Input{
		Products: []model.ProductFeatures{{
			Product:        model.Product{ProductID: 1, ProductName: "Laptop", Category: "Electronics", UnitCost: 600, UnitPrice: 1000},
			MarginPct:      &margin,
			MarginCategory: "Medium Margin",
		}},
		Stores: []model.StoreFeatures{{
			Store: model.Store{StoreID: 1, StoreName: "Store_North_1", Region: "North", OpenedDate: &day},
		}},
		Customers: []model.CustomerFeatures{{
			Customer: model.Customer{CustomerID: 1, CustomerName: "Customer_1", CustomerSegment: "VIP"},
		}},
		Dates: datedim.Build(day, day.AddDate(0, 0, 1)),
		Sales: []model.Sale{
			{
				Transaction: model.Transaction{
					TransactionID: 1, TransactionDate: day, StoreID: 1, CustomerID: 1, ProductID: 1,
					Quantity: 1, UnitPrice: 1000, TotalAmount: 1000, TotalCost: 600, Profit: 400,
					PaymentMethod: "Cash",
				},
				DateKey: datedim.Key(day), Year: 2024, Month: 3, Quarter: 1,
				ProfitMarginPct: &margin, TransactionSize: "Very Large",
			},
			{
				Transaction: model.Transaction{
					TransactionID: 2, TransactionDate: day, StoreID: 1, CustomerID: 42, ProductID: 1,
					Quantity: 1, TotalAmount: 0,
				},
				DateKey: datedim.Key(day),
			},
		},
	}
}

func TestPostgresLoadIntegration(t *testing.T) {
	connStr := testutil.TestDatabase(t, "warehouse")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := warehouse.Open(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to open warehouse: %v", err)
	}
	defer store.Close()

	if err := store.CreateSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	loader := warehouse.NewLoader(store, warehouse.LoadConfig{BatchSize: 1}, nil)
	in := integrationInput()

	// The second sale references a missing customer and fails its batch.
	res, err := loader.Load(ctx, in)
	var batchErr *warehouse.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("Expected BatchError, got %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].FirstKey != "2" {
		t.Errorf("Expected one failure for transaction 2, got %v", res.Failures)
	}

	// Reload is a no-op for rows already present.
	res, _ = loader.Load(ctx, in)
	for _, tr := range res.Tables {
		if tr.Inserted != 0 {
			t.Errorf("Expected no inserts on reload of %s, got %d", tr.Table, tr.Inserted)
		}
	}

	n, err := store.Count(ctx, "fact_sales")
	if err != nil {
		t.Fatalf("Failed to count facts: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 fact row, got %d", n)
	}

	if err := store.SaveMetadata(ctx, map[string]string{"version": "test"}); err != nil {
		t.Fatalf("Failed to save metadata: %v", err)
	}
	md, err := store.Metadata(ctx)
	if err != nil || md["version"] != "test" {
		t.Errorf("Expected metadata version=test, got %v (%v)", md, err)
	}

	pg, ok := store.(*warehouse.PostgresStore)
	if !ok {
		t.Fatalf("Expected *PostgresStore, got %T", store)
	}
	if err := store.SaveMetadata(ctx, map[string]string{"version": "test-2"}); err != nil {
		t.Fatalf("Failed to update metadata: %v", err)
	}
	version, err := db.GetMetadataValue(ctx, pg.Pool(), "version")
	if err != nil {
		t.Fatalf("Failed to read metadata value: %v", err)
	}
	if version != "test-2" {
		t.Errorf("Expected upserted version test-2, got %s", version)
	}

	if err := store.DropSchema(ctx); err != nil {
		t.Fatalf("Failed to drop schema: %v", err)
	}
}
