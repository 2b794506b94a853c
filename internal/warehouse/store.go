//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse loads the star schema into a relational store.
package warehouse

import (
	"context"
	"fmt"
)

// Batch is a set of rows bound for one table. Each row holds one value per
// column, in the order of Columns.
type Batch struct {
	Table   TableDef
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows in the batch.
func (b Batch) Len() int {
	return len(b.Rows)
}

// Store is a warehouse backend.
type Store interface {
	// CreateSchema creates every table and index that does not exist.
	CreateSchema(ctx context.Context) error

	// DropSchema drops every table, including metadata.
	DropSchema(ctx context.Context) error

	// InsertIfAbsent writes the batch in a single transaction. Rows whose
	// primary key is already present, in the table or earlier in the same
	// batch, are skipped. It returns the number of rows written. On error
	// nothing from the batch is kept.
	InsertIfAbsent(ctx context.Context, batch Batch) (int64, error)

	// Count returns the number of rows in a table.
	Count(ctx context.Context, table string) (int64, error)

	// SaveMetadata upserts key/value metadata.
	SaveMetadata(ctx context.Context, entries map[string]string) error

	// Metadata returns all metadata. An uninitialized store returns an
	// empty map.
	Metadata(ctx context.Context) (map[string]string, error)

	// Close releases the store's connections.
	Close() error
}

// keyString normalizes a key value so stores compare integer keys of any
// width alike.
func keyString(v any) string {
	return fmt.Sprint(v)
}
