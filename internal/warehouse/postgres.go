//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-retailwh/internal/db"
)

// postgresMaxParams is the bind parameter limit of the wire protocol.
const postgresMaxParams = 65535

func init() {
	open := func(ctx context.Context, conn string) (Store, error) {
		pool, err := db.Connect(ctx, conn, 0)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	}
	Register("postgres", open)
	Register("postgresql", open)
}

// PostgresStore loads the warehouse into PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. Close closes the pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying pool.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// CreateSchema implements Store.
func (s *PostgresStore) CreateSchema(ctx context.Context) error {
	for _, stmt := range SchemaStatements() {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropSchema implements Store.
func (s *PostgresStore) DropSchema(ctx context.Context) error {
	for _, stmt := range DropStatements(true) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	return db.DropMetadata(ctx, s.pool)
}

// InsertIfAbsent implements Store. Batches wider than the parameter limit
// are sent as several statements in the same transaction.
func (s *PostgresStore) InsertIfAbsent(ctx context.Context, batch Batch) (int64, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var inserted int64
	for _, rows := range chunkRows(batch.Rows, len(batch.Columns), postgresMaxParams) {
		sql := postgresInsertSQL(batch.Table.Name, batch.Columns, len(rows), batch.Table.Key())
		args := make([]any, 0, len(rows)*len(batch.Columns))
		for _, row := range rows {
			args = append(args, row...)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return 0, err
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&n)
	return n, err
}

// SaveMetadata implements Store.
func (s *PostgresStore) SaveMetadata(ctx context.Context, entries map[string]string) error {
	return db.SaveMetadata(ctx, s.pool, entries)
}

// Metadata implements Store.
func (s *PostgresStore) Metadata(ctx context.Context) (map[string]string, error) {
	return db.GetAllMetadata(ctx, s.pool)
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// postgresInsertSQL builds a parameterized multi-row insert that skips
// rows whose key already exists.
func postgresInsertSQL(table string, columns []string, rows int, key string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
	p := 1
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", p)
			p++
		}
		b.WriteByte(')')
	}
	fmt.Fprintf(&b, " ON CONFLICT (%s) DO NOTHING", key)
	return b.String()
}

// chunkRows splits rows so no chunk binds more than limit parameters.
func chunkRows(rows [][]any, width, limit int) [][][]any {
	per := len(rows)
	if width > 0 {
		per = max(limit/width, 1)
	}
	var chunks [][][]any
	for start := 0; start < len(rows); start += per {
		end := min(start+per, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}
