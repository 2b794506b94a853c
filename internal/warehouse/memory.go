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
	"sync"
)

func init() {
	Register("memory", func(context.Context, string) (Store, error) {
		return NewMemoryStore(), nil
	})
}

type memTable struct {
	def  TableDef
	rows map[string][]any
}

// MemoryStore keeps the warehouse in process. It enforces primary keys
// but not foreign keys.
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string]*memTable
	metadata map[string]string
}

// NewMemoryStore returns an empty store with no schema.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string]*memTable),
		metadata: make(map[string]string),
	}
}

// CreateSchema implements Store.
func (m *MemoryStore) CreateSchema(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, def := range Tables {
		if _, ok := m.tables[def.Name]; !ok {
			m.tables[def.Name] = &memTable{def: def, rows: make(map[string][]any)}
		}
	}
	return nil
}

// DropSchema implements Store.
func (m *MemoryStore) DropSchema(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables = make(map[string]*memTable)
	m.metadata = make(map[string]string)
	return nil
}

// InsertIfAbsent implements Store.
func (m *MemoryStore) InsertIfAbsent(_ context.Context, batch Batch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[batch.Table.Name]
	if !ok {
		return 0, fmt.Errorf("table %s does not exist", batch.Table.Name)
	}

	keyIdx := -1
	for i, c := range batch.Columns {
		if c == t.def.Key() {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return 0, fmt.Errorf("batch for %s has no %s column", t.def.Name, t.def.Key())
	}

	pending := make(map[string][]any)
	for _, row := range batch.Rows {
		if len(row) != len(batch.Columns) {
			return 0, fmt.Errorf("row has %d values, want %d", len(row), len(batch.Columns))
		}
		if row[keyIdx] == nil {
			return 0, fmt.Errorf("null value in %s.%s", t.def.Name, t.def.Key())
		}
		k := keyString(row[keyIdx])
		if _, exists := t.rows[k]; exists {
			continue
		}
		if _, exists := pending[k]; exists {
			continue
		}
		pending[k] = row
	}

	for k, row := range pending {
		t.rows[k] = row
	}
	return int64(len(pending)), nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context, table string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return 0, fmt.Errorf("table %s does not exist", table)
	}
	return int64(len(t.rows)), nil
}

// Row returns the stored row for a key, mapped by column name.
func (m *MemoryStore) Row(table string, key any) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return nil, false
	}
	row, ok := t.rows[keyString(key)]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(row))
	for i, c := range t.def.ColumnNames() {
		out[c] = row[i]
	}
	return out, true
}

// SaveMetadata implements Store.
func (m *MemoryStore) SaveMetadata(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range entries {
		m.metadata[k] = v
	}
	return nil
}

// Metadata implements Store.
func (m *MemoryStore) Metadata(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.metadata))
	for k, v := range m.metadata {
		out[k] = v
	}
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
