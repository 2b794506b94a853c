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
	"sort"
	"strings"
	"sync"
)

// Opener opens a store from a connection string.
type Opener func(ctx context.Context, conn string) (Store, error)

var (
	registry = make(map[string]Opener)
	mu       sync.RWMutex
)

// Register adds a backend for a connection string scheme.
func Register(scheme string, open Opener) {
	mu.Lock()
	defer mu.Unlock()
	registry[scheme] = open
}

// Open opens the backend selected by the scheme of conn, such as
// postgres://, sqlite:// or memory://.
func Open(ctx context.Context, conn string) (Store, error) {
	scheme, _, ok := strings.Cut(conn, "://")
	if !ok {
		return nil, fmt.Errorf("connection string has no scheme: %q", conn)
	}

	mu.RLock()
	open, ok := registry[scheme]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown warehouse backend: %s", scheme)
	}
	return open(ctx, conn)
}

// Schemes returns all registered schemes in sorted order.
func Schemes() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
