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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressSeparatesFailedFromSkipped(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(zerolog.New(&buf), "fact_sales", 7, 0)

	p.Update(2, 1)
	p.Fail(3)
	p.Update(2, 2)
	assert.Equal(t, int64(1), p.Skipped())

	p.Done()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "warn", event["level"])
	assert.Equal(t, 7.0, event["rows"])
	assert.Equal(t, 3.0, event["inserted"])
	assert.Equal(t, 1.0, event["skipped"])
	assert.Equal(t, 3.0, event["failed"])
}

func TestProgressIntervalReports(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(zerolog.New(&buf), "dim_products", 10, 4)

	p.Update(3, 3)
	assert.Zero(t, buf.Len(), "no report before the first interval")
	p.Fail(3)
	assert.Contains(t, buf.String(), `"rows":6`)
}
