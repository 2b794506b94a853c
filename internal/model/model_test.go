//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearMonth(t *testing.T) {
	jan := MonthOf(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	dec := MonthOf(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	mar := MonthOf(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-01", jan.String())
	assert.Equal(t, 1, jan.Sub(dec))
	assert.Equal(t, 14, mar.Sub(jan))
	assert.Equal(t, 0, jan.Sub(jan))
	assert.True(t, dec.Before(jan))
	assert.False(t, jan.Before(jan))
}
