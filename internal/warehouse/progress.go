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
	"github.com/rs/zerolog"
)

// ProgressReporter tracks and reports load progress for one table.
type ProgressReporter struct {
	log              zerolog.Logger
	tableName        string
	totalRows        int64
	currentRow       int64
	inserted         int64
	failed           int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter. An interval of zero
// or less disables intermediate reports.
func NewProgressReporter(log zerolog.Logger, tableName string, totalRows, interval int64) *ProgressReporter {
	return &ProgressReporter{
		log:              log,
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update records a committed batch and logs if an interval was crossed.
func (p *ProgressReporter) Update(attempted, inserted int64) {
	p.inserted += inserted
	p.advance(attempted)
}

// Fail records a rolled back batch.
func (p *ProgressReporter) Fail(attempted int64) {
	p.failed += attempted
	p.advance(attempted)
}

func (p *ProgressReporter) advance(attempted int64) {
	oldRow := p.currentRow
	p.currentRow += attempted

	if p.progressInterval <= 0 {
		return
	}
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		p.log.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Loading table")
	}
}

// Skipped returns the rows of committed batches that were already present.
func (p *ProgressReporter) Skipped() int64 {
	return p.currentRow - p.inserted - p.failed
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	ev := p.log.Info()
	if p.failed > 0 {
		ev = p.log.Warn()
	}
	ev.Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Int64("inserted", p.inserted).
		Int64("skipped", p.Skipped()).
		Int64("failed", p.failed).
		Msg("Table complete")
}
