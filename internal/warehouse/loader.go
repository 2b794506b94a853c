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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// ErrDimensionIncomplete is returned when a dimension batch failed and the
// fact stage was skipped.
var ErrDimensionIncomplete = errors.New("dimension load incomplete, facts not loaded")

// LoadConfig configures batched loading.
type LoadConfig struct {
	// BatchSize is the number of rows per transaction.
	BatchSize int `mapstructure:"batch_size"`

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64 `mapstructure:"progress_interval"`

	// SkipFacts loads the dimensions only.
	SkipFacts bool `mapstructure:"skip_facts"`
}

// DefaultLoadConfig returns default load configuration.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		BatchSize:        1000,
		ProgressInterval: 10000,
	}
}

// Input is everything the loader writes.
type Input struct {
	Products  []model.ProductFeatures
	Stores    []model.StoreFeatures
	Customers []model.CustomerFeatures
	Dates     []model.DateDimRow
	Sales     []model.Sale
}

// BatchFailure describes one rolled back batch. Rows are zero-based
// offsets into the table's input; keys are the primary keys at either end.
type BatchFailure struct {
	Table    string
	FirstRow int
	LastRow  int
	FirstKey string
	LastKey  string
	Err      error
}

func (f BatchFailure) String() string {
	return fmt.Sprintf("%s rows %d-%d (keys %s..%s): %v",
		f.Table, f.FirstRow, f.LastRow, f.FirstKey, f.LastKey, f.Err)
}

// BatchError reports the fact batches that failed to load.
type BatchError struct {
	Failures []BatchFailure
}

func (e *BatchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%d batch(es) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the underlying batch errors.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// TableResult summarizes the load of one table.
type TableResult struct {
	Table      string
	Attempted  int64
	Inserted   int64
	FailedRows int64
	Batches    int
	Failed     int
}

// Skipped returns the rows of committed batches that were already present.
func (t TableResult) Skipped() int64 {
	return t.Attempted - t.Inserted - t.FailedRows
}

// Result summarizes a load.
type Result struct {
	Tables       []TableResult
	Failures     []BatchFailure
	FactsSkipped bool
}

// Table returns the result for the named table.
func (r *Result) Table(name string) (TableResult, bool) {
	for _, t := range r.Tables {
		if t.Table == name {
			return t, true
		}
	}
	return TableResult{}, false
}

// Loader writes the star schema into a Store.
type Loader struct {
	store   Store
	cfg     LoadConfig
	metrics *Metrics
}

// NewLoader creates a loader. metrics may be nil.
func NewLoader(store Store, cfg LoadConfig, metrics *Metrics) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultLoadConfig().BatchSize
	}
	return &Loader{store: store, cfg: cfg, metrics: metrics}
}

// Load writes the dimensions and then the facts. Failed batches are
// recorded and loading continues; the facts are skipped when any dimension
// batch failed. The result is returned even when err is non-nil.
//
// err is ErrDimensionIncomplete (wrapped) when facts were skipped, a
// *BatchError when fact batches failed, or the context's error when the
// load was cancelled between batches.
func (l *Loader) Load(ctx context.Context, in Input) (*Result, error) {
	log := logging.With("warehouse")
	res := &Result{}

	dims := []struct {
		def  TableDef
		rows [][]any
	}{
		{DimProducts, ProductRows(in.Products)},
		{DimStores, StoreRows(in.Stores)},
		{DimCustomers, CustomerRows(in.Customers)},
		{DimDate, DateRows(in.Dates)},
	}

	for _, d := range dims {
		if err := l.loadTable(ctx, d.def, d.rows, res); err != nil {
			return res, err
		}
	}

	if len(res.Failures) > 0 {
		res.FactsSkipped = true
		log.Error().
			Int("failed_batches", len(res.Failures)).
			Msg("Dimension load incomplete, skipping facts")
		return res, fmt.Errorf("%w: %d batch(es) failed", ErrDimensionIncomplete, len(res.Failures))
	}

	if l.cfg.SkipFacts {
		res.FactsSkipped = true
		log.Info().Msg("Skipping fact load")
		return res, nil
	}

	if err := l.loadTable(ctx, FactSales, SaleRows(in.Sales), res); err != nil {
		return res, err
	}
	if len(res.Failures) > 0 {
		return res, &BatchError{Failures: res.Failures}
	}
	return res, nil
}

// loadTable writes rows in batches. It returns an error only when the
// context is cancelled; batch errors are recorded in res.
func (l *Loader) loadTable(ctx context.Context, def TableDef, rows [][]any, res *Result) error {
	log := logging.With("warehouse")
	tr := TableResult{Table: def.Name}
	progress := NewProgressReporter(log, def.Name, int64(len(rows)), l.cfg.ProgressInterval)
	columns := def.ColumnNames()

	defer func() {
		res.Tables = append(res.Tables, tr)
	}()

	for start := 0; start < len(rows); start += l.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			log.Warn().
				Str("table", def.Name).
				Int("next_row", start).
				Msg("Load cancelled")
			return err
		}

		end := min(start+l.cfg.BatchSize, len(rows))
		batch := Batch{Table: def, Columns: columns, Rows: rows[start:end]}

		began := time.Now()
		// A started batch runs to commit or rollback.
		inserted, err := l.store.InsertIfAbsent(context.WithoutCancel(ctx), batch)
		attempted := int64(batch.Len())
		l.metrics.observe(def.Name, attempted, inserted, time.Since(began), err != nil)

		tr.Attempted += attempted
		if err != nil {
			failure := BatchFailure{
				Table:    def.Name,
				FirstRow: start,
				LastRow:  end - 1,
				FirstKey: keyString(batch.Rows[0][0]),
				LastKey:  keyString(batch.Rows[batch.Len()-1][0]),
				Err:      err,
			}
			res.Failures = append(res.Failures, failure)
			tr.Failed++
			tr.FailedRows += attempted
			log.Error().
				Err(err).
				Str("table", def.Name).
				Int("first_row", failure.FirstRow).
				Int("last_row", failure.LastRow).
				Str("first_key", failure.FirstKey).
				Str("last_key", failure.LastKey).
				Msg("Batch failed, rolled back")
			progress.Fail(attempted)
			continue
		}

		tr.Inserted += inserted
		tr.Batches++
		progress.Update(attempted, inserted)
	}

	progress.Done()
	return nil
}
