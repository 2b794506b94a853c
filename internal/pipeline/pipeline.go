//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the stages of a warehouse load in order: extract,
// validate, features, segments, date dimension, load and export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pgEdge/pgedge-retailwh/internal/datedim"
	"github.com/pgEdge/pgedge-retailwh/internal/export"
	"github.com/pgEdge/pgedge-retailwh/internal/extract"
	"github.com/pgEdge/pgedge-retailwh/internal/features"
	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
	"github.com/pgEdge/pgedge-retailwh/internal/segment"
	"github.com/pgEdge/pgedge-retailwh/internal/validate"
	"github.com/pgEdge/pgedge-retailwh/internal/warehouse"
	"github.com/pgEdge/pgedge-retailwh/pkg/version"
)

// Metadata keys recorded in the warehouse.
const (
	MetaVersion       = "version"
	MetaInitializedAt = "initialized_at"
	MetaLastRunID     = "last_run_id"
	MetaLastRunAt     = "last_run_at"
	MetaLastRunStatus = "last_run_status"
)

// Run statuses stored under MetaLastRunStatus.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
)

// Config configures a pipeline run.
type Config struct {
	InputDir string
	Files    extract.Files
	Policy   validate.Policy
	Load     warehouse.LoadConfig

	// DropExisting drops the warehouse tables before loading.
	DropExisting bool

	Export export.Config

	// MetricsTextfile receives the run's metrics. Empty disables it.
	MetricsTextfile string
}

// Result holds the output of every stage that ran.
type Result struct {
	RunID    string
	Clean    *validate.Result
	Features *features.Set
	Segments *segment.Result
	Dates    []model.DateDimRow
	Load     *warehouse.Result
	Exported []string
	Elapsed  time.Duration
}

// Pipeline loads one set of extracts into a store.
type Pipeline struct {
	cfg     Config
	store   warehouse.Store
	metrics *warehouse.Metrics

	stageSeconds *prometheus.GaugeVec
	lastRun      prometheus.Gauge
}

// New returns a pipeline writing to store. The caller owns the store.
func New(store warehouse.Store, cfg Config) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		store:   store,
		metrics: warehouse.NewMetrics(),
		stageSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "retailwh",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage in the last run.",
		}, []string{"stage"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "retailwh",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	p.metrics.Register(p.stageSeconds, p.lastRun)
	return p
}

// Metrics returns the metrics collected by the pipeline's runs.
func (p *Pipeline) Metrics() *warehouse.Metrics {
	return p.metrics
}

// Run executes every stage. A report blocked by the validation policy
// stops the run before anything is written. Batch failures are returned
// after export and metadata are written; cancellation returns at once.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logging.SetRunID(res.RunID)
	log := logging.With("pipeline")

	log.Info().
		Str("input_dir", p.cfg.InputDir).
		Int("batch_size", p.cfg.Load.BatchSize).
		Msg("Starting pipeline run")

	if err := p.stage("validate", func() (err error) {
		res.Clean, err = Validate(ctx, p.cfg.InputDir, p.cfg.Files, p.cfg.Policy)
		return err
	}); err != nil {
		return res, err
	}

	p.timed("features", func() {
		res.Features = features.Build(res.Clean)
	})

	p.timed("segment", func() {
		res.Segments = segment.Run(res.Features.Sales)
	})

	p.timed("datedim", func() {
		res.Dates = DateDimension(res.Clean.Transactions)
	})

	if err := p.stage("schema", func() error {
		return PrepareSchema(ctx, p.store, p.cfg.DropExisting)
	}); err != nil {
		return res, err
	}

	var loadErr error
	p.timed("load", func() {
		loader := warehouse.NewLoader(p.store, p.cfg.Load, p.metrics)
		res.Load, loadErr = loader.Load(ctx, warehouse.Input{
			Products:  res.Features.Products,
			Stores:    res.Features.Stores,
			Customers: res.Features.Customers,
			Dates:     res.Dates,
			Sales:     res.Features.Sales,
		})
	})
	if loadErr != nil && !isBatchFailure(loadErr) {
		p.writeMetrics()
		return res, fmt.Errorf("failed to load warehouse: %w", loadErr)
	}

	if p.cfg.Export.Enabled() {
		if err := p.stage("export", func() (err error) {
			res.Exported, err = export.Write(p.cfg.Export, export.Input{
				Features: res.Features,
				Segments: res.Segments,
				Report:   &res.Clean.Report,
			})
			return err
		}); err != nil {
			return res, fmt.Errorf("failed to export features: %w", err)
		}
	}

	status := StatusComplete
	if loadErr != nil {
		status = StatusPartial
	}
	if err := p.recordRun(ctx, res.RunID, status); err != nil {
		return res, err
	}

	res.Elapsed = time.Since(start)
	p.lastRun.SetToCurrentTime()
	p.writeMetrics()
	p.summarize(res, status)

	return res, loadErr
}

// stage runs fn and records its wall time.
func (p *Pipeline) stage(name string, fn func() error) error {
	var err error
	p.timed(name, func() { err = fn() })
	return err
}

// timed runs a stage that cannot fail and records its wall time.
func (p *Pipeline) timed(name string, fn func()) {
	start := time.Now()
	fn()
	p.stageSeconds.WithLabelValues(name).Set(time.Since(start).Seconds())
}

func (p *Pipeline) recordRun(ctx context.Context, runID, status string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	entries := map[string]string{
		MetaVersion:       version.Short(),
		MetaLastRunID:     runID,
		MetaLastRunAt:     now,
		MetaLastRunStatus: status,
	}

	existing, err := p.store.Metadata(ctx)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	if existing[MetaInitializedAt] == "" {
		entries[MetaInitializedAt] = now
	}

	if err := p.store.SaveMetadata(ctx, entries); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func (p *Pipeline) writeMetrics() {
	if p.cfg.MetricsTextfile == "" {
		return
	}
	if err := p.metrics.WriteTextfile(p.cfg.MetricsTextfile); err != nil {
		logging.Warn().
			Err(err).
			Str("path", p.cfg.MetricsTextfile).
			Msg("Failed to write metrics textfile")
		return
	}
	logging.Debug().Str("path", p.cfg.MetricsTextfile).Msg("Wrote metrics textfile")
}

func (p *Pipeline) summarize(res *Result, status string) {
	log := logging.With("pipeline")

	for _, t := range res.Load.Tables {
		log.Info().
			Str("table", t.Table).
			Int64("attempted", t.Attempted).
			Int64("inserted", t.Inserted).
			Int64("skipped", t.Skipped()).
			Int64("failed_rows", t.FailedRows).
			Int("batches", t.Batches).
			Int("failed_batches", t.Failed).
			Msg("Table summary")
	}

	log.Info().
		Str("status", status).
		Dur("duration", res.Elapsed).
		Int("transactions", len(res.Clean.Transactions)).
		Int("customers_scored", len(res.Segments.RFM)).
		Int("dates", len(res.Dates)).
		Int("failed_batches", len(res.Load.Failures)).
		Bool("facts_skipped", res.Load.FactsSkipped).
		Int("exported_files", len(res.Exported)).
		Msg("Pipeline run complete")
}

// Validate reads and cleans the extracts, logs the report and applies the
// policy. The cleaned data is returned even when the policy blocks it.
func Validate(ctx context.Context, dir string, files extract.Files, policy validate.Policy) (*validate.Result, error) {
	raw, err := extract.ReadAll(ctx, dir, files)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracts: %w", err)
	}

	clean := validate.New().Clean(raw)
	clean.Report.Log(logging.With("validate"))

	if err := clean.Report.Check(policy); err != nil {
		return clean, err
	}
	return clean, nil
}

// DateDimension returns one row per day between the first and last
// transaction, or nil when there are none.
func DateDimension(txs []model.Transaction) []model.DateDimRow {
	from, to, ok := datedim.Span(txs)
	if !ok {
		return nil
	}
	rows := datedim.Build(from, to)
	log := logging.With("datedim")
	log.Info().
		Time("from", from).
		Time("to", to).
		Int("days", len(rows)).
		Msg("Built date dimension")
	return rows
}

// PrepareSchema creates the warehouse tables, dropping them first when
// dropExisting is set.
func PrepareSchema(ctx context.Context, store warehouse.Store, dropExisting bool) error {
	if dropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := store.DropSchema(ctx); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	logging.Debug().Msg("Creating schema")
	if err := store.CreateSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Init bootstraps an empty warehouse and records when it was initialized.
func Init(ctx context.Context, store warehouse.Store, dropExisting bool) error {
	if err := PrepareSchema(ctx, store, dropExisting); err != nil {
		return err
	}

	existing, err := store.Metadata(ctx)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	entries := map[string]string{MetaVersion: version.Short()}
	if existing[MetaInitializedAt] == "" {
		entries[MetaInitializedAt] = time.Now().UTC().Format(time.RFC3339)
	}
	if err := store.SaveMetadata(ctx, entries); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func isBatchFailure(err error) bool {
	var batchErr *warehouse.BatchError
	return errors.Is(err, warehouse.ErrDimensionIncomplete) || errors.As(err, &batchErr)
}
