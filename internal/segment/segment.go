//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package segment computes RFM scores and purchase cohorts.
package segment

import (
	"sort"

	"github.com/pgEdge/pgedge-retailwh/internal/logging"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// Result is the output of the segmentation stage.
type Result struct {
	RFM     []model.RFMRecord
	Cohorts *Cohorts
}

// Run scores and cohorts the given sales.
func Run(sales []model.Sale) *Result {
	log := logging.With("segment")

	res := &Result{
		RFM:     RFM(sales),
		Cohorts: AssignCohorts(sales),
	}

	dist := ScoreDistribution(res.RFM)
	scores := make([]string, 0, len(dist))
	for s := range dist {
		scores = append(scores, s)
	}
	sort.Slice(scores, func(i, j int) bool {
		if dist[scores[i]] != dist[scores[j]] {
			return dist[scores[i]] > dist[scores[j]]
		}
		return scores[i] < scores[j]
	})
	for i, s := range scores {
		if i == 10 {
			break
		}
		log.Debug().Str("rfm_score", s).Int("customers", dist[s]).Msg("RFM segment")
	}

	log.Info().
		Int("customers", len(res.RFM)).
		Int("segments", len(dist)).
		Int("cohorts", len(res.Cohorts.Retention)).
		Int("max_period", res.Cohorts.MaxPeriod).
		Msg("Segmented customers")

	return res
}
