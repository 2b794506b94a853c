//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package profiles implements sales calendar profiles for the extract
// generator. A profile weights each day by its relative sales volume.
package profiles

import (
	"fmt"
	"sort"
	"time"
)

// Default is the profile used when none is configured.
const Default = "holiday-peak"

// Profile defines the interface for sales calendar profiles.
type Profile interface {
	// Name returns the profile name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Weight returns the relative sales volume of a day. 1.0 is an
	// ordinary day.
	Weight(day time.Time) float64

	// Peak returns the largest weight the profile assigns to any day.
	Peak() float64
}

var registry = make(map[string]func() Profile)

// Register adds a profile constructor to the registry.
func Register(name string, constructor func() Profile) {
	registry[name] = constructor
}

// Get retrieves a profile by name. An empty name selects Default.
func Get(name string) (Profile, error) {
	if name == "" {
		name = Default
	}
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}
	return constructor(), nil
}

// List returns all registered profile names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("flat", NewFlat)
	Register("holiday-peak", NewHolidayPeak)
	Register("weekend-retail", NewWeekendRetail)
}
