//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package profiles

import "time"

// HolidayWeight is the relative sales volume of November and December.
const HolidayWeight = 1.5

// WeekendWeight is the relative sales volume of a weekend day in the
// weekend-retail profile.
const WeekendWeight = 1.2

// Flat spreads sales evenly over every day.
type Flat struct{}

// NewFlat creates a new Flat profile.
func NewFlat() Profile {
	return Flat{}
}

func (Flat) Name() string {
	return "flat"
}

func (Flat) Description() string {
	return "Even sales on every day"
}

func (Flat) Weight(time.Time) float64 {
	return 1.0
}

func (Flat) Peak() float64 {
	return 1.0
}

// HolidayPeak simulates a retail year with a holiday season.
// January - October: 100%
// November - December: 150%
type HolidayPeak struct{}

// NewHolidayPeak creates a new HolidayPeak profile.
func NewHolidayPeak() Profile {
	return HolidayPeak{}
}

func (HolidayPeak) Name() string {
	return "holiday-peak"
}

func (HolidayPeak) Description() string {
	return "Retail year with a November/December peak"
}

func (HolidayPeak) Weight(day time.Time) float64 {
	if isHolidaySeason(day) {
		return HolidayWeight
	}
	return 1.0
}

func (HolidayPeak) Peak() float64 {
	return HolidayWeight
}

// WeekendRetail simulates a high street store.
// Weekday: 100%
// Weekend: 120% of weekday
// November - December: 150% on top of the weekday/weekend level
type WeekendRetail struct{}

// NewWeekendRetail creates a new WeekendRetail profile.
func NewWeekendRetail() Profile {
	return WeekendRetail{}
}

func (WeekendRetail) Name() string {
	return "weekend-retail"
}

func (WeekendRetail) Description() string {
	return "Store traffic peaking on weekends and in the holiday season"
}

func (WeekendRetail) Weight(day time.Time) float64 {
	base := 1.0
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		base = WeekendWeight
	}
	if isHolidaySeason(day) {
		base *= HolidayWeight
	}
	return base
}

func (WeekendRetail) Peak() float64 {
	return WeekendWeight * HolidayWeight
}

func isHolidaySeason(day time.Time) bool {
	return day.Month() == time.November || day.Month() == time.December
}
