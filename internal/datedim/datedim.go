//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datedim synthesizes the calendar dimension.
package datedim

import (
	"time"

	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// Key encodes the calendar date of t as YYYYMMDD.
func Key(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Weekday returns the day of week with Monday as 0 and Sunday as 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Quarter returns the calendar quarter 1-4 of t.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	return Weekday(t) >= 5
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Row builds the dimension row for the calendar date of t.
func Row(t time.Time) model.DateDimRow {
	d := Day(t)
	_, week := d.ISOWeek()
	return model.DateDimRow{
		DateKey:    Key(d),
		FullDate:   d,
		Year:       d.Year(),
		Quarter:    Quarter(d),
		Month:      int(d.Month()),
		MonthName:  d.Month().String(),
		Week:       week,
		DayOfMonth: d.Day(),
		DayOfWeek:  Weekday(d),
		DayName:    d.Weekday().String(),
		IsWeekend:  IsWeekend(d),
		IsHoliday:  false,
	}
}

// Build returns one row per calendar day in [from, to]. It returns nil when
// from is after to.
func Build(from, to time.Time) []model.DateDimRow {
	start, end := Day(from), Day(to)
	if start.After(end) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	rows := make([]model.DateDimRow, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		rows = append(rows, Row(d))
	}
	return rows
}

// Span returns the earliest and latest transaction dates. ok is false when
// there are no transactions.
func Span(txs []model.Transaction) (from, to time.Time, ok bool) {
	for i, tx := range txs {
		if i == 0 || tx.TransactionDate.Before(from) {
			from = tx.TransactionDate
		}
		if i == 0 || tx.TransactionDate.After(to) {
			to = tx.TransactionDate
		}
	}
	return from, to, len(txs) > 0
}
