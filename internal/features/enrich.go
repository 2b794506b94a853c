//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package features

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-retailwh/internal/datedim"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

// Transaction size thresholds on total_amount.
const (
	SmallLimit  = 50
	MediumLimit = 200
	LargeLimit  = 500
)

var hundred = decimal.NewFromInt(100)

// Season maps a month to its meteorological season.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

// TransactionSize buckets a transaction by its total amount.
func TransactionSize(amount float64) string {
	switch {
	case amount < SmallLimit:
		return "Small"
	case amount < MediumLimit:
		return "Medium"
	case amount < LargeLimit:
		return "Large"
	default:
		return "Very Large"
	}
}

// ProfitMarginPct returns profit/total*100 rounded to cents, or nil when
// total is zero.
func ProfitMarginPct(profit, total float64) *float64 {
	if total == 0 {
		return nil
	}
	return roundFloat2(profit / total * 100)
}

// RevenuePerUnit returns total/quantity rounded to cents, or nil when
// quantity is zero.
func RevenuePerUnit(total float64, quantity int64) *float64 {
	if quantity == 0 {
		return nil
	}
	return roundFloat2(total / float64(quantity))
}

// Enrich derives the temporal and financial attributes of every transaction.
func Enrich(txs []model.Transaction) []model.Sale {
	sales := make([]model.Sale, len(txs))
	for i, tx := range txs {
		d := tx.TransactionDate
		_, week := d.ISOWeek()
		dow := datedim.Weekday(d)

		sales[i] = model.Sale{
			Transaction:     tx,
			DateKey:         datedim.Key(d),
			Year:            d.Year(),
			Month:           int(d.Month()),
			MonthName:       d.Month().String(),
			Quarter:         datedim.Quarter(d),
			DayOfWeek:       dow,
			DayName:         d.Weekday().String(),
			WeekOfYear:      week,
			IsWeekend:       dow >= 5,
			Season:          Season(d.Month()),
			ProfitMarginPct: ProfitMarginPct(tx.Profit, tx.TotalAmount),
			DiscountGiven:   tx.DiscountPct > 0,
			RevenuePerUnit:  RevenuePerUnit(tx.TotalAmount, tx.Quantity),
			TransactionSize: TransactionSize(tx.TotalAmount),
		}
	}
	return sales
}

// roundFloat2 scales by 100, rounds half to even and scales back, so ties
// fall wherever the binary value of the scaled float lands.
func roundFloat2(f float64) *float64 {
	r := math.RoundToEven(f*100) / 100
	return &r
}

func round2(d decimal.Decimal) *float64 {
	f := d.RoundBank(2).InexactFloat64()
	return &f
}

func ratio(num decimal.Decimal, den int64) *float64 {
	if den == 0 {
		return nil
	}
	f := num.Div(decimal.NewFromInt(den)).InexactFloat64()
	return &f
}
