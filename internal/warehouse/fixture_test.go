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
	"time"

	"github.com/pgEdge/pgedge-retailwh/internal/datedim"
	"github.com/pgEdge/pgedge-retailwh/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func testSale(id, store, customer, product int64, date time.Time, total float64) model.Sale {
	return model.Sale{
		Transaction: model.Transaction{
			TransactionID:   id,
			TransactionDate: date,
			StoreID:         store,
			CustomerID:      customer,
			ProductID:       product,
			Quantity:        1,
			UnitPrice:       total,
			TotalAmount:     total,
			TotalCost:       total / 2,
			Profit:          total / 2,
			PaymentMethod:   "Cash",
		},
		DateKey:         datedim.Key(date),
		Year:            date.Year(),
		Month:           int(date.Month()),
		MonthName:       date.Month().String(),
		Quarter:         datedim.Quarter(date),
		DayOfWeek:       datedim.Weekday(date),
		DayName:         date.Weekday().String(),
		Season:          "Winter",
		ProfitMarginPct: ptr(50.0),
		RevenuePerUnit:  ptr(total),
		TransactionSize: "Medium",
	}
}

// testInput is a small consistent star: three products, two stores, two
// customers, a week of dates and n sales over them.
func testInput(n int) Input {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	in := Input{
		Dates: datedim.Build(from, to),
	}
	for i := int64(1); i <= 3; i++ {
		in.Products = append(in.Products, model.ProductFeatures{
			Product: model.Product{
				ProductID: i, ProductName: "Product", Category: "Books",
				UnitCost: 5, UnitPrice: 10,
			},
			MarginPct:      ptr(50.0),
			MarginCategory: "High Margin",
		})
	}
	for i := int64(1); i <= 2; i++ {
		in.Stores = append(in.Stores, model.StoreFeatures{
			Store: model.Store{StoreID: i, StoreName: "Store", Region: "North", OpenedDate: ptr(from)},
		})
		in.Customers = append(in.Customers, model.CustomerFeatures{
			Customer: model.Customer{CustomerID: i, CustomerName: "Customer", CustomerSegment: "VIP"},
		})
	}
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		in.Sales = append(in.Sales, testSale(id, id%2+1, id%2+1, id%3+1, from.AddDate(0, 0, i%7), 100))
	}
	return in
}
