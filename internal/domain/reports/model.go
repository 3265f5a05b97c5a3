// Package reports provides read-only sales and debt analytics.
package reports

import (
	"time"

	"almacen/internal/core/id"
	"almacen/internal/core/types"
)

// DateRange bounds a report query. Both ends are inclusive of the day they
// fall on; zero values mean unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Today returns a range covering the current calendar day in loc.
func Today(loc *time.Location) DateRange {
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return DateRange{From: start, To: start.Add(24 * time.Hour)}
}

// SalesSummary aggregates sales over a range, split by payment method.
type SalesSummary struct {
	Count       int64       `db:"count" json:"count"`
	Total       types.Money `db:"total" json:"total"`
	CashTotal   types.Money `db:"cash_total" json:"cashTotal"`
	CreditTotal types.Money `db:"credit_total" json:"creditTotal"`
}

// AverageTicket returns Total/Count, zero when there were no sales.
func (s SalesSummary) AverageTicket() types.Money {
	if s.Count == 0 {
		return types.Zero()
	}
	return s.Total.Div(types.FromInt(s.Count))
}

// DailySales is one day's aggregate in a by-day series.
type DailySales struct {
	Day   time.Time   `db:"day" json:"day"`
	Count int64       `db:"count" json:"count"`
	Total types.Money `db:"total" json:"total"`
}

// TopProduct is one row of the best-sellers report.
type TopProduct struct {
	ProductID    id.ID       `db:"product_id" json:"productId"`
	ProductName  string      `db:"product_name" json:"productName"`
	QuantitySold int64       `db:"quantity_sold" json:"quantitySold"`
	Revenue      types.Money `db:"revenue" json:"revenue"`
}

// CategorySales is one row of the sales-by-category report. Uncategorized
// products aggregate under the zero category ID.
type CategorySales struct {
	CategoryID   id.ID       `db:"category_id" json:"categoryId,omitempty"`
	CategoryName string      `db:"category_name" json:"categoryName"`
	Count        int64       `db:"count" json:"count"`
	Total        types.Money `db:"total" json:"total"`
}
