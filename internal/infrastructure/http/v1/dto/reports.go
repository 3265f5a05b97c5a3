package dto

import (
	"time"

	"almacen/internal/core/id"
	"almacen/internal/domain/reports"
)

// ReportRangeQuery bounds a report by business date. Dates accept
// RFC3339 or plain "2006-01-02"; missing ends mean unbounded.
type ReportRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// ToDateRange parses the query into a domain range.
func (q ReportRangeQuery) ToDateRange() (reports.DateRange, error) {
	var r reports.DateRange

	from, err := ParseOptionalDate("from", q.From)
	if err != nil {
		return r, err
	}
	to, err := ParseOptionalDate("to", q.To)
	if err != nil {
		return r, err
	}

	if from != nil {
		r.From = *from
	}
	if to != nil {
		// a bare date bound is inclusive of that whole day
		r.To = to.Add(24 * time.Hour)
	}
	return r, nil
}

// SalesSummaryResponse aggregates sales over a range.
type SalesSummaryResponse struct {
	Count         int64  `json:"count"`
	Total         string `json:"total"`
	CashTotal     string `json:"cashTotal"`
	CreditTotal   string `json:"creditTotal"`
	AverageTicket string `json:"averageTicket"`
}

// FromSalesSummary converts a domain summary to a response DTO.
func FromSalesSummary(s *reports.SalesSummary) SalesSummaryResponse {
	return SalesSummaryResponse{
		Count:         s.Count,
		Total:         s.Total.String(),
		CashTotal:     s.CashTotal.String(),
		CreditTotal:   s.CreditTotal.String(),
		AverageTicket: s.AverageTicket().String(),
	}
}

// DailySalesResponse is one day's aggregate.
type DailySalesResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
	Total string `json:"total"`
}

// FromDailySales converts a by-day series.
func FromDailySales(items []*reports.DailySales) []DailySalesResponse {
	out := make([]DailySalesResponse, 0, len(items))
	for _, d := range items {
		out = append(out, DailySalesResponse{
			Day:   d.Day.Format("2006-01-02"),
			Count: d.Count,
			Total: d.Total.String(),
		})
	}
	return out
}

// TopProductResponse is one row of the best-sellers report.
type TopProductResponse struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	QuantitySold int64  `json:"quantitySold"`
	Revenue      string `json:"revenue"`
}

// FromTopProducts converts the best-sellers rows.
func FromTopProducts(items []*reports.TopProduct) []TopProductResponse {
	out := make([]TopProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, TopProductResponse{
			ProductID:    p.ProductID.String(),
			ProductName:  p.ProductName,
			QuantitySold: p.QuantitySold,
			Revenue:      p.Revenue.String(),
		})
	}
	return out
}

// CategorySalesResponse is one row of the sales-by-category report.
type CategorySalesResponse struct {
	CategoryID   string `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName"`
	Count        int64  `json:"count"`
	Total        string `json:"total"`
}

// FromCategorySales converts the by-category rows. The zero category ID
// (uncategorized bucket) renders as an empty string.
func FromCategorySales(items []*reports.CategorySales) []CategorySalesResponse {
	out := make([]CategorySalesResponse, 0, len(items))
	for _, c := range items {
		row := CategorySalesResponse{
			CategoryName: c.CategoryName,
			Count:        c.Count,
			Total:        c.Total.String(),
		}
		if !id.IsNil(c.CategoryID) {
			row.CategoryID = c.CategoryID.String()
		}
		out = append(out, row)
	}
	return out
}
