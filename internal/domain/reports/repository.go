package reports

import (
	"context"
)

// Repository is the read-side contract for sales analytics. All queries run
// at read-committed; reports tolerate being a moment behind the ledgers.
type Repository interface {
	// SalesSummary aggregates sales in the range.
	SalesSummary(ctx context.Context, r DateRange) (*SalesSummary, error)

	// SalesByDay returns one row per calendar day with sales, oldest first.
	SalesByDay(ctx context.Context, r DateRange) ([]*DailySales, error)

	// TopProducts returns best sellers by quantity, largest first.
	TopProducts(ctx context.Context, r DateRange, limit int) ([]*TopProduct, error)

	// SalesByCategory aggregates sales per product category.
	SalesByCategory(ctx context.Context, r DateRange) ([]*CategorySales, error)
}
