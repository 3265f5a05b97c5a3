// Package report_repo provides the PostgreSQL read-side for sales analytics.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almacen/internal/domain/reports"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo runs aggregate queries over committed sales. No locks are
// taken; reports read at the default isolation level.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func applyRange(q squirrel.SelectBuilder, rng reports.DateRange, col string) squirrel.SelectBuilder {
	if !rng.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{col: rng.From})
	}
	if !rng.To.IsZero() {
		q = q.Where(squirrel.Lt{col: rng.To})
	}
	return q
}

// SalesSummary aggregates sales in the range, split by payment method.
func (r *ReportRepo) SalesSummary(ctx context.Context, rng reports.DateRange) (*reports.SalesSummary, error) {
	q := r.builder().
		Select(
			"COUNT(*) AS count",
			"COALESCE(SUM(total), 0) AS total",
			"COALESCE(SUM(total) FILTER (WHERE payment_method = 'CASH'), 0) AS cash_total",
			"COALESCE(SUM(total) FILTER (WHERE payment_method = 'CREDIT'), 0) AS credit_total",
		).
		From("sales").
		Where(squirrel.Eq{"deletion_mark": false})
	q = applyRange(q, rng, "date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	summary := &reports.SalesSummary{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), summary, sql, args...); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return summary, nil
}

// SalesByDay returns one row per calendar day with sales, oldest first.
func (r *ReportRepo) SalesByDay(ctx context.Context, rng reports.DateRange) ([]*reports.DailySales, error) {
	q := r.builder().
		Select(
			"date_trunc('day', date) AS day",
			"COUNT(*) AS count",
			"COALESCE(SUM(total), 0) AS total",
		).
		From("sales").
		Where(squirrel.Eq{"deletion_mark": false}).
		GroupBy("date_trunc('day', date)").
		OrderBy("day ASC")
	q = applyRange(q, rng, "date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*reports.DailySales
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	return items, nil
}

// TopProducts returns best sellers by quantity, largest first.
func (r *ReportRepo) TopProducts(ctx context.Context, rng reports.DateRange, limit int) ([]*reports.TopProduct, error) {
	q := r.builder().
		Select(
			"l.product_id AS product_id",
			"l.product_name AS product_name",
			"SUM(l.quantity) AS quantity_sold",
			"COALESCE(SUM(l.subtotal), 0) AS revenue",
		).
		From("sale_lines l").
		Join("sales s ON s.id = l.sale_id").
		Where(squirrel.Eq{"s.deletion_mark": false}).
		GroupBy("l.product_id", "l.product_name").
		OrderBy("quantity_sold DESC", "revenue DESC").
		Limit(uint64(limit))
	q = applyRange(q, rng, "s.date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*reports.TopProduct
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return items, nil
}

// SalesByCategory aggregates sales per product category. Products without a
// category land in an "uncategorized" bucket.
func (r *ReportRepo) SalesByCategory(ctx context.Context, rng reports.DateRange) ([]*reports.CategorySales, error) {
	q := r.builder().
		Select(
			"COALESCE(p.category_id, '00000000-0000-0000-0000-000000000000'::uuid) AS category_id",
			"COALESCE(c.name, 'uncategorized') AS category_name",
			"COUNT(DISTINCT s.id) AS count",
			"COALESCE(SUM(l.subtotal), 0) AS total",
		).
		From("sale_lines l").
		Join("sales s ON s.id = l.sale_id").
		Join("products p ON p.id = l.product_id").
		LeftJoin("categories c ON c.id = p.category_id").
		Where(squirrel.Eq{"s.deletion_mark": false}).
		GroupBy("p.category_id", "c.name").
		OrderBy("total DESC")
	q = applyRange(q, rng, "s.date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*reports.CategorySales
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	return items, nil
}
