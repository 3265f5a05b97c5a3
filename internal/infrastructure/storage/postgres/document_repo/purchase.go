package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/documents/purchase"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo is the PostgreSQL purchase order repository.
type PurchaseRepo struct {
	txManager *postgres.TxManager
}

// NewPurchaseRepo creates a purchase order repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{txManager: txManager}
}

func (r *PurchaseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var (
	orderCols     = postgres.ExtractDBColumns[purchase.Order]()
	orderLineCols = postgres.ExtractDBColumns[purchase.Line]()
)

// Create inserts the order header with its lines.
func (r *PurchaseRepo) Create(ctx context.Context, o *purchase.Order) error {
	querier := r.txManager.GetQuerier(ctx)

	headQ := r.builder().
		Insert("purchase_orders").
		SetMap(postgres.StructToMap(o))

	sql, args, err := headQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert order: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range o.Lines {
		lineQ := r.builder().
			Insert("purchase_order_lines").
			SetMap(postgres.StructToMap(line))

		sql, args, err := lineQ.ToSql()
		if err != nil {
			return fmt.Errorf("build insert order line: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

// GetByID retrieves an order with its lines.
func (r *PurchaseRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase.Order, error) {
	querier := r.txManager.GetQuerier(ctx)

	q := r.builder().
		Select(orderCols...).
		From("purchase_orders").
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	o := &purchase.Order{}
	if err := pgxscan.Get(ctx, querier, o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	linesQ := r.builder().
		Select(orderLineCols...).
		From("purchase_order_lines").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("id ASC")

	sql, args, err = linesQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &o.Lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}

	return o, nil
}

// List retrieves order headers newest first. Lines are not loaded.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Order, error) {
	q := r.builder().
		Select(orderCols...).
		From("purchase_orders").
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("date DESC", "id DESC")

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"date": *filter.To})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*purchase.Order
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return items, nil
}
