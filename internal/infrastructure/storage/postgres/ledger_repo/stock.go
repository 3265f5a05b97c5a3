package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almacen/internal/core/id"
	"almacen/internal/domain/stock"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ stock.Repository = (*StockMovementRepo)(nil)

// StockMovementRepo is the PostgreSQL stock ledger repository.
type StockMovementRepo struct {
	txManager *postgres.TxManager
}

// NewStockMovementRepo creates a stock ledger repository.
func NewStockMovementRepo(txManager *postgres.TxManager) *StockMovementRepo {
	return &StockMovementRepo{txManager: txManager}
}

func (r *StockMovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var stockCols = postgres.ExtractDBColumns[stock.Movement]()

// Create inserts a movement. Movements are never updated or deleted.
func (r *StockMovementRepo) Create(ctx context.Context, m *stock.Movement) error {
	data := postgres.StructToMap(m)

	q := r.builder().
		Insert("stock_movements").
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct returns the product's most recent movements, newest first.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID id.ID, limit int) ([]*stock.Movement, error) {
	q := r.builder().
		Select(stockCols...).
		From("stock_movements").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*stock.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return items, nil
}
