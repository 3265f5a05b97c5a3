// Package document_repo provides PostgreSQL implementations for business
// document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain/documents/sale"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ sale.Repository = (*SaleRepo)(nil)

// SaleRepo is the PostgreSQL sale repository.
type SaleRepo struct {
	txManager *postgres.TxManager
}

// NewSaleRepo creates a sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{txManager: txManager}
}

func (r *SaleRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var (
	saleCols     = postgres.ExtractDBColumns[sale.Sale]()
	saleLineCols = postgres.ExtractDBColumns[sale.Line]()
)

// Create inserts the sale header with its lines.
func (r *SaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	querier := r.txManager.GetQuerier(ctx)

	headQ := r.builder().
		Insert("sales").
		SetMap(postgres.StructToMap(s))

	sql, args, err := headQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, line := range s.Lines {
		lineQ := r.builder().
			Insert("sale_lines").
			SetMap(postgres.StructToMap(line))

		sql, args, err := lineQ.ToSql()
		if err != nil {
			return fmt.Errorf("build insert sale line: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a sale with its lines.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	querier := r.txManager.GetQuerier(ctx)

	q := r.builder().
		Select(saleCols...).
		From("sales").
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s := &sale.Sale{}
	if err := pgxscan.Get(ctx, querier, s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	linesQ := r.builder().
		Select(saleLineCols...).
		From("sale_lines").
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("id ASC")

	sql, args, err = linesQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &s.Lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}

	return s, nil
}

// GetLine retrieves one line of a sale.
func (r *SaleRepo) GetLine(ctx context.Context, saleID, lineID id.ID) (*sale.Line, error) {
	q := r.builder().
		Select(saleLineCols...).
		From("sale_lines").
		Where(squirrel.Eq{"id": lineID, "sale_id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	line := &sale.Line{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), line, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale line", lineID.String())
		}
		return nil, fmt.Errorf("get sale line: %w", err)
	}
	return line, nil
}

// UpdateLine rewrites a line's quantity and subtotal.
func (r *SaleRepo) UpdateLine(ctx context.Context, line *sale.Line) error {
	q := r.builder().
		Update("sale_lines").
		Set("quantity", line.Quantity).
		Set("subtotal", line.Subtotal).
		Where(squirrel.Eq{"id": line.ID, "sale_id": line.SaleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update line: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale line: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale line", line.ID.String())
	}
	return nil
}

// DeleteLine removes a line.
func (r *SaleRepo) DeleteLine(ctx context.Context, saleID, lineID id.ID) error {
	q := r.builder().
		Delete("sale_lines").
		Where(squirrel.Eq{"id": lineID, "sale_id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete line: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete sale line: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale line", lineID.String())
	}
	return nil
}

// UpdateTotal rewrites the sale total.
func (r *SaleRepo) UpdateTotal(ctx context.Context, saleID id.ID, total types.Money) error {
	q := r.builder().
		Update("sales").
		Set("total", total).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": saleID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update total: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale total: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}

// List retrieves sale headers newest first. Lines are not loaded.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	q := r.builder().
		Select(saleCols...).
		From("sales").
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("date DESC", "id DESC")

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"date": *filter.To})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
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

	var items []*sale.Sale
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return items, nil
}
