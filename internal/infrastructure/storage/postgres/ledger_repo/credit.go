// Package ledger_repo provides PostgreSQL implementations for the
// append-only credit and stock ledgers.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/domain/credit"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ credit.Repository = (*CreditMovementRepo)(nil)

// CreditMovementRepo is the PostgreSQL credit ledger repository.
type CreditMovementRepo struct {
	txManager *postgres.TxManager
}

// NewCreditMovementRepo creates a credit ledger repository.
func NewCreditMovementRepo(txManager *postgres.TxManager) *CreditMovementRepo {
	return &CreditMovementRepo{txManager: txManager}
}

func (r *CreditMovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var creditCols = postgres.ExtractDBColumns[credit.Movement]()

// Create inserts a movement. Movements are never updated or deleted.
func (r *CreditMovementRepo) Create(ctx context.Context, m *credit.Movement) error {
	data := postgres.StructToMap(m)

	q := r.builder().
		Insert("credit_movements").
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert credit movement: %w", err)
	}
	return nil
}

// ListByCustomer returns the customer's most recent movements, newest first.
func (r *CreditMovementRepo) ListByCustomer(ctx context.Context, customerID id.ID, limit int) ([]*credit.Movement, error) {
	q := r.builder().
		Select(creditCols...).
		From("credit_movements").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*credit.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list credit movements: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single movement.
func (r *CreditMovementRepo) GetByID(ctx context.Context, movementID id.ID) (*credit.Movement, error) {
	q := r.builder().
		Select(creditCols...).
		From("credit_movements").
		Where(squirrel.Eq{"id": movementID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	m := &credit.Movement{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("credit movement", movementID.String())
		}
		return nil, fmt.Errorf("get credit movement: %w", err)
	}
	return m, nil
}
