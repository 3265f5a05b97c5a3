package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain/catalogs/customer"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo is the PostgreSQL customer repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"customers",
			postgres.ExtractDBColumns[customer.Customer](),
			[]string{"name", "rut"},
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// GetByRUT retrieves a customer by normalized tax identifier.
func (r *CustomerRepo) GetByRUT(ctx context.Context, rut string) (*customer.Customer, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[customer.Customer]()...).
		From("customers").
		Where(squirrel.Eq{"rut": rut}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	c, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("customer", rut)
		}
		return nil, err
	}
	return c, nil
}

// UpdateBalance sets the materialized balance.
func (r *CustomerRepo) UpdateBalance(ctx context.Context, customerID id.ID, balance types.Money) error {
	q := r.Builder().
		Update("customers").
		Set("balance", balance).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update balance: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", customerID.String())
	}
	return nil
}

// ListDebtors returns customers with positive balance, largest debt first.
func (r *CustomerRepo) ListDebtors(ctx context.Context) ([]*customer.Customer, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[customer.Customer]()...).
		From("customers").
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Expr("balance > 0")).
		OrderBy("balance DESC", "name ASC")

	return r.FindMany(ctx, q)
}
