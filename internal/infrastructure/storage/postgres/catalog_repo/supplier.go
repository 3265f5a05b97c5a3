package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"almacen/internal/core/apperror"
	"almacen/internal/domain/catalogs/supplier"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo is the PostgreSQL supplier repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"suppliers",
			postgres.ExtractDBColumns[supplier.Supplier](),
			[]string{"name", "rut"},
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// GetByRUT retrieves a supplier by tax identifier.
func (r *SupplierRepo) GetByRUT(ctx context.Context, rut string) (*supplier.Supplier, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[supplier.Supplier]()...).
		From("suppliers").
		Where(squirrel.Eq{"rut": rut}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	s, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("supplier", rut)
		}
		return nil, err
	}
	return s, nil
}
