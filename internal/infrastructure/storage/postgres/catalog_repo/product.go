package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo is the PostgreSQL product repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"products",
			postgres.ExtractDBColumns[product.Product](),
			[]string{"name", "barcode"},
			func() *product.Product { return &product.Product{} },
		),
	}
}

// GetByBarcode retrieves a product by scan code.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[product.Product]()...).
		From("products").
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	p, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", barcode)
		}
		return nil, err
	}
	return p, nil
}

// UpdateStock sets the materialized on-hand quantity.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID id.ID, stock int64) error {
	q := r.Builder().
		Update("products").
		Set("stock", stock).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update stock: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// UpdatePurchasePrice records the latest unit cost.
func (r *ProductRepo) UpdatePurchasePrice(ctx context.Context, productID id.ID, price types.Money) error {
	q := r.Builder().
		Update("products").
		Set("purchase_price", price).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update purchase price: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

// ListLowStock returns active products at or below their reorder threshold,
// most depleted first.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[product.Product]()...).
		From("products").
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Expr("min_stock > 0 AND stock <= min_stock")).
		OrderBy("stock - min_stock ASC", "name ASC")

	return r.FindMany(ctx, q)
}
