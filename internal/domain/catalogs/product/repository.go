package product

import (
	"context"

	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain"
)

// Repository extends the generic catalog repository with product lookups
// used by the stock and sale services.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetByBarcode retrieves a product by scan code.
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)

	// GetForUpdate retrieves a product and locks its row for the duration
	// of the surrounding transaction. Must be called inside a transaction.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// UpdateStock sets the materialized on-hand quantity. Called from the
	// stock service inside the same transaction that inserts the movement.
	UpdateStock(ctx context.Context, productID id.ID, stock int64) error

	// UpdatePurchasePrice records the latest unit cost after goods receipt.
	UpdatePurchasePrice(ctx context.Context, productID id.ID, price types.Money) error

	// ListLowStock returns active products at or below their reorder
	// threshold, most urgent first.
	ListLowStock(ctx context.Context) ([]*Product, error)
}
