package customer

import (
	"context"

	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain"
)

// Repository extends the generic catalog repository with customer lookups.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// GetByRUT retrieves a customer by normalized tax identifier.
	// Returns NotFound if no customer carries the RUT.
	GetByRUT(ctx context.Context, rut string) (*Customer, error)

	// GetForUpdate retrieves a customer and locks its row for the duration
	// of the surrounding transaction. Must be called inside a transaction.
	GetForUpdate(ctx context.Context, customerID id.ID) (*Customer, error)

	// UpdateBalance sets the materialized balance. Called from the credit
	// service inside the same transaction that inserts the movement.
	UpdateBalance(ctx context.Context, customerID id.ID, balance types.Money) error

	// ListDebtors returns customers with positive balance, largest debt first.
	ListDebtors(ctx context.Context) ([]*Customer, error)
}
