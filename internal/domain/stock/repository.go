package stock

import (
	"context"

	"almacen/internal/core/id"
)

// Repository is the persistence contract for the stock ledger.
// Movements are append-only.
type Repository interface {
	// Create inserts a movement.
	Create(ctx context.Context, m *Movement) error

	// ListByProduct returns the product's most recent movements,
	// newest first (created_at DESC, id DESC for stable ties).
	ListByProduct(ctx context.Context, productID id.ID, limit int) ([]*Movement, error)
}
