package credit

import (
	"context"

	"almacen/internal/core/id"
)

// Repository is the persistence contract for the credit ledger.
// Movements are append-only; there is no update or delete.
type Repository interface {
	// Create inserts a movement.
	Create(ctx context.Context, m *Movement) error

	// ListByCustomer returns the customer's most recent movements,
	// newest first (created_at DESC, id DESC for stable ties).
	ListByCustomer(ctx context.Context, customerID id.ID, limit int) ([]*Movement, error)

	// GetByID retrieves a single movement.
	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)
}
