package purchase

import (
	"context"
	"time"

	"almacen/internal/core/id"
)

// ListFilter narrows order listings.
type ListFilter struct {
	From       *time.Time
	To         *time.Time
	SupplierID *id.ID
	Limit      int
	Offset     int
}

// Repository is the persistence contract for purchase orders.
type Repository interface {
	// Create inserts the order header with its lines.
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves an order with its lines.
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// List retrieves orders newest first.
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
}
