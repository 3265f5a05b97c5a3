package sale

import (
	"context"
	"time"

	"almacen/internal/core/id"
	"almacen/internal/core/types"
)

// ListFilter narrows sale listings.
type ListFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID *id.ID
	Limit      int
	Offset     int
}

// Repository is the persistence contract for sale documents.
type Repository interface {
	// Create inserts the sale header with its lines.
	Create(ctx context.Context, s *Sale) error

	// GetByID retrieves a sale with its lines.
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetLine retrieves one line of a sale.
	GetLine(ctx context.Context, saleID, lineID id.ID) (*Line, error)

	// UpdateLine rewrites a line's quantity and subtotal.
	UpdateLine(ctx context.Context, line *Line) error

	// DeleteLine removes a line.
	DeleteLine(ctx context.Context, saleID, lineID id.ID) error

	// UpdateTotal rewrites the sale total.
	UpdateTotal(ctx context.Context, saleID id.ID, total types.Money) error

	// List retrieves sales newest first.
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}
