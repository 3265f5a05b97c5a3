package stock

import (
	"context"
	"time"

	"almacen/internal/core/apperror"
	"almacen/internal/core/appctx"
	"almacen/internal/core/id"
	"almacen/internal/core/tx"
	"almacen/internal/domain"
	"almacen/internal/domain/catalogs/product"
	"almacen/pkg/logger"
)

// History list limits.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// AdjustInput describes a single stock change.
type AdjustInput struct {
	ProductID id.ID
	Quantity  int64
	Reason    string
	RefID     *id.ID
	Notes     string
}

// Service coordinates the stock ledger. Decrement and Increment lock the
// product row, so the availability check and the write are one atomic step.
// Document services call them inside their own transaction; the nested call
// joins it, keeping a whole sale all-or-nothing.
type Service struct {
	products  product.Repository
	movements Repository
	txManager tx.Manager
	audit     domain.AuditLogger
	log       *logger.Logger
}

// NewService creates a stock service. audit may be nil.
func NewService(
	products product.Repository,
	movements Repository,
	txManager tx.Manager,
	audit domain.AuditLogger,
	log *logger.Logger,
) *Service {
	return &Service{
		products:  products,
		movements: movements,
		txManager: txManager,
		audit:     audit,
		log:       log,
	}
}

// HasStock reports whether the product is active and has at least qty units
// on hand. A zero qty answers whether the product is sellable at all.
// Advisory only: the authoritative check runs again under lock in Decrement.
func (s *Service) HasStock(ctx context.Context, productID id.ID, qty int64) (bool, error) {
	if qty < 0 {
		return false, apperror.NewValidation("quantity cannot be negative").
			WithDetail("quantity", qty)
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if p.DeletionMark {
		return false, apperror.NewNotFound("product", p.ID)
	}
	return p.Active && p.Stock >= qty, nil
}

// Decrement removes qty units from the product, failing if fewer are on
// hand. The check and the write happen under the product row lock.
func (s *Service) Decrement(ctx context.Context, input AdjustInput) (*Movement, error) {
	return s.apply(ctx, DirectionOut, input)
}

// Increment adds qty units to the product.
func (s *Service) Increment(ctx context.Context, input AdjustInput) (*Movement, error) {
	return s.apply(ctx, DirectionIn, input)
}

func (s *Service) apply(ctx context.Context, dir Direction, input AdjustInput) (*Movement, error) {
	if id.IsNil(input.ProductID) {
		return nil, apperror.NewValidation("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", input.Quantity)
	}

	var movement *Movement

	err := s.txManager.RunInRetryableTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p.DeletionMark {
			return apperror.NewNotFound("product", p.ID)
		}

		newStock := p.Stock
		switch dir {
		case DirectionOut:
			if !p.Active {
				return apperror.NewBusinessRule("PRODUCT_INACTIVE", "cannot remove stock from an inactive product").
					WithDetail("productId", p.ID.String())
			}
			if p.Stock < input.Quantity {
				return apperror.NewInsufficientStock(p.ID.String(), input.Quantity, p.Stock)
			}
			newStock -= input.Quantity
		case DirectionIn:
			newStock += input.Quantity
		}

		movement = &Movement{
			ID:         id.New(),
			ProductID:  p.ID,
			Direction:  dir,
			Quantity:   input.Quantity,
			StockAfter: newStock,
			Reason:     input.Reason,
			RefID:      input.RefID,
			Notes:      input.Notes,
			RecordedBy: appctx.GetUserID(ctx),
			CreatedAt:  time.Now().UTC(),
		}

		if err := s.movements.Create(ctx, movement); err != nil {
			return err
		}
		if err := s.products.UpdateStock(ctx, p.ID, newStock); err != nil {
			return err
		}

		if s.audit != nil {
			if err := s.audit.RecordChange(ctx, "stock_movement", movement.ID, domain.AuditMovement, map[string]any{
				"product_id":  movement.ProductID.String(),
				"direction":   string(movement.Direction),
				"quantity":    movement.Quantity,
				"stock_after": movement.StockAfter,
				"reason":      movement.Reason,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Infow("stock movement recorded",
		"product_id", movement.ProductID,
		"direction", movement.Direction,
		"quantity", movement.Quantity,
		"stock_after", movement.StockAfter,
		"reason", movement.Reason,
	)

	return movement, nil
}

// History returns the product's most recent movements, newest first.
// The limit is clamped to [1, MaxHistoryLimit]; zero or negative values get
// the default.
func (s *Service) History(ctx context.Context, productID id.ID, limit int) ([]*Movement, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	return s.movements.ListByProduct(ctx, productID, limit)
}

// LowStock returns active products at or below their reorder threshold.
func (s *Service) LowStock(ctx context.Context) ([]*product.Product, error) {
	return s.products.ListLowStock(ctx)
}
