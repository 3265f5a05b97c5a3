package purchase

import (
	"context"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/tx"
	"almacen/internal/core/types"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/catalogs/supplier"
	"almacen/internal/domain/stock"
	"almacen/pkg/logger"
)

// DraftLine is one received position.
type DraftLine struct {
	ProductID id.ID
	Quantity  int64
	UnitCost  types.Money
}

// Draft is the input for receiving goods.
type Draft struct {
	// SupplierID references a registered supplier; SupplierName names an
	// ad-hoc vendor. At least one is required.
	SupplierID   *id.ID
	SupplierName string

	Notes string
	Lines []DraftLine
}

// Service coordinates goods receipt: the order insert, the stock increments,
// and the purchase-price refresh commit as one transaction.
type Service struct {
	orders    Repository
	products  product.Repository
	suppliers supplier.Repository
	stock     *stock.Service
	txManager tx.Manager
	log       *logger.Logger
}

// NewService creates a purchase service.
func NewService(
	orders Repository,
	products product.Repository,
	suppliers supplier.Repository,
	stockSvc *stock.Service,
	txManager tx.Manager,
	log *logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		suppliers: suppliers,
		stock:     stockSvc,
		txManager: txManager,
		log:       log,
	}
}

// Receive validates the draft and commits the order with its stock effects.
// Stock increments are unbounded; validation covers existence and positive
// quantities and costs.
func (s *Service) Receive(ctx context.Context, draft Draft) (*Order, error) {
	doc := New()
	doc.SupplierID = draft.SupplierID
	doc.SupplierName = draft.SupplierName
	doc.Notes = draft.Notes

	if len(draft.Lines) == 0 {
		return nil, apperror.NewValidation("receipt requires at least one line")
	}

	err := s.txManager.RunInRetryableTransaction(ctx, func(ctx context.Context) error {
		if draft.SupplierID != nil {
			if _, err := s.suppliers.GetByID(ctx, *draft.SupplierID); err != nil {
				return err
			}
		}

		doc.Lines = make([]*Line, 0, len(draft.Lines))
		for i, dl := range draft.Lines {
			if id.IsNil(dl.ProductID) {
				return apperror.NewValidation("line product id is required").
					WithDetail("line", i)
			}
			p, err := s.products.GetByID(ctx, dl.ProductID)
			if err != nil {
				return err
			}
			doc.Lines = append(doc.Lines, &Line{
				ID:          id.New(),
				OrderID:     doc.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    dl.Quantity,
				UnitCost:    dl.UnitCost,
			})
		}
		doc.RecalculateTotal()

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		if err := s.orders.Create(ctx, doc); err != nil {
			return err
		}

		for _, line := range doc.Lines {
			if _, err := s.stock.Increment(ctx, stock.AdjustInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    stock.ReasonPurchase,
				RefID:     &doc.ID,
			}); err != nil {
				return err
			}
			if err := s.products.UpdatePurchasePrice(ctx, line.ProductID, line.UnitCost); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Infow("goods received",
		"order_id", doc.ID,
		"total", doc.Total,
		"lines", len(doc.Lines),
	)

	return doc, nil
}

// GetByID retrieves an order with its lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// List retrieves orders newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.orders.List(ctx, filter)
}
