package sale

import (
	"bytes"
	"context"
	"slices"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/tx"
	"almacen/internal/core/types"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/credit"
	"almacen/internal/domain/stock"
	"almacen/pkg/logger"
)

// DraftLine is one requested position on a sale.
type DraftLine struct {
	ProductID id.ID

	Quantity int64

	// UnitPrice overrides the product's sale price when set.
	UnitPrice *types.Money
}

// Draft is the input for creating a sale.
type Draft struct {
	// CustomerID references a registered customer; mutually exclusive
	// with CustomerName.
	CustomerID *id.ID

	// CustomerName is a free-text buyer name for walk-in sales.
	CustomerName string

	// OnCredit charges the customer's store-credit account.
	OnCredit bool

	Notes string
	Lines []DraftLine
}

// Receipt is what Create returns: the committed sale and, for credit sales,
// the ledger movement it produced. One read confirms the whole outcome.
type Receipt struct {
	Sale *Sale `json:"sale"`

	// Movement is nil for cash sales.
	Movement *credit.Movement `json:"movement,omitempty"`
}

// Service coordinates sale creation and line editing. All stock and credit
// effects of one call share a single transaction.
type Service struct {
	sales     Repository
	products  product.Repository
	stock     *stock.Service
	credit    *credit.Service
	txManager tx.Manager
	log       *logger.Logger
}

// NewService creates a sale service.
func NewService(
	sales Repository,
	products product.Repository,
	stockSvc *stock.Service,
	creditSvc *credit.Service,
	txManager tx.Manager,
	log *logger.Logger,
) *Service {
	return &Service{
		sales:     sales,
		products:  products,
		stock:     stockSvc,
		credit:    creditSvc,
		txManager: txManager,
		log:       log,
	}
}

// Create validates the whole draft, then commits the sale, its stock
// decrements, and (for credit sales) the credit charge in one transaction.
// Any failure leaves no trace: no sale, no stock change, no movement.
//
// Product rows are locked in ascending ID order so two concurrent sales over
// the same products cannot deadlock; for credit sales the customer row is
// locked after the products, always in that order.
func (s *Service) Create(ctx context.Context, draft Draft) (*Receipt, error) {
	method := PaymentCash
	if draft.OnCredit {
		method = PaymentCredit
	}

	doc := New(method)
	doc.CustomerID = draft.CustomerID
	doc.CustomerName = draft.CustomerName
	doc.Notes = draft.Notes

	if len(draft.Lines) == 0 {
		return nil, apperror.NewValidation("sale requires at least one line")
	}
	for i, line := range draft.Lines {
		if id.IsNil(line.ProductID) {
			return nil, apperror.NewValidation("line product id is required").
				WithDetail("line", i)
		}
		if line.Quantity <= 0 {
			return nil, apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity)
		}
		if line.UnitPrice != nil && !line.UnitPrice.IsPositive() {
			return nil, apperror.NewValidation("line unit price must be positive").
				WithDetail("line", i)
		}
	}

	receipt := &Receipt{}

	err := s.txManager.RunInRetryableTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.lockProducts(ctx, draft.Lines)
		if err != nil {
			return err
		}

		s.buildLines(doc, draft.Lines, locked)
		doc.RecalculateTotal()

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		if err := s.checkStock(draft.Lines, locked); err != nil {
			return err
		}

		// Credit capacity is settled before any write. The customer row
		// stays locked, so the charge below cannot fail on capacity.
		if doc.OnCredit() {
			if err := s.credit.EnsureCanCharge(ctx, *doc.CustomerID, doc.Total); err != nil {
				return err
			}
		}

		if err := s.sales.Create(ctx, doc); err != nil {
			return err
		}

		for _, line := range doc.Lines {
			_, err := s.stock.Decrement(ctx, stock.AdjustInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    stock.ReasonSale,
				RefID:     &doc.ID,
			})
			if err != nil {
				return err
			}
		}

		if doc.OnCredit() {
			movement, _, err := s.credit.RegisterMovement(ctx, credit.RegisterInput{
				CustomerID: *doc.CustomerID,
				Kind:       credit.KindPurchase,
				Amount:     doc.Total,
				SaleID:     &doc.ID,
			})
			if err != nil {
				return err
			}
			receipt.Movement = movement
		}

		receipt.Sale = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Infow("sale created",
		"sale_id", doc.ID,
		"payment_method", doc.PaymentMethod,
		"total", doc.Total,
		"lines", len(doc.Lines),
	)

	return receipt, nil
}

// lockProducts locks the draft's product rows in ascending ID order and
// returns them keyed by ID. Duplicate product lines lock once.
func (s *Service) lockProducts(ctx context.Context, lines []DraftLine) (map[id.ID]*product.Product, error) {
	ids := make([]id.ID, 0, len(lines))
	seen := make(map[id.ID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	slices.SortFunc(ids, func(a, b id.ID) int {
		return bytes.Compare(a[:], b[:])
	})

	locked := make(map[id.ID]*product.Product, len(ids))
	for _, productID := range ids {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p.DeletionMark || !p.Active {
			return nil, apperror.NewNotFound("product", productID)
		}
		locked[productID] = p
	}
	return locked, nil
}

// buildLines materializes document lines from the draft, snapshotting names
// and defaulting prices from the locked products.
func (s *Service) buildLines(doc *Sale, lines []DraftLine, locked map[id.ID]*product.Product) {
	doc.Lines = make([]*Line, 0, len(lines))
	for _, dl := range lines {
		p := locked[dl.ProductID]

		price := p.SalePrice
		if dl.UnitPrice != nil {
			price = *dl.UnitPrice
		}

		doc.Lines = append(doc.Lines, &Line{
			ID:          id.New(),
			SaleID:      doc.ID,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    dl.Quantity,
			UnitPrice:   price,
		})
	}
}

// checkStock verifies availability per product, with duplicate lines for the
// same product counted together.
func (s *Service) checkStock(lines []DraftLine, locked map[id.ID]*product.Product) error {
	required := make(map[id.ID]int64, len(lines))
	for _, line := range lines {
		required[line.ProductID] += line.Quantity
	}
	for productID, qty := range required {
		p := locked[productID]
		if p.Stock < qty {
			return apperror.NewInsufficientStock(productID.String(), qty, p.Stock)
		}
	}
	return nil
}

// UpdateLineQuantity changes a line to the given quantity. The stock delta
// is applied atomically with the subtotal and total recomputation: growing
// the line decrements stock (validated), shrinking it restores stock.
func (s *Service) UpdateLineQuantity(ctx context.Context, saleID, lineID id.ID, qty int64) (*Sale, error) {
	if qty <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	var updated *Sale

	err := s.txManager.RunInRetryableTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		line, err := s.sales.GetLine(ctx, saleID, lineID)
		if err != nil {
			return err
		}

		delta := qty - line.Quantity
		switch {
		case delta > 0:
			_, err = s.stock.Decrement(ctx, stock.AdjustInput{
				ProductID: line.ProductID,
				Quantity:  delta,
				Reason:    stock.ReasonSale,
				RefID:     &saleID,
			})
		case delta < 0:
			_, err = s.stock.Increment(ctx, stock.AdjustInput{
				ProductID: line.ProductID,
				Quantity:  -delta,
				Reason:    stock.ReasonSaleReversal,
				RefID:     &saleID,
			})
		}
		if err != nil {
			return err
		}

		oldSubtotal := line.Subtotal
		line.Quantity = qty
		line.Subtotal = line.UnitPrice.Mul(types.FromInt(qty))
		if err := s.sales.UpdateLine(ctx, line); err != nil {
			return err
		}

		doc.Total = doc.Total.Sub(oldSubtotal).Add(line.Subtotal)
		if err := s.sales.UpdateTotal(ctx, saleID, doc.Total); err != nil {
			return err
		}

		updated, err = s.sales.GetByID(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLine removes a line, restoring its quantity to stock and recomputing
// the total in the same transaction.
func (s *Service) DeleteLine(ctx context.Context, saleID, lineID id.ID) (*Sale, error) {
	var updated *Sale

	err := s.txManager.RunInRetryableTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		line, err := s.sales.GetLine(ctx, saleID, lineID)
		if err != nil {
			return err
		}

		if _, err := s.stock.Increment(ctx, stock.AdjustInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Reason:    stock.ReasonSaleReversal,
			RefID:     &saleID,
		}); err != nil {
			return err
		}

		if err := s.sales.DeleteLine(ctx, saleID, lineID); err != nil {
			return err
		}

		doc.Total = doc.Total.Sub(line.Subtotal)
		if err := s.sales.UpdateTotal(ctx, saleID, doc.Total); err != nil {
			return err
		}

		updated, err = s.sales.GetByID(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID retrieves a sale with its lines.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	return s.sales.GetByID(ctx, saleID)
}

// List retrieves sales newest first, optionally filtered by date range and
// customer.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.sales.List(ctx, filter)
}
