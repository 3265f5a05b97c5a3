// Package sale implements the sale document: the transaction that moves
// stock out, computes a total, and, for credit sales, charges the customer's
// store-credit account. Everything a sale touches commits or rolls back as
// one unit.
package sale

import (
	"context"
	"strings"

	"almacen/internal/core/apperror"
	"almacen/internal/core/entity"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
)

// PaymentMethod is how the sale is settled.
type PaymentMethod string

const (
	// PaymentCash is an immediate sale ("contado").
	PaymentCash PaymentMethod = "CASH"

	// PaymentCredit charges the customer's store-credit account.
	PaymentCredit PaymentMethod = "CREDIT"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCredit
}

// Sale is the document header. A sale references a registered customer, or
// names a walk-in buyer by free text, or neither; credit sales always
// reference a registered customer.
type Sale struct {
	entity.Document

	// CustomerID references a registered customer, nil for walk-ins
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// CustomerName is the free-text buyer name for walk-in sales
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`

	// Total is the sum of line subtotals, recomputed on every line change
	Total types.Money `db:"total" json:"total"`

	Lines []*Line `db:"-" json:"lines,omitempty"`
}

// Line is one product position on a sale.
type Line struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductName is snapshotted at sale time; later catalog renames do
	// not rewrite history.
	ProductName string `db:"product_name" json:"productName"`

	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice is the charged price, defaulted from the product's sale
	// price when the draft leaves it unset.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
}

// New creates an empty sale dated now.
func New(method PaymentMethod) *Sale {
	return &Sale{
		Document:      entity.NewDocument(),
		PaymentMethod: method,
		Total:         types.Zero(),
	}
}

// Validate implements entity.Validatable. Line-level checks that need the
// product catalog run in the service; this covers the header invariants.
func (s *Sale) Validate(ctx context.Context) error {
	if !s.PaymentMethod.Valid() {
		return apperror.NewValidation("unsupported payment method").
			WithDetail("paymentMethod", string(s.PaymentMethod))
	}
	if s.CustomerID != nil && strings.TrimSpace(s.CustomerName) != "" {
		return apperror.NewValidation("customer reference and free-text name are mutually exclusive")
	}
	if s.PaymentMethod == PaymentCredit && s.CustomerID == nil {
		return apperror.NewValidation("credit sales require a registered customer")
	}
	if len(s.Lines) == 0 {
		return apperror.NewValidation("sale requires at least one line")
	}
	for i, line := range s.Lines {
		if line.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity)
		}
		if !line.UnitPrice.IsPositive() {
			return apperror.NewValidation("line unit price must be positive").
				WithDetail("line", i)
		}
	}
	return nil
}

// OnCredit reports whether the sale charges the store-credit account.
func (s *Sale) OnCredit() bool {
	return s.PaymentMethod == PaymentCredit
}

// RecalculateTotal refreshes line subtotals and the sale total.
func (s *Sale) RecalculateTotal() {
	total := types.Zero()
	for _, line := range s.Lines {
		line.Subtotal = line.UnitPrice.Mul(types.FromInt(line.Quantity))
		total = total.Add(line.Subtotal)
	}
	s.Total = total
}
