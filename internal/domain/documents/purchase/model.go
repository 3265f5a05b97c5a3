// Package purchase implements goods receipt: merchandise arriving from a
// supplier enters the stock ledger through a purchase order document.
package purchase

import (
	"context"
	"strings"

	"almacen/internal/core/apperror"
	"almacen/internal/core/entity"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
)

// Order is the goods-receipt document header. The vendor is either a
// registered supplier or an ad-hoc free-text name; at least one is required.
type Order struct {
	entity.Document

	// SupplierID references a registered supplier, nil for ad-hoc vendors
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// SupplierName names an ad-hoc vendor when SupplierID is nil
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Total is the sum of line subtotals
	Total types.Money `db:"total" json:"total"`

	Lines []*Line `db:"-" json:"lines,omitempty"`
}

// Line is one received product position.
type Line struct {
	ID      id.ID `db:"id" json:"id"`
	OrderID id.ID `db:"order_id" json:"orderId"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductName is snapshotted at receipt time
	ProductName string `db:"product_name" json:"productName"`

	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitCost is the purchase cost per unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
}

// New creates an empty order dated now.
func New() *Order {
	return &Order{
		Document: entity.NewDocument(),
		Total:    types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if o.SupplierID == nil && strings.TrimSpace(o.SupplierName) == "" {
		return apperror.NewValidation("supplier reference or supplier name is required").
			WithDetail("field", "supplier")
	}
	if len(o.Lines) == 0 {
		return apperror.NewValidation("receipt requires at least one line")
	}
	for i, line := range o.Lines {
		if line.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity)
		}
		if !line.UnitCost.IsPositive() {
			return apperror.NewValidation("line unit cost must be positive").
				WithDetail("line", i)
		}
	}
	return nil
}

// RecalculateTotal refreshes line subtotals and the order total.
func (o *Order) RecalculateTotal() {
	total := types.Zero()
	for _, line := range o.Lines {
		line.Subtotal = line.UnitCost.Mul(types.FromInt(line.Quantity))
		total = total.Add(line.Subtotal)
	}
	o.Total = total
}
