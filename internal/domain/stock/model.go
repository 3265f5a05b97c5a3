// Package stock implements the product stock ledger.
//
// On-hand quantity lives materialized on the product; every change to it is
// recorded here as an immutable movement carrying the stock level after the
// change. Movement insert and product update share one transaction, under a
// row lock on the product, so stock can never go negative.
package stock

import (
	"time"

	"almacen/internal/core/id"
)

// Direction of a stock movement.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Reasons recorded on movements. Free text is allowed for manual
// adjustments; these cover the system-generated ones.
const (
	ReasonSale         = "sale"
	ReasonSaleReversal = "sale_reversal"
	ReasonPurchase     = "purchase"
	ReasonAdjustment   = "adjustment"
)

// Movement is one immutable entry in a product's stock ledger.
type Movement struct {
	ID        id.ID `db:"id" json:"id"`
	ProductID id.ID `db:"product_id" json:"productId"`

	Direction Direction `db:"direction" json:"direction"`

	// Quantity moved, always positive; Direction carries the sign.
	Quantity int64 `db:"quantity" json:"quantity"`

	// StockAfter is the on-hand quantity immediately after this movement.
	StockAfter int64 `db:"stock_after" json:"stockAfter"`

	Reason string `db:"reason" json:"reason"`

	// RefID links the movement to the document that caused it
	// (sale or purchase order), when there is one.
	RefID *id.ID `db:"ref_id" json:"refId,omitempty"`

	Notes      string    `db:"notes" json:"notes,omitempty"`
	RecordedBy string    `db:"recorded_by" json:"recordedBy,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
