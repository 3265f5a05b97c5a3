// Package credit implements the customer store-credit ledger.
//
// Every change to a customer's debt is recorded as an immutable Movement.
// The movement carries the balance after it was applied, so the ledger is
// auditable without replaying history. The customer's materialized balance
// and the movement insert happen in the same transaction, under a row lock
// on the customer.
package credit

import (
	"time"

	"almacen/internal/core/id"
	"almacen/internal/core/types"
)

// Kind is the closed set of movement kinds. Anything else is rejected.
type Kind string

const (
	// KindPurchase increases the debt: a sale charged to the account.
	KindPurchase Kind = "PURCHASE"

	// KindPayment decreases the debt: the customer pays part or all of it.
	KindPayment Kind = "PAYMENT"

	// KindAdjustment applies a signed correction. A positive amount
	// decreases the debt, a negative amount increases it, same direction
	// as a payment.
	KindAdjustment Kind = "ADJUSTMENT"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPurchase, KindPayment, KindAdjustment:
		return true
	}
	return false
}

// Movement is one immutable entry in a customer's credit ledger.
type Movement struct {
	ID         id.ID `db:"id" json:"id"`
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	Kind Kind `db:"kind" json:"kind"`

	// Amount is the movement magnitude. Positive for purchases and
	// payments; signed for adjustments.
	Amount types.Money `db:"amount" json:"amount"`

	// BalanceAfter is the customer's debt immediately after this movement.
	BalanceAfter types.Money `db:"balance_after" json:"balanceAfter"`

	// SaleID links purchase movements to the sale that produced them.
	SaleID *id.ID `db:"sale_id" json:"saleId,omitempty"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// RecordedBy is the user who registered the movement.
	RecordedBy string `db:"recorded_by" json:"recordedBy,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
