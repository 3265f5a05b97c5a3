package credit

import (
	"errors"

	"almacen/internal/core/types"
)

// Sentinel errors returned by NextBalance. The service maps them to the
// error taxonomy with customer context attached.
var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrZeroAdjustment    = errors.New("adjustment amount cannot be zero")
	ErrOverpayment       = errors.New("payment exceeds current balance")
	ErrUnsupportedKind   = errors.New("unsupported movement kind")
)

// NextBalance computes the balance that results from applying a movement of
// the given kind and amount to the prior balance. It is a pure function: all
// balance arithmetic in the ledger goes through here, and nowhere else.
//
//	PURCHASE   amount > 0            prior + amount
//	PAYMENT    0 < amount <= prior   prior - amount
//	ADJUSTMENT amount != 0, signed   prior - amount
//
// The credit limit is not checked here: it belongs to the customer, not to
// the arithmetic, and is enforced by the service before calling this.
func NextBalance(kind Kind, amount, prior types.Money) (types.Money, error) {
	switch kind {
	case KindPurchase:
		if !amount.IsPositive() {
			return types.Zero(), ErrNonPositiveAmount
		}
		return prior.Add(amount), nil

	case KindPayment:
		if !amount.IsPositive() {
			return types.Zero(), ErrNonPositiveAmount
		}
		if amount.GreaterThan(prior) {
			return types.Zero(), ErrOverpayment
		}
		return prior.Sub(amount), nil

	case KindAdjustment:
		if amount.IsZero() {
			return types.Zero(), ErrZeroAdjustment
		}
		return prior.Sub(amount), nil

	default:
		return types.Zero(), ErrUnsupportedKind
	}
}
