// Package customer provides the customer catalog with store credit settings.
package customer

import (
	"context"
	"strings"

	"almacen/internal/core/apperror"
	"almacen/internal/core/entity"
	"almacen/internal/core/types"
)

// Customer is a catalog entry for a buyer of the store.
// Customers may hold a store-credit account: purchases on credit increase
// Balance (the debt), payments decrease it. Balance is materialized here and
// kept in sync with the credit movement ledger inside the same transaction.
type Customer struct {
	entity.Catalog

	// RUT is the Chilean tax identifier, unique across customers
	RUT string `db:"rut" json:"rut"`

	Address string `db:"address" json:"address,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`

	// CreditEnabled allows the customer to buy on store credit
	CreditEnabled bool `db:"credit_enabled" json:"creditEnabled"`

	// CreditLimit caps the debt the customer may accumulate
	CreditLimit types.Money `db:"credit_limit" json:"creditLimit"`

	// Balance is the current debt (positive means the customer owes money)
	Balance types.Money `db:"balance" json:"balance"`
}

// New creates a customer with generated ID and zeroed balance.
func New(name, rut string) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(name),
		RUT:     NormalizeRUT(rut),
		Balance: types.Zero(),
	}
}

// NormalizeRUT strips dots and spaces and upper-cases the check digit,
// so "12.345.678-k" and "12345678-K" compare equal.
func NormalizeRUT(rut string) string {
	rut = strings.TrimSpace(rut)
	rut = strings.ReplaceAll(rut, ".", "")
	rut = strings.ReplaceAll(rut, " ", "")
	return strings.ToUpper(rut)
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(c.RUT) == "" {
		return apperror.NewValidation("rut is required").
			WithDetail("field", "rut")
	}
	if c.CreditLimit.IsNegative() {
		return apperror.NewValidation("credit limit cannot be negative").
			WithDetail("field", "creditLimit").
			WithDetail("value", c.CreditLimit.String())
	}
	if !c.CreditEnabled && !c.CreditLimit.IsZero() {
		return apperror.NewValidation("credit limit requires credit to be enabled").
			WithDetail("field", "creditLimit")
	}
	return nil
}

// AvailableCredit returns the remaining purchasing capacity on credit.
// A negative result means the account is over its limit; only accounts
// without credit enabled report zero unconditionally.
func (c *Customer) AvailableCredit() types.Money {
	if !c.CreditEnabled {
		return types.Zero()
	}
	return c.CreditLimit.Sub(c.Balance)
}

// CanPurchase reports whether a credit purchase of the given amount fits
// within the customer's remaining capacity. A zero amount is allowed and
// answers whether the account itself is usable.
func (c *Customer) CanPurchase(amount types.Money) bool {
	if !c.CreditEnabled || !c.Active {
		return false
	}
	if amount.IsNegative() {
		return false
	}
	return c.Balance.Add(amount).LessThanOrEqual(c.CreditLimit)
}

// HasDebt reports whether the customer currently owes money.
func (c *Customer) HasDebt() bool {
	return c.Balance.IsPositive()
}
