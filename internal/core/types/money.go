// Package types provides common type aliases and utilities.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use ParseMoney for values crossing the API boundary.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// ParseMoney creates a Money value from a string.
// This is the preferred constructor for amounts arriving from untrusted input:
// it never panics and rejects non-numeric text.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// FromInt creates a Money value from a whole number, exact.
func FromInt(n int64) Money {
	return decimal.NewFromInt(n)
}

// ParseQuantity parses an integer unit count from untrusted input.
// Stock is counted in whole sellable units; fractional input is rejected.
func ParseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return q, nil
}
