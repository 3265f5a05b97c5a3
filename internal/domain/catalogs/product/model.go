// Package product provides the product catalog with stock tracking fields.
package product

import (
	"context"
	"strings"
	"time"

	"almacen/internal/core/apperror"
	"almacen/internal/core/entity"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
)

// Product is a sellable item. Stock is the materialized on-hand quantity in
// whole units; every change goes through the stock service, which writes a
// ledger movement and updates Stock in the same transaction.
type Product struct {
	entity.Catalog

	// Barcode is the scan code, unique when present
	Barcode string `db:"barcode" json:"barcode,omitempty"`

	// CategoryID groups products for reporting, nil for uncategorized
	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	Description string `db:"description" json:"description,omitempty"`

	// PurchasePrice is the last known unit cost
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SalePrice is the default unit price for new sale lines
	SalePrice types.Money `db:"sale_price" json:"salePrice"`

	// Stock is the on-hand quantity in whole units, never negative
	Stock int64 `db:"stock" json:"stock"`

	// MinStock is the reorder threshold for the low-stock report
	MinStock int64 `db:"min_stock" json:"minStock"`

	// ExpiryDate is set for perishables, nil otherwise
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
}

// New creates a product with generated ID and zero stock.
func New(name string, salePrice types.Money) *Product {
	return &Product{
		Catalog:       entity.NewCatalog(name),
		SalePrice:     salePrice,
		PurchasePrice: types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if !p.SalePrice.IsPositive() {
		return apperror.NewValidation("sale price must be positive").
			WithDetail("field", "salePrice").
			WithDetail("value", p.SalePrice.String())
	}
	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}
	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}
	p.Barcode = strings.TrimSpace(p.Barcode)
	return nil
}

// IsLowStock reports whether the product is at or below its reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.MinStock > 0 && p.Stock <= p.MinStock
}

// IsExpired reports whether the product is past its expiry date.
func (p *Product) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}
