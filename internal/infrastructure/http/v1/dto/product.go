package dto

import (
	"time"

	"almacen/internal/core/types"
	"almacen/internal/domain/catalogs/product"
)

// CreateProductRequest is the body for creating a product.
type CreateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Barcode       string `json:"barcode"`
	CategoryID    string `json:"categoryId"`
	Description   string `json:"description"`
	SalePrice     string `json:"salePrice" binding:"required"`
	PurchasePrice string `json:"purchasePrice"`
	MinStock      int64  `json:"minStock"`
	ExpiryDate    string `json:"expiryDate"`
}

// ToEntity converts the request to a domain product. Stock starts at zero;
// it only moves through goods receipt and sales.
func (r CreateProductRequest) ToEntity() (*product.Product, error) {
	salePrice, err := ParseAmount("salePrice", r.SalePrice)
	if err != nil {
		return nil, err
	}

	p := product.New(r.Name, salePrice)
	p.Barcode = r.Barcode
	p.Description = r.Description
	p.MinStock = r.MinStock

	if r.PurchasePrice != "" {
		cost, err := ParseAmount("purchasePrice", r.PurchasePrice)
		if err != nil {
			return nil, err
		}
		p.PurchasePrice = cost
	}
	if p.CategoryID, err = ParseOptionalID("categoryId", r.CategoryID); err != nil {
		return nil, err
	}
	if p.ExpiryDate, err = ParseOptionalDate("expiryDate", r.ExpiryDate); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProductRequest is the body for updating a product.
// Stock is not updatable here: it only moves through the stock ledger.
type UpdateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Barcode       string `json:"barcode"`
	CategoryID    string `json:"categoryId"`
	Description   string `json:"description"`
	Active        bool   `json:"active"`
	SalePrice     string `json:"salePrice" binding:"required"`
	PurchasePrice string `json:"purchasePrice"`
	MinStock      int64  `json:"minStock"`
	ExpiryDate    string `json:"expiryDate"`
}

// ApplyTo copies updatable fields onto an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) error {
	salePrice, err := ParseAmount("salePrice", r.SalePrice)
	if err != nil {
		return err
	}

	p.Name = r.Name
	p.Barcode = r.Barcode
	p.Description = r.Description
	p.Active = r.Active
	p.SalePrice = salePrice
	p.MinStock = r.MinStock

	p.PurchasePrice = types.Zero()
	if r.PurchasePrice != "" {
		cost, err := ParseAmount("purchasePrice", r.PurchasePrice)
		if err != nil {
			return err
		}
		p.PurchasePrice = cost
	}
	if p.CategoryID, err = ParseOptionalID("categoryId", r.CategoryID); err != nil {
		return err
	}
	if p.ExpiryDate, err = ParseOptionalDate("expiryDate", r.ExpiryDate); err != nil {
		return err
	}
	p.Touch()
	return nil
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Barcode       string     `json:"barcode,omitempty"`
	CategoryID    string     `json:"categoryId,omitempty"`
	Description   string     `json:"description,omitempty"`
	Active        bool       `json:"active"`
	SalePrice     string     `json:"salePrice"`
	PurchasePrice string     `json:"purchasePrice"`
	Stock         int64      `json:"stock"`
	MinStock      int64      `json:"minStock"`
	LowStock      bool       `json:"lowStock"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	DeletionMark  bool       `json:"deletionMark"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FromProduct converts a domain product to a response DTO.
func FromProduct(p *product.Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Barcode:       p.Barcode,
		Description:   p.Description,
		Active:        p.Active,
		SalePrice:     p.SalePrice.String(),
		PurchasePrice: p.PurchasePrice.String(),
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		LowStock:      p.IsLowStock(),
		ExpiryDate:    p.ExpiryDate,
		DeletionMark:  p.DeletionMark,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.CategoryID != nil {
		resp.CategoryID = p.CategoryID.String()
	}
	return resp
}

// FromProducts converts a slice of products.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}
