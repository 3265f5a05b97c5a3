package dto

import (
	"time"

	"almacen/internal/domain/documents/sale"
)

// SaleLineRequest is one line of a sale to create.
type SaleLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	// UnitPrice overrides the product sale price when present.
	UnitPrice string `json:"unitPrice"`
}

// CreateSaleRequest is the body for registering a sale.
type CreateSaleRequest struct {
	CustomerID   string            `json:"customerId"`
	CustomerName string            `json:"customerName"`
	OnCredit     bool              `json:"onCredit"`
	Notes        string            `json:"notes"`
	Lines        []SaleLineRequest `json:"lines" binding:"required"`
}

// ToDraft converts the request into a sale draft.
func (r CreateSaleRequest) ToDraft() (sale.Draft, error) {
	d := sale.Draft{
		CustomerName: r.CustomerName,
		OnCredit:     r.OnCredit,
		Notes:        r.Notes,
	}

	customerID, err := ParseOptionalID("customerId", r.CustomerID)
	if err != nil {
		return d, err
	}
	d.CustomerID = customerID

	d.Lines = make([]sale.DraftLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		productID, err := ParseID("productId", l.ProductID)
		if err != nil {
			return d, err
		}
		price, err := ParseOptionalAmount("unitPrice", l.UnitPrice)
		if err != nil {
			return d, err
		}
		d.Lines = append(d.Lines, sale.DraftLine{
			ProductID: productID,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
	}
	return d, nil
}

// UpdateLineQuantityRequest is the body for changing a sale line quantity.
type UpdateLineQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

// SaleLineResponse represents a sale line in API responses.
type SaleLineResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
}

// SaleResponse represents a sale document in API responses.
type SaleResponse struct {
	ID            string             `json:"id"`
	Date          time.Time          `json:"date"`
	CustomerID    string             `json:"customerId,omitempty"`
	CustomerName  string             `json:"customerName,omitempty"`
	PaymentMethod string             `json:"paymentMethod"`
	Total         string             `json:"total"`
	Notes         string             `json:"notes,omitempty"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// FromSale converts a domain sale to a response DTO.
func FromSale(s *sale.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID.String(),
		Date:          s.Date,
		CustomerName:  s.CustomerName,
		PaymentMethod: string(s.PaymentMethod),
		Total:         s.Total.String(),
		Notes:         s.Notes,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
	}
	if s.CustomerID != nil {
		resp.CustomerID = s.CustomerID.String()
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:          l.ID.String(),
			ProductID:   l.ProductID.String(),
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.String(),
			Subtotal:    l.Subtotal.String(),
		})
	}
	return resp
}

// FromSales converts a slice of sales (lines are not loaded in listings).
func FromSales(items []*sale.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSale(s))
	}
	return out
}

// ReceiptResponse is returned after a sale is registered. For credit
// sales it carries the ledger movement recorded for the charge.
type ReceiptResponse struct {
	Sale     SaleResponse      `json:"sale"`
	Movement *MovementResponse `json:"movement,omitempty"`
}

// FromReceipt converts a sale receipt to a response DTO.
func FromReceipt(r *sale.Receipt) ReceiptResponse {
	resp := ReceiptResponse{Sale: FromSale(r.Sale)}
	if r.Movement != nil {
		m := FromMovement(r.Movement)
		resp.Movement = &m
	}
	return resp
}
