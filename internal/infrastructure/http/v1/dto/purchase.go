package dto

import (
	"time"

	"almacen/internal/domain/documents/purchase"
)

// PurchaseLineRequest is one received position.
type PurchaseLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	UnitCost  string `json:"unitCost" binding:"required"`
}

// ReceiveGoodsRequest is the body for registering a goods receipt.
// Either supplierId or supplierName is required.
type ReceiveGoodsRequest struct {
	SupplierID   string                `json:"supplierId"`
	SupplierName string                `json:"supplierName"`
	Notes        string                `json:"notes"`
	Lines        []PurchaseLineRequest `json:"lines" binding:"required"`
}

// ToDraft converts the request into a purchase draft.
func (r ReceiveGoodsRequest) ToDraft() (purchase.Draft, error) {
	d := purchase.Draft{
		SupplierName: r.SupplierName,
		Notes:        r.Notes,
	}

	supplierID, err := ParseOptionalID("supplierId", r.SupplierID)
	if err != nil {
		return d, err
	}
	d.SupplierID = supplierID

	d.Lines = make([]purchase.DraftLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		productID, err := ParseID("productId", l.ProductID)
		if err != nil {
			return d, err
		}
		cost, err := ParseAmount("unitCost", l.UnitCost)
		if err != nil {
			return d, err
		}
		d.Lines = append(d.Lines, purchase.DraftLine{
			ProductID: productID,
			Quantity:  l.Quantity,
			UnitCost:  cost,
		})
	}
	return d, nil
}

// PurchaseLineResponse represents an order line in API responses.
type PurchaseLineResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	UnitCost    string `json:"unitCost"`
	Subtotal    string `json:"subtotal"`
}

// PurchaseOrderResponse represents a goods receipt in API responses.
type PurchaseOrderResponse struct {
	ID           string                 `json:"id"`
	Date         time.Time              `json:"date"`
	SupplierID   string                 `json:"supplierId,omitempty"`
	SupplierName string                 `json:"supplierName,omitempty"`
	Total        string                 `json:"total"`
	Notes        string                 `json:"notes,omitempty"`
	Lines        []PurchaseLineResponse `json:"lines,omitempty"`
	Version      int                    `json:"version"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// FromPurchaseOrder converts a domain order to a response DTO.
func FromPurchaseOrder(o *purchase.Order) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:           o.ID.String(),
		Date:         o.Date,
		SupplierName: o.SupplierName,
		Total:        o.Total.String(),
		Notes:        o.Notes,
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
	}
	if o.SupplierID != nil {
		resp.SupplierID = o.SupplierID.String()
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ID:          l.ID.String(),
			ProductID:   l.ProductID.String(),
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost.String(),
			Subtotal:    l.Subtotal.String(),
		})
	}
	return resp
}

// FromPurchaseOrders converts a slice of orders (lines are not loaded in listings).
func FromPurchaseOrders(items []*purchase.Order) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, 0, len(items))
	for _, o := range items {
		out = append(out, FromPurchaseOrder(o))
	}
	return out
}
