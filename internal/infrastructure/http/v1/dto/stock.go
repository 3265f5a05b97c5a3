package dto

import (
	"time"

	"almacen/internal/domain/stock"
)

// AdjustStockRequest is the body for a manual stock adjustment.
type AdjustStockRequest struct {
	Quantity int64  `json:"quantity" binding:"required"`
	Notes    string `json:"notes"`
}

// StockMovementResponse represents a stock movement in API responses.
type StockMovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Direction  string    `json:"direction"`
	Quantity   int64     `json:"quantity"`
	StockAfter int64     `json:"stockAfter"`
	Reason     string    `json:"reason"`
	RefID      string    `json:"refId,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	RecordedBy string    `json:"recordedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromStockMovement converts a domain movement to a response DTO.
func FromStockMovement(m *stock.Movement) StockMovementResponse {
	resp := StockMovementResponse{
		ID:         m.ID.String(),
		ProductID:  m.ProductID.String(),
		Direction:  string(m.Direction),
		Quantity:   m.Quantity,
		StockAfter: m.StockAfter,
		Reason:     m.Reason,
		Notes:      m.Notes,
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt,
	}
	if m.RefID != nil {
		resp.RefID = m.RefID.String()
	}
	return resp
}

// FromStockMovements converts a slice of movements.
func FromStockMovements(items []*stock.Movement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromStockMovement(m))
	}
	return out
}
