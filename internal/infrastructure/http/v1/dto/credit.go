package dto

import (
	"time"

	"almacen/internal/domain/credit"
)

// RegisterMovementRequest is the body for recording a credit movement.
type RegisterMovementRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	Notes  string `json:"notes"`
}

// MovementResponse represents a credit movement in API responses.
type MovementResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	Kind         string    `json:"kind"`
	Amount       string    `json:"amount"`
	BalanceAfter string    `json:"balanceAfter"`
	SaleID       string    `json:"saleId,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RecordedBy   string    `json:"recordedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromMovement converts a domain movement to a response DTO.
func FromMovement(m *credit.Movement) MovementResponse {
	resp := MovementResponse{
		ID:           m.ID.String(),
		CustomerID:   m.CustomerID.String(),
		Kind:         string(m.Kind),
		Amount:       m.Amount.String(),
		BalanceAfter: m.BalanceAfter.String(),
		Notes:        m.Notes,
		RecordedBy:   m.RecordedBy,
		CreatedAt:    m.CreatedAt,
	}
	if m.SaleID != nil {
		resp.SaleID = m.SaleID.String()
	}
	return resp
}

// FromMovements converts a slice of movements.
func FromMovements(items []*credit.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromMovement(m))
	}
	return out
}

// RegisterMovementResponse carries the movement and the refreshed account
// state, so one read confirms the outcome.
type RegisterMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Customer CustomerResponse `json:"customer"`
}

// CreditStatusResponse answers a credit capacity query.
type CreditStatusResponse struct {
	CustomerID      string `json:"customerId"`
	CreditEnabled   bool   `json:"creditEnabled"`
	CreditLimit     string `json:"creditLimit"`
	Balance         string `json:"balance"`
	AvailableCredit string `json:"availableCredit"`
	CanPurchase     *bool  `json:"canPurchase,omitempty"`
	Amount          string `json:"amount,omitempty"`
}
