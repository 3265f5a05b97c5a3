package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/domain/credit"
	"almacen/internal/infrastructure/http/v1/dto"
)

// CreditHandler serves the customer credit ledger.
type CreditHandler struct {
	*BaseHandler
	service *credit.Service
}

// NewCreditHandler creates a credit handler.
func NewCreditHandler(service *credit.Service) *CreditHandler {
	return &CreditHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// RegisterMovement handles POST /customers/:id/credit/movements.
func (h *CreditHandler) RegisterMovement(c *gin.Context) {
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.RegisterMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	amount, err := dto.ParseAmount("amount", req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	movement, cust, err := h.service.RegisterMovement(c.Request.Context(), credit.RegisterInput{
		CustomerID: customerID,
		Kind:       credit.Kind(req.Kind),
		Amount:     amount,
		Notes:      req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.RegisterMovementResponse{
		Movement: dto.FromMovement(movement),
		Customer: dto.FromCustomer(cust),
	})
}

// ListMovements handles GET /customers/:id/credit/movements.
func (h *CreditHandler) ListMovements(c *gin.Context) {
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", credit.DefaultMovementLimit)
	items, err := h.service.ListMovements(c.Request.Context(), customerID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMovements(items))
}

// Status handles GET /customers/:id/credit/status. An optional amount query
// answers whether that specific purchase would fit within the limit.
func (h *CreditHandler) Status(c *gin.Context) {
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	cust, err := h.service.Account(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.CreditStatusResponse{
		CustomerID:      cust.ID.String(),
		CreditEnabled:   cust.CreditEnabled,
		CreditLimit:     cust.CreditLimit.String(),
		Balance:         cust.Balance.String(),
		AvailableCredit: cust.AvailableCredit().String(),
	}

	if raw := c.Query("amount"); raw != "" {
		amount, err := dto.ParseAmount("amount", raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		can := cust.CanPurchase(amount)
		resp.CanPurchase = &can
		resp.Amount = amount.String()
	}

	h.OK(c, resp)
}
