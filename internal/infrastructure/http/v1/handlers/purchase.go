package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"almacen/internal/domain/documents/purchase"
	"almacen/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler serves goods receipts.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a purchase handler.
func NewPurchaseHandler(service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Receive handles POST /purchases.
func (h *PurchaseHandler) Receive(c *gin.Context) {
	var req dto.ReceiveGoodsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.Receive(c.Request.Context(), draft)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromPurchaseOrder(order))
}

// Get handles GET /purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	orderID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPurchaseOrder(order))
}

// List handles GET /purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	filter := purchase.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	from, err := dto.ParseOptionalDate("from", c.Query("from"))
	if err != nil {
		h.Error(c, err)
		return
	}
	to, err := dto.ParseOptionalDate("to", c.Query("to"))
	if err != nil {
		h.Error(c, err)
		return
	}
	supplierID, err := dto.ParseOptionalID("supplierId", c.Query("supplierId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.From = from
	filter.To = to
	filter.SupplierID = supplierID

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPurchaseOrders(items))
}
