package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"almacen/internal/domain/documents/sale"
	"almacen/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves sale documents.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(service *sale.Service) *SaleHandler {
	return &SaleHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles POST /sales. The response carries the full receipt so the
// caller does not need a second read to confirm totals or the credit charge.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		h.Error(c, err)
		return
	}

	receipt, err := h.service.Create(c.Request.Context(), draft)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromReceipt(receipt))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(doc))
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	filter, ok := h.parseListFilter(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSales(items))
}

// UpdateLineQuantity handles PATCH /sales/:id/lines/:lineId.
func (h *SaleHandler) UpdateLineQuantity(c *gin.Context) {
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.PathID(c, "lineId")
	if !ok {
		return
	}

	var req dto.UpdateLineQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateLineQuantity(c.Request.Context(), saleID, lineID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(doc))
}

// DeleteLine handles DELETE /sales/:id/lines/:lineId. Removing a line
// returns its quantity to stock.
func (h *SaleHandler) DeleteLine(c *gin.Context) {
	saleID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.PathID(c, "lineId")
	if !ok {
		return
	}

	doc, err := h.service.DeleteLine(c.Request.Context(), saleID, lineID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(doc))
}

func (h *SaleHandler) parseListFilter(c *gin.Context) (sale.ListFilter, bool) {
	filter := sale.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	from, err := dto.ParseOptionalDate("from", c.Query("from"))
	if err != nil {
		h.Error(c, err)
		return filter, false
	}
	to, err := dto.ParseOptionalDate("to", c.Query("to"))
	if err != nil {
		h.Error(c, err)
		return filter, false
	}
	customerID, err := dto.ParseOptionalID("customerId", c.Query("customerId"))
	if err != nil {
		h.Error(c, err)
		return filter, false
	}

	filter.From = from
	filter.To = to
	filter.CustomerID = customerID
	return filter, true
}
