package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/stock"
	"almacen/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog and its stock ledger.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
	stock   *stock.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(service *product.Service, stockSvc *stock.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		stock:       stockSvc,
	}
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID.String())
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// GetByBarcode handles GET /products/by-barcode/:barcode.
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	p, err := h.service.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(p); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// Delete handles DELETE /products/:id (soft delete).
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Restore handles POST /products/:id/restore.
func (h *ProductHandler) Restore(c *gin.Context) {
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Restore(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "product restored")
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	var filter dto.BaseFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      dto.FromProducts(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// LowStock handles GET /products/low-stock.
func (h *ProductHandler) LowStock(c *gin.Context) {
	items, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProducts(items))
}

// StockHistory handles GET /products/:id/stock/movements.
func (h *ProductHandler) StockHistory(c *gin.Context) {
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", stock.DefaultHistoryLimit)
	items, err := h.stock.History(c.Request.Context(), productID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStockMovements(items))
}

// AdjustStock handles POST /products/:id/stock/adjustments. Positive
// quantities add stock, negative quantities remove it.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	productID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := stock.AdjustInput{
		ProductID: productID,
		Quantity:  req.Quantity,
		Reason:    stock.ReasonAdjustment,
		Notes:     req.Notes,
	}

	var (
		movement *stock.Movement
		err      error
	)
	if req.Quantity < 0 {
		input.Quantity = -req.Quantity
		movement, err = h.stock.Decrement(c.Request.Context(), input)
	} else {
		movement, err = h.stock.Increment(c.Request.Context(), input)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStockMovement(movement))
}
