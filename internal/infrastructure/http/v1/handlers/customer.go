package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/domain/catalogs/customer"
	"almacen/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves the customer catalog.
type CustomerHandler struct {
	*BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(service *customer.Service) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), cust); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cust.ID.String())
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomer(cust))
}

// GetByRUT handles GET /customers/by-rut/:rut.
func (h *CustomerHandler) GetByRUT(c *gin.Context) {
	cust, err := h.service.GetByRUT(c.Request.Context(), c.Param("rut"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomer(cust))
}

// Update handles PUT /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(cust); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), cust); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomer(cust))
}

// Delete handles DELETE /customers/:id (soft delete).
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), customerID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Restore handles POST /customers/:id/restore.
func (h *CustomerHandler) Restore(c *gin.Context) {
	customerID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Restore(c.Request.Context(), customerID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "customer restored")
}

// List handles GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
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
		Items:      dto.FromCustomers(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Debtors handles GET /customers/debtors.
func (h *CustomerHandler) Debtors(c *gin.Context) {
	items, err := h.service.ListDebtors(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomers(items))
}
