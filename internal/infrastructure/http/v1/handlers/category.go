package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/domain/catalogs/category"
	"almacen/internal/infrastructure/http/v1/dto"
)

// CategoryHandler serves the category catalog.
type CategoryHandler struct {
	*BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cat.ID.String())
}

// Get handles GET /categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCategory(cat))
}

// Update handles PUT /categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(cat)

	if err := h.service.Update(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCategory(cat))
}

// Delete handles DELETE /categories/:id (soft delete).
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), categoryID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
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
		Items:      dto.FromCategories(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
