package handlers

import (
	"github.com/gin-gonic/gin"

	"almacen/internal/domain/reports"
	"almacen/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves read-only sales and debt analytics.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Summary handles GET /reports/sales/summary.
func (h *ReportsHandler) Summary(c *gin.Context) {
	r, ok := h.parseRange(c)
	if !ok {
		return
	}

	summary, err := h.service.SalesSummary(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalesSummary(summary))
}

// ByDay handles GET /reports/sales/by-day.
func (h *ReportsHandler) ByDay(c *gin.Context) {
	r, ok := h.parseRange(c)
	if !ok {
		return
	}

	items, err := h.service.SalesByDay(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDailySales(items))
}

// TopProducts handles GET /reports/sales/top-products.
func (h *ReportsHandler) TopProducts(c *gin.Context) {
	r, ok := h.parseRange(c)
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", reports.DefaultTopLimit)
	items, err := h.service.TopProducts(c.Request.Context(), r, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTopProducts(items))
}

// ByCategory handles GET /reports/sales/by-category.
func (h *ReportsHandler) ByCategory(c *gin.Context) {
	r, ok := h.parseRange(c)
	if !ok {
		return
	}

	items, err := h.service.SalesByCategory(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCategorySales(items))
}

// Today handles GET /reports/sales/today.
func (h *ReportsHandler) Today(c *gin.Context) {
	summary, err := h.service.TodayStats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalesSummary(summary))
}

// Debtors handles GET /reports/debtors.
func (h *ReportsHandler) Debtors(c *gin.Context) {
	items, err := h.service.Debtors(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomers(items))
}

func (h *ReportsHandler) parseRange(c *gin.Context) (reports.DateRange, bool) {
	var q dto.ReportRangeQuery
	if !h.BindQuery(c, &q) {
		return reports.DateRange{}, false
	}
	r, err := q.ToDateRange()
	if err != nil {
		h.Error(c, err)
		return r, false
	}
	return r, true
}
