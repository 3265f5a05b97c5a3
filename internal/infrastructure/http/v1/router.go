// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"almacen/internal/core/appctx"
	"almacen/internal/domain/catalogs/category"
	"almacen/internal/domain/catalogs/customer"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/catalogs/supplier"
	"almacen/internal/domain/credit"
	"almacen/internal/domain/documents/purchase"
	"almacen/internal/domain/documents/sale"
	"almacen/internal/domain/reports"
	"almacen/internal/domain/stock"
	"almacen/internal/infrastructure/http/v1/handlers"
	"almacen/internal/infrastructure/http/v1/middleware"
	"almacen/pkg/logger"
)

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	Customers  *customer.Service
	Products   *product.Service
	Categories *category.Service
	Suppliers  *supplier.Service
	Credit     *credit.Service
	Stock      *stock.Service
	Sales      *sale.Service
	Purchases  *purchase.Service
	Reports    *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// API v1 (JWT required)
	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	{
		registerCustomerRoutes(api, cfg)
		registerProductRoutes(api, cfg)
		registerCatalogRoutes(api, cfg)
		registerDocumentRoutes(api, cfg)
		registerReportRoutes(api, cfg)
	}

	return router
}

func registerCustomerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	customerHandler := handlers.NewCustomerHandler(cfg.Customers)
	creditHandler := handlers.NewCreditHandler(cfg.Credit)

	adminOnly := middleware.RequireRole(appctx.RoleAdmin)
	cashier := middleware.RequireRole(appctx.RoleCashier)

	customers := rg.Group("/customers")
	{
		customers.POST("", customerHandler.Create)
		customers.GET("", customerHandler.List)
		customers.GET("/debtors", customerHandler.Debtors)
		customers.GET("/by-rut/:rut", customerHandler.GetByRUT)
		customers.GET("/:id", customerHandler.Get)
		customers.PUT("/:id", customerHandler.Update)
		customers.DELETE("/:id", adminOnly, customerHandler.Delete)
		customers.POST("/:id/restore", adminOnly, customerHandler.Restore)

		customers.POST("/:id/credit/movements", cashier, creditHandler.RegisterMovement)
		customers.GET("/:id/credit/movements", creditHandler.ListMovements)
		customers.GET("/:id/credit/status", creditHandler.Status)
	}
}

func registerProductRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	productHandler := handlers.NewProductHandler(cfg.Products, cfg.Stock)

	adminOnly := middleware.RequireRole(appctx.RoleAdmin)
	warehouse := middleware.RequireRole(appctx.RoleWarehouse)

	products := rg.Group("/products")
	{
		products.POST("", productHandler.Create)
		products.GET("", productHandler.List)
		products.GET("/low-stock", productHandler.LowStock)
		products.GET("/by-barcode/:barcode", productHandler.GetByBarcode)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", adminOnly, productHandler.Delete)
		products.POST("/:id/restore", adminOnly, productHandler.Restore)

		products.GET("/:id/stock/movements", productHandler.StockHistory)
		products.POST("/:id/stock/adjustments", warehouse, productHandler.AdjustStock)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	categoryHandler := handlers.NewCategoryHandler(cfg.Categories)
	supplierHandler := handlers.NewSupplierHandler(cfg.Suppliers)

	adminOnly := middleware.RequireRole(appctx.RoleAdmin)

	categories := rg.Group("/categories")
	{
		categories.POST("", categoryHandler.Create)
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.Get)
		categories.PUT("/:id", categoryHandler.Update)
		categories.DELETE("/:id", adminOnly, categoryHandler.Delete)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", supplierHandler.Create)
		suppliers.GET("", supplierHandler.List)
		suppliers.GET("/:id", supplierHandler.Get)
		suppliers.PUT("/:id", supplierHandler.Update)
		suppliers.DELETE("/:id", adminOnly, supplierHandler.Delete)
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	saleHandler := handlers.NewSaleHandler(cfg.Sales)
	purchaseHandler := handlers.NewPurchaseHandler(cfg.Purchases)

	cashier := middleware.RequireRole(appctx.RoleCashier)
	warehouse := middleware.RequireRole(appctx.RoleWarehouse)

	sales := rg.Group("/sales")
	{
		sales.POST("", cashier, saleHandler.Create)
		sales.GET("", saleHandler.List)
		sales.GET("/:id", saleHandler.Get)
		sales.PATCH("/:id/lines/:lineId", cashier, saleHandler.UpdateLineQuantity)
		sales.DELETE("/:id/lines/:lineId", cashier, saleHandler.DeleteLine)
	}

	purchases := rg.Group("/purchases")
	{
		purchases.POST("", warehouse, purchaseHandler.Receive)
		purchases.GET("", purchaseHandler.List)
		purchases.GET("/:id", purchaseHandler.Get)
	}
}

func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	reportHandler := handlers.NewReportsHandler(cfg.Reports)

	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/sales/summary", reportHandler.Summary)
		reportsGroup.GET("/sales/by-day", reportHandler.ByDay)
		reportsGroup.GET("/sales/top-products", reportHandler.TopProducts)
		reportsGroup.GET("/sales/by-category", reportHandler.ByCategory)
		reportsGroup.GET("/sales/today", reportHandler.Today)
		reportsGroup.GET("/debtors", reportHandler.Debtors)
	}
}
