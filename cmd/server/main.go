// Package main is the entry point for the almacen API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"almacen/internal/auth"
	"almacen/internal/config"
	"almacen/internal/domain/catalogs/category"
	"almacen/internal/domain/catalogs/customer"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/catalogs/supplier"
	"almacen/internal/domain/credit"
	"almacen/internal/domain/documents/purchase"
	"almacen/internal/domain/documents/sale"
	"almacen/internal/domain/reports"
	"almacen/internal/domain/stock"
	v1 "almacen/internal/infrastructure/http/v1"
	"almacen/internal/infrastructure/storage/postgres"
	"almacen/internal/infrastructure/storage/postgres/catalog_repo"
	"almacen/internal/infrastructure/storage/postgres/document_repo"
	"almacen/internal/infrastructure/storage/postgres/ledger_repo"
	"almacen/internal/infrastructure/storage/postgres/report_repo"
	"almacen/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting almacen server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	creditRepo := ledger_repo.NewCreditMovementRepo(txManager)
	stockRepo := ledger_repo.NewStockMovementRepo(txManager)
	saleRepo := document_repo.NewSaleRepo(txManager)
	purchaseRepo := document_repo.NewPurchaseRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Services ---
	customerService := customer.NewService(customerRepo, txManager, log)
	productService := product.NewService(productRepo, txManager, log)
	categoryService := category.NewService(categoryRepo, txManager, log)
	supplierService := supplier.NewService(supplierRepo, txManager, log)
	creditService := credit.NewService(customerRepo, creditRepo, txManager, auditService, log)
	stockService := stock.NewService(productRepo, stockRepo, txManager, auditService, log)
	saleService := sale.NewService(saleRepo, productRepo, stockService, creditService, txManager, log)
	purchaseService := purchase.NewService(purchaseRepo, productRepo, supplierRepo, stockService, txManager, log)
	reportService := reports.NewService(reportRepo, customerRepo, cfg.Location(), log)

	// --- JWT ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool.Unwrap(),
		Logger:       log,
		JWTValidator: jwtService,
		Customers:    customerService,
		Products:     productService,
		Categories:   categoryService,
		Suppliers:    supplierService,
		Credit:       creditService,
		Stock:        stockService,
		Sales:        saleService,
		Purchases:    purchaseService,
		Reports:      reportService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			postgres.LogPoolStats(ctx, pool.Unwrap())
		}
	}()

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
