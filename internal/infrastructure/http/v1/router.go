// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stocklink/internal/domain"
	"stocklink/internal/domain/catalogs/supplier"
	"stocklink/internal/domain/catalogs/variant"
	"stocklink/internal/domain/catalogs/warehouse"
	"stocklink/internal/domain/contracts"
	"stocklink/internal/domain/inbound"
	"stocklink/internal/domain/orders"
	"stocklink/internal/domain/registers/stock"
	"stocklink/internal/infrastructure/http/v1/handlers"
	"stocklink/internal/infrastructure/http/v1/middleware"
	"stocklink/internal/infrastructure/storage/postgres"
	"stocklink/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Audit history lookups
	AuditService *postgres.AuditService

	// Catalog services
	WarehouseService *domain.CatalogService[*warehouse.Warehouse]
	VariantService   *domain.CatalogService[*variant.Variant]
	SupplierService  *domain.CatalogService[*supplier.Supplier]

	// Catalog lookups backed by the repositories directly
	VariantLookup      handlers.VariantLookup
	OverseasWarehouses handlers.OverseasWarehouses

	// Document services
	OrderService    *orders.Service
	ContractService *contracts.Service
	InboundService  *inbound.Service

	// Register services
	StockService *stock.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerCatalogRoutes(v1, cfg)
		registerDocumentRoutes(v1, cfg)
		registerRegisterRoutes(v1, cfg)

		auditHandler := handlers.NewAuditHandler(handlers.NewBaseHandler(), cfg.AuditService)
		v1.GET("/audit/:entityType/:entityId", auditHandler.GetHistory)
	}

	return router
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	warehouses := catalogs.Group("/warehouses")
	RegisterCatalogRoutes(warehouses, handlers.NewWarehouseHandler(baseHandler, cfg.WarehouseService))
	warehouses.GET("/overseas", handlers.NewWarehouseLookupHandler(baseHandler, cfg.OverseasWarehouses).ListOverseas)

	variants := catalogs.Group("/variants")
	RegisterCatalogRoutes(variants, handlers.NewVariantHandler(baseHandler, cfg.VariantService))
	variants.GET("/by-sku/:sku", handlers.NewVariantLookupHandler(baseHandler, cfg.VariantLookup).GetBySKU)

	RegisterCatalogRoutes(
		catalogs.Group("/suppliers"),
		handlers.NewSupplierHandler(baseHandler, cfg.SupplierService),
	)
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docs := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	// --- DELIVERY ORDERS ---
	{
		handler := handlers.NewOrderHandler(baseHandler, cfg.OrderService)
		group := docs.Group("/orders")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.GET("/:id/batches", handler.GetBatches)
		group.POST("/:id/batches", handler.RecordBatch)
		group.DELETE("/:id/batches/:batchId", handler.ReverseBatch)
	}

	// --- PURCHASE CONTRACTS ---
	{
		handler := handlers.NewContractHandler(baseHandler, cfg.ContractService)
		group := docs.Group("/contracts")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.POST("/:id/line-deltas", handler.ApplyLineDeltas)
		group.POST("/:id/settle", handler.Settle)
		group.POST("/:id/cancel", handler.Cancel)
	}

	// --- PENDING INBOUNDS ---
	{
		handler := handlers.NewInboundHandler(baseHandler, cfg.InboundService)
		group := docs.Group("/pending-inbounds")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:id", handler.Get)
		group.GET("/:id/receipts", handler.GetReceipts)
		group.POST("/:id/receipts", handler.Receive)
		group.DELETE("/:id/receipts/:batchId", handler.ReverseReceipt)
	}
}

// registerRegisterRoutes registers accumulation register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	stockHandler := handlers.NewStockHandler(baseHandler, cfg.StockService)
	stockGroup := registers.Group("/stock")
	stockGroup.GET("/balance", stockHandler.GetBalance)
	stockGroup.GET("/balances", stockHandler.GetBalances)
	stockGroup.GET("/movements/:variantId", stockHandler.GetMovements)
	stockGroup.GET("/recorders/:recorderId/movements", stockHandler.GetRecorderMovements)
	stockGroup.GET("/turnover", stockHandler.GetTurnover)
	stockGroup.GET("/availability/:variantId", stockHandler.GetAvailability)
}
