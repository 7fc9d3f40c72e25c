// Package main is the entry point for the stocklink API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/domain"
	"stocklink/internal/domain/catalogs/supplier"
	"stocklink/internal/domain/catalogs/variant"
	"stocklink/internal/domain/catalogs/warehouse"
	"stocklink/internal/domain/contracts"
	"stocklink/internal/domain/inbound"
	"stocklink/internal/domain/orders"
	"stocklink/internal/domain/registers/stock"
	"stocklink/internal/infrastructure/cache"
	v1 "stocklink/internal/infrastructure/http/v1"
	"stocklink/internal/infrastructure/storage/postgres"
	"stocklink/internal/infrastructure/storage/postgres/catalog_repo"
	"stocklink/internal/infrastructure/storage/postgres/document_repo"
	"stocklink/internal/infrastructure/storage/postgres/register_repo"
	"stocklink/pkg/logger"
	"stocklink/pkg/numerator"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stocklink server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numerator ---
	numeratorService := numerator.New(pool)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Entity cache (optional) ---
	var entityCache *cache.EntityCache
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		client, err := cache.NewClient(ctx, cache.Config{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		})
		if err != nil {
			log.Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			entityCache = cache.NewEntityCache(client)
			defer entityCache.Close()
			log.Infow("catalog cache enabled", "addr", redisAddr)
		}
	}

	// --- Repositories ---
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	variantRepo := catalog_repo.NewVariantRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	orderRepo := document_repo.NewOrderRepo(txManager)
	contractRepo := document_repo.NewContractRepo(txManager)
	inboundRepo := document_repo.NewInboundRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)

	// --- Catalog services ---
	warehouseService := domain.NewCatalogService[*warehouse.Warehouse](warehouseRepo, txManager, "warehouse")
	variantService := domain.NewCatalogService[*variant.Variant](variantRepo, txManager, "variant")
	supplierService := domain.NewCatalogService[*supplier.Supplier](supplierRepo, txManager, "supplier")

	wireCatalogHooks(warehouseService, "warehouse", auditService, entityCache,
		func(w *warehouse.Warehouse) id.ID { return w.ID })
	wireCatalogHooks(variantService, "variant", auditService, entityCache,
		func(v *variant.Variant) id.ID { return v.ID })
	wireCatalogHooks(supplierService, "supplier", auditService, entityCache,
		func(s *supplier.Supplier) id.ID { return s.ID })

	// --- Register services ---
	stockService := stock.NewService(stockRepo)

	// --- Document services ---
	orderService := orders.NewService(orderRepo, warehouseRepo, numeratorService, txManager)
	orderService.Hooks().On(domain.AfterCreate, func(ctx context.Context, o *orders.Order) error {
		return auditService.LogChange(ctx, "order", o.ID, postgres.AuditActionCreate, postgres.StructToMap(o))
	})

	contractService := contracts.NewService(contractRepo, supplierRepo, numeratorService, txManager)
	contractService.Hooks().On(domain.AfterCreate, func(ctx context.Context, c *contracts.Contract) error {
		return auditService.LogChange(ctx, "contract", c.ID, postgres.AuditActionCreate, postgres.StructToMap(c))
	})
	contractService.Hooks().On(domain.AfterUpdate, func(ctx context.Context, c *contracts.Contract) error {
		return auditService.LogChange(ctx, "contract", c.ID, postgres.AuditActionUpdate, postgres.StructToMap(c))
	})

	// Orders double as outbound spawner for overseas receipts.
	inboundService := inbound.NewService(inboundRepo, stockService, orderService, warehouseRepo, numeratorService, txManager)
	inboundService.Hooks().On(domain.AfterCreate, func(ctx context.Context, p *inbound.PendingInbound) error {
		return auditService.LogChange(ctx, "pending_inbound", p.ID, postgres.AuditActionCreate, postgres.StructToMap(p))
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		AuditService:     auditService,
		WarehouseService: warehouseService,
		VariantService:   variantService,
		SupplierService:  supplierService,

		VariantLookup:      variantRepo,
		OverseasWarehouses: warehouseRepo,

		OrderService:    orderService,
		ContractService: contractService,
		InboundService:  inboundService,
		StockService:    stockService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// wireCatalogHooks attaches audit logging and cache invalidation to the
// catalog lifecycle events.
func wireCatalogHooks[T entity.Validatable](
	svc *domain.CatalogService[T],
	entityType string,
	auditService *postgres.AuditService,
	entityCache *cache.EntityCache,
	getID func(T) id.ID,
) {
	svc.Hooks().On(domain.AfterCreate, func(ctx context.Context, ent T) error {
		return auditService.LogChange(ctx, entityType, getID(ent), postgres.AuditActionCreate, postgres.StructToMap(ent))
	})
	svc.Hooks().On(domain.AfterUpdate, func(ctx context.Context, ent T) error {
		return auditService.LogChange(ctx, entityType, getID(ent), postgres.AuditActionUpdate, postgres.StructToMap(ent))
	})
	svc.Hooks().On(domain.AfterDelete, func(ctx context.Context, ent T) error {
		return auditService.LogChange(ctx, entityType, getID(ent), postgres.AuditActionDelete, postgres.StructToMap(ent))
	})

	if entityCache == nil {
		return
	}
	svc.Hooks().On(domain.AfterUpdate, func(ctx context.Context, ent T) error {
		entityCache.Invalidate(ctx, entityType, getID(ent))
		return nil
	})
	svc.Hooks().On(domain.AfterDelete, func(ctx context.Context, ent T) error {
		entityCache.Invalidate(ctx, entityType, getID(ent))
		return nil
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
