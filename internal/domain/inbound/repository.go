package inbound

import (
	"context"
	"time"

	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
	"stocklink/internal/domain"
	"stocklink/internal/domain/orders"
)

// Repository defines storage operations for pending inbounds and their
// receipt batches.
type Repository interface {
	// Create inserts a new pending inbound
	Create(ctx context.Context, inbound *PendingInbound) error

	// GetByID retrieves a pending inbound by ID
	GetByID(ctx context.Context, inboundID id.ID) (*PendingInbound, error)

	// GetForUpdate retrieves a pending inbound with a row lock.
	// Concurrent receipts against the same inbound serialize on it.
	GetForUpdate(ctx context.Context, inboundID id.ID) (*PendingInbound, error)

	// Update modifies a pending inbound (with optimistic locking)
	Update(ctx context.Context, inbound *PendingInbound) error

	// SetDeletionMark sets or clears the deletion mark
	SetDeletionMark(ctx context.Context, inboundID id.ID, marked bool) error

	// List retrieves pending inbounds with filtering and pagination
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*PendingInbound], error)

	// Receipt batch operations (hard delete - reversals remove the row)

	CreateBatch(ctx context.Context, batch *ReceiptBatch) error
	GetBatch(ctx context.Context, batchID id.ID) (*ReceiptBatch, error)
	GetBatchesByInbound(ctx context.Context, inboundID id.ID) ([]ReceiptBatch, error)
	DeleteBatch(ctx context.Context, batchID id.ID) error
}

// StockRegister is the slice of the stock register service the receipt
// pipeline needs. Both calls must run inside the caller's transaction.
type StockRegister interface {
	Increase(ctx context.Context, recorderID id.ID, recorderType string, period time.Time, warehouseID, variantID id.ID, qty types.Quantity) error
	Decrease(ctx context.Context, recorderID id.ID, recorderType string, period time.Time, warehouseID, variantID id.ID, qty types.Quantity) error
}

// OutboundSpawner creates the outbound order for a fully received inbound.
// Implemented by orders.Service; the call must be idempotent.
type OutboundSpawner interface {
	SpawnForInbound(ctx context.Context, inboundID, variantID id.ID, skuCode string, qty types.Quantity, warehouseID *id.ID) (*orders.Order, error)
}

// WarehouseNames resolves warehouse display names for snapshotting.
type WarehouseNames interface {
	WarehouseName(ctx context.Context, warehouseID id.ID) (string, error)
}
