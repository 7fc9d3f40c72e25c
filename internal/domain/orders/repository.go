package orders

import (
	"context"

	"stocklink/internal/core/id"
	"stocklink/internal/domain"
)

// Repository defines storage operations for orders and their batches.
type Repository interface {
	// Create inserts a new order
	Create(ctx context.Context, order *Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// GetForUpdate retrieves an order with a row lock (SELECT ... FOR UPDATE).
	// Used by batch recording so concurrent batches serialize on the order row.
	GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error)

	// GetBySourceInbound retrieves the outbound order spawned for a pending
	// inbound, or NotFound if none was spawned yet
	GetBySourceInbound(ctx context.Context, inboundID id.ID) (*Order, error)

	// Update modifies an order (with optimistic locking)
	Update(ctx context.Context, order *Order) error

	// SetDeletionMark sets or clears the deletion mark
	SetDeletionMark(ctx context.Context, orderID id.ID, marked bool) error

	// List retrieves orders with filtering and pagination
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Order], error)

	// Batch operations (hard delete - reversals genuinely remove the row)

	CreateBatch(ctx context.Context, batch *Batch) error
	GetBatch(ctx context.Context, batchID id.ID) (*Batch, error)
	GetBatchesByOrder(ctx context.Context, orderID id.ID) ([]Batch, error)
	DeleteBatch(ctx context.Context, batchID id.ID) error
}

// WarehouseNames resolves warehouse display names for snapshotting.
// Implemented by the warehouse catalog service.
type WarehouseNames interface {
	WarehouseName(ctx context.Context, warehouseID id.ID) (string, error)
}
