package contracts

import (
	"context"

	"stocklink/internal/core/id"
	"stocklink/internal/domain"
)

// Repository defines storage operations for purchase contracts.
type Repository interface {
	// Create inserts a new contract (header only)
	Create(ctx context.Context, contract *Contract) error

	// GetByID retrieves a contract header by ID
	GetByID(ctx context.Context, contractID id.ID) (*Contract, error)

	// GetForUpdate retrieves a contract header with a row lock.
	// Line deltas serialize on the contract row.
	GetForUpdate(ctx context.Context, contractID id.ID) (*Contract, error)

	// Update modifies a contract header (with optimistic locking)
	Update(ctx context.Context, contract *Contract) error

	// SetDeletionMark sets or clears the deletion mark
	SetDeletionMark(ctx context.Context, contractID id.ID, marked bool) error

	// List retrieves contracts with filtering and pagination
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Contract], error)

	// Line operations

	// GetLines retrieves all lines ordered by line number
	GetLines(ctx context.Context, contractID id.ID) ([]Line, error)

	// SaveLines replaces the contract's lines
	SaveLines(ctx context.Context, contractID id.ID, lines []Line) error

	// UpdateLineQuantities persists picked/finished quantities for the
	// given lines without rewriting the rest of the row
	UpdateLineQuantities(ctx context.Context, lines []Line) error
}

// SupplierNames resolves supplier display names for snapshotting.
type SupplierNames interface {
	SupplierName(ctx context.Context, supplierID id.ID) (string, error)
}
