package orders

import (
	"context"
	"fmt"
	"time"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/core/tx"
	"stocklink/internal/core/types"
	"stocklink/internal/domain"
	"stocklink/pkg/logger"
	"stocklink/pkg/numerator"
)

// Number prefixes per order kind.
const (
	numberPrefixDelivery = "DO"
	numberPrefixOutbound = "OB"
)

// Service provides business operations for aggregate orders.
type Service struct {
	repo      Repository
	names     WarehouseNames
	numerator *numerator.Service
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Order]
}

// NewService creates a new order service.
func NewService(repo Repository, names WarehouseNames, num *numerator.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		names:     names,
		numerator: num,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Order](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Order] {
	return s.hooks
}

// Create creates a new order document.
func (s *Service) Create(ctx context.Context, order *Order) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, order); err != nil {
		return err
	}

	if err := order.Validate(ctx); err != nil {
		return err
	}

	if err := s.snapshotWarehouse(ctx, order.WarehouseID, &order.WarehouseName); err != nil {
		return err
	}

	if order.Number == "" {
		number, err := s.nextNumber(ctx, order.Kind)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		order.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, order); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "order created",
		"id", order.ID,
		"number", order.Number,
		"kind", order.Kind)

	return nil
}

// GetByID retrieves an order.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// GetBatches retrieves all batches recorded for an order.
func (s *Service) GetBatches(ctx context.Context, orderID id.ID) ([]Batch, error) {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.GetBatchesByOrder(ctx, orderID)
}

// List retrieves orders with filtering and pagination.
func (s *Service) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Order], error) {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultListFilter().Limit
	}
	return s.repo.List(ctx, f)
}

// BatchInput is the request to record a fulfillment batch.
type BatchInput struct {
	Qty         types.Quantity
	Date        time.Time
	WarehouseID *id.ID
	TrackingNo  string
}

// RecordBatch records a fulfillment batch against an order.
//
// The order row is locked for the duration of the transaction, so
// concurrent batches against the same order serialize and the
// ordered-quantity ceiling cannot be overshot. A quantity that exceeds
// the remaining amount fails with EXCEEDS_ORDERED_QUANTITY carrying the
// remaining quantity; nothing is persisted in that case.
func (s *Service) RecordBatch(ctx context.Context, orderID id.ID, input BatchInput) (*Batch, error) {
	if !input.Qty.IsPositive() {
		return nil, apperror.NewInvalidQuantity("qty", input.Qty.Float64())
	}

	var batch *Batch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		remaining := order.Remaining()
		if err := order.Apply(input.Qty); err != nil {
			if apperror.IsOutOfRange(err) {
				return apperror.NewExceedsOrdered(input.Qty.Float64(), remaining.Float64())
			}
			return err
		}

		date := input.Date
		if date.IsZero() {
			date = time.Now().UTC()
		}

		batch = &Batch{
			ID:          id.New(),
			OrderID:     order.ID,
			Qty:         input.Qty,
			Date:        date,
			WarehouseID: input.WarehouseID,
			TrackingNo:  input.TrackingNo,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.snapshotWarehouse(ctx, batch.WarehouseID, &batch.WarehouseName); err != nil {
			return err
		}
		if batch.WarehouseID == nil {
			batch.WarehouseID = order.WarehouseID
			batch.WarehouseName = order.WarehouseName
		}

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}

		order.Touch()
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		logger.Info(ctx, "batch recorded",
			"order_id", order.ID,
			"batch_id", batch.ID,
			"qty", input.Qty.Float64(),
			"status", order.Status)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return batch, nil
}

// ReverseBatch removes a recorded batch and releases its quantity.
//
// The fulfilled quantity is clamped at zero: if the order was corrected
// concurrently the reversal still succeeds rather than leaving the batch
// half-deleted. Dropping to zero resets the order to PENDING.
func (s *Service) ReverseBatch(ctx context.Context, orderID, batchID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		batch, err := s.repo.GetBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if batch.OrderID != order.ID {
			return apperror.NewNotFound("Batch", batchID.String()).
				WithDetail("order_id", orderID.String())
		}

		if err := s.repo.DeleteBatch(ctx, batchID); err != nil {
			return fmt.Errorf("delete batch: %w", err)
		}

		order.Release(batch.Qty)
		order.Touch()
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		logger.Info(ctx, "batch reversed",
			"order_id", order.ID,
			"batch_id", batchID,
			"qty", batch.Qty.Float64(),
			"status", order.Status)

		return nil
	})
}

// SpawnForInbound creates the outbound order linked to a fully received
// pending inbound. The operation is idempotent: if an outbound order with
// this source inbound already exists it is returned unchanged, so receipt
// retries never duplicate orders.
//
// Must be called within the caller's transaction (nested transactions
// reuse the surrounding one).
func (s *Service) SpawnForInbound(ctx context.Context, inboundID, variantID id.ID, skuCode string, qty types.Quantity, warehouseID *id.ID) (*Order, error) {
	existing, err := s.repo.GetBySourceInbound(ctx, inboundID)
	if err == nil {
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("check existing outbound: %w", err)
	}

	order := NewOrder(KindOutbound, variantID, skuCode, qty)
	order.SourceInboundID = &inboundID
	order.WarehouseID = warehouseID
	if err := s.snapshotWarehouse(ctx, order.WarehouseID, &order.WarehouseName); err != nil {
		return nil, err
	}

	number, err := s.nextNumber(ctx, KindOutbound)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	order.Number = number

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create outbound order: %w", err)
	}

	logger.Info(ctx, "outbound order spawned",
		"order_id", order.ID,
		"source_inbound_id", inboundID,
		"qty", qty.Float64())

	return order, nil
}

func (s *Service) nextNumber(ctx context.Context, kind Kind) (string, error) {
	prefix := numberPrefixDelivery
	if kind == KindOutbound {
		prefix = numberPrefixOutbound
	}
	cfg := numerator.DefaultConfig(prefix)
	return s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
}

// snapshotWarehouse resolves and stores the warehouse display name.
// No-op when the warehouse reference is absent or a name is already set.
func (s *Service) snapshotWarehouse(ctx context.Context, warehouseID *id.ID, name *string) error {
	if warehouseID == nil || *name != "" {
		return nil
	}
	resolved, err := s.names.WarehouseName(ctx, *warehouseID)
	if err != nil {
		return fmt.Errorf("resolve warehouse name: %w", err)
	}
	*name = resolved
	return nil
}
