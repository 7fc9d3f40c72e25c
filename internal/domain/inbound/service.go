package inbound

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

const numberPrefix = "PI"

// RecorderTypeReceiptBatch identifies receipt batches in the stock register.
const RecorderTypeReceiptBatch = "ReceiptBatch"

// Service provides business operations for the pending-inbound pipeline.
type Service struct {
	repo      Repository
	stock     StockRegister
	spawner   OutboundSpawner
	names     WarehouseNames
	numerator *numerator.Service
	txManager tx.Manager
	hooks     *domain.HookRegistry[*PendingInbound]
}

// NewService creates a new pending-inbound service.
func NewService(repo Repository, stock StockRegister, spawner OutboundSpawner, names WarehouseNames, num *numerator.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		spawner:   spawner,
		names:     names,
		numerator: num,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*PendingInbound](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*PendingInbound] {
	return s.hooks
}

// Create creates a new pending inbound document.
func (s *Service) Create(ctx context.Context, inbound *PendingInbound) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, inbound); err != nil {
		return err
	}

	if err := inbound.Validate(ctx); err != nil {
		return err
	}

	if inbound.WarehouseName == "" {
		name, err := s.names.WarehouseName(ctx, inbound.WarehouseID)
		if err != nil {
			return fmt.Errorf("resolve warehouse name: %w", err)
		}
		inbound.WarehouseName = name
	}

	if inbound.Number == "" {
		cfg := numerator.DefaultConfig(numberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inbound.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, inbound); err != nil {
			return fmt.Errorf("create inbound: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, inbound); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "pending inbound created",
		"id", inbound.ID,
		"number", inbound.Number,
		"qty", inbound.Qty.Float64())

	return nil
}

// GetByID retrieves a pending inbound.
func (s *Service) GetByID(ctx context.Context, inboundID id.ID) (*PendingInbound, error) {
	return s.repo.GetByID(ctx, inboundID)
}

// GetBatches retrieves all receipt batches for a pending inbound.
func (s *Service) GetBatches(ctx context.Context, inboundID id.ID) ([]ReceiptBatch, error) {
	if _, err := s.repo.GetByID(ctx, inboundID); err != nil {
		return nil, err
	}
	return s.repo.GetBatchesByInbound(ctx, inboundID)
}

// List retrieves pending inbounds with filtering and pagination.
func (s *Service) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*PendingInbound], error) {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultListFilter().Limit
	}
	return s.repo.List(ctx, f)
}

// ReceiveInput is the request to record a receipt.
type ReceiveInput struct {
	Qty  types.Quantity
	Date time.Time
}

// Receive records a receipt against a pending inbound.
//
// In one transaction: the inbound row is locked, the receipt batch is
// inserted, stock at the destination warehouse is incremented atomically,
// and the received quantity and status are updated. When the receipt
// completes the inbound, a linked outbound order is spawned; the spawn is
// idempotent on the inbound id, so retries never duplicate orders.
func (s *Service) Receive(ctx context.Context, inboundID id.ID, input ReceiveInput) (*ReceiptBatch, error) {
	if !input.Qty.IsPositive() {
		return nil, apperror.NewInvalidQuantity("qty", input.Qty.Float64())
	}

	var batch *ReceiptBatch
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inbound, err := s.repo.GetForUpdate(ctx, inboundID)
		if err != nil {
			return err
		}

		remaining := inbound.Remaining()
		if input.Qty > remaining {
			return apperror.NewExceedsOrdered(input.Qty.Float64(), remaining.Float64())
		}

		date := input.Date
		if date.IsZero() {
			date = time.Now().UTC()
		}

		batch = &ReceiptBatch{
			ID:            id.New(),
			InboundID:     inbound.ID,
			Qty:           input.Qty,
			Date:          date,
			WarehouseID:   inbound.WarehouseID,
			WarehouseName: inbound.WarehouseName,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("create receipt batch: %w", err)
		}

		if err := s.stock.Increase(ctx, batch.ID, RecorderTypeReceiptBatch, date, inbound.WarehouseID, inbound.VariantID, input.Qty); err != nil {
			return fmt.Errorf("increase stock: %w", err)
		}

		inbound.ReceivedQty = inbound.ReceivedQty.Add(input.Qty)
		inbound.Status = receiptStatus(inbound.Qty, inbound.ReceivedQty)
		inbound.Touch()
		if err := s.repo.Update(ctx, inbound); err != nil {
			return fmt.Errorf("update inbound: %w", err)
		}

		if inbound.Status == StatusReceived {
			whID := inbound.WarehouseID
			if _, err := s.spawner.SpawnForInbound(ctx, inbound.ID, inbound.VariantID, inbound.SKUCode, inbound.Qty, &whID); err != nil {
				return fmt.Errorf("spawn outbound order: %w", err)
			}
		}

		logger.Info(ctx, "receipt recorded",
			"inbound_id", inbound.ID,
			"batch_id", batch.ID,
			"qty", input.Qty.Float64(),
			"status", inbound.Status)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return batch, nil
}

// ReverseReceipt removes a receipt batch and rolls back its effects.
//
// Stock is decremented first and fails closed: if the received goods were
// already dispatched the reversal is rejected with INSUFFICIENT_STOCK and
// nothing changes. The received quantity is clamped at zero and the status
// rederived (back to AWAITING_RECEIPT when it reaches zero).
func (s *Service) ReverseReceipt(ctx context.Context, inboundID, batchID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inbound, err := s.repo.GetForUpdate(ctx, inboundID)
		if err != nil {
			return err
		}

		batch, err := s.repo.GetBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if batch.InboundID != inbound.ID {
			return apperror.NewNotFound("ReceiptBatch", batchID.String()).
				WithDetail("inbound_id", inboundID.String())
		}

		if err := s.stock.Decrease(ctx, batch.ID, RecorderTypeReceiptBatch, time.Now().UTC(), batch.WarehouseID, inbound.VariantID, batch.Qty); err != nil {
			return err
		}

		if err := s.repo.DeleteBatch(ctx, batchID); err != nil {
			return fmt.Errorf("delete receipt batch: %w", err)
		}

		next := inbound.ReceivedQty.Sub(batch.Qty)
		if next.IsNegative() {
			next = 0
		}
		inbound.ReceivedQty = next
		inbound.Status = receiptStatus(inbound.Qty, inbound.ReceivedQty)
		inbound.Touch()
		if err := s.repo.Update(ctx, inbound); err != nil {
			return fmt.Errorf("update inbound: %w", err)
		}

		logger.Info(ctx, "receipt reversed",
			"inbound_id", inbound.ID,
			"batch_id", batchID,
			"qty", batch.Qty.Float64(),
			"status", inbound.Status)

		return nil
	})
}
