// Package stock provides the stock accumulation register service.
package stock

import (
	"context"
	"fmt"
	"time"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
	"stocklink/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller (the document services).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Increase records a receipt movement and atomically increments the
// warehouse+variant balance. Must be called within a transaction.
func (s *Service) Increase(ctx context.Context, recorderID id.ID, recorderType string, period time.Time, warehouseID, variantID id.ID, qty types.Quantity) error {
	if !qty.IsPositive() {
		return apperror.NewInvalidQuantity("quantity", qty.Float64())
	}
	if id.IsNil(recorderID) {
		return apperror.NewValidation("recorder_id is required")
	}

	movement := entity.NewStockMovement(
		recorderID, recorderType, period, entity.RecordTypeReceipt,
		warehouseID, variantID, qty,
	)
	if err := s.repo.CreateMovements(ctx, []entity.StockMovement{movement}); err != nil {
		return fmt.Errorf("create receipt movement: %w", err)
	}

	if err := s.repo.ApplyBalanceDelta(ctx, warehouseID, variantID, qty, period); err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}

	logger.Info(ctx, "stock increased",
		"recorder_id", recorderID,
		"warehouse_id", warehouseID,
		"variant_id", variantID,
		"quantity", qty.Float64(),
	)

	return nil
}

// Decrease records an expense movement and decrements the balance.
// The balance row is locked first; if available quantity is lower than
// requested the call fails with INSUFFICIENT_STOCK and nothing is written.
// Must be called within a transaction.
func (s *Service) Decrease(ctx context.Context, recorderID id.ID, recorderType string, period time.Time, warehouseID, variantID id.ID, qty types.Quantity) error {
	if !qty.IsPositive() {
		return apperror.NewInvalidQuantity("quantity", qty.Float64())
	}
	if id.IsNil(recorderID) {
		return apperror.NewValidation("recorder_id is required")
	}

	balance, err := s.repo.GetBalanceForUpdate(ctx, warehouseID, variantID)
	if err != nil {
		return fmt.Errorf("get balance for %s: %w", variantID, err)
	}
	if balance.Quantity < qty {
		return apperror.NewInsufficientStock(
			variantID.String(),
			qty.Float64(),
			balance.Quantity.Float64(),
		)
	}

	movement := entity.NewStockMovement(
		recorderID, recorderType, period, entity.RecordTypeExpense,
		warehouseID, variantID, qty,
	)
	if err := s.repo.CreateMovements(ctx, []entity.StockMovement{movement}); err != nil {
		return fmt.Errorf("create expense movement: %w", err)
	}

	if err := s.repo.ApplyBalanceDelta(ctx, warehouseID, variantID, qty.Neg(), period); err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}

	logger.Info(ctx, "stock decreased",
		"recorder_id", recorderID,
		"warehouse_id", warehouseID,
		"variant_id", variantID,
		"quantity", qty.Float64(),
	)

	return nil
}

// GetVariantAvailability returns available quantity across warehouses.
func (s *Service) GetVariantAvailability(ctx context.Context, variantID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByVariant(ctx, variantID)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total += b.Quantity
	}

	return total, nil
}

// GetWarehouseStock returns all variants with stock in a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID) ([]entity.StockBalance, error) {
	return s.repo.GetBalancesByWarehouse(ctx, warehouseID, BalanceFilter{
		ExcludeZero: true,
	})
}

// GetBalance returns the current balance for one warehouse+variant pair.
// A missing balance row reads as zero.
func (s *Service) GetBalance(ctx context.Context, warehouseID, variantID id.ID) (entity.StockBalance, error) {
	return s.repo.GetBalance(ctx, warehouseID, variantID)
}

// GetRecorderMovements returns the movements a recorder document produced.
// Used to inspect what a reversal would undo.
func (s *Service) GetRecorderMovements(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}

// GetMovementHistory returns movement history for a variant.
func (s *Service) GetMovementHistory(ctx context.Context, variantID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.GetMovementHistory(ctx, variantID, filter)
}

// GetStockReport generates a turnover report for the period.
func (s *Service) GetStockReport(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}
