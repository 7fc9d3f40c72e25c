package stock

import (
	"context"
	"testing"
	"time"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
)

type fakeRepo struct {
	movements []entity.StockMovement
	balances  map[string]entity.StockBalance
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{balances: make(map[string]entity.StockBalance)}
}

func key(warehouseID, variantID id.ID) string {
	return warehouseID.String() + "/" + variantID.String()
}

func (r *fakeRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	var kept []entity.StockMovement
	for _, m := range r.movements {
		if m.RecorderID != recorderID {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

func (r *fakeRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.RecorderID == recorderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetBalance(ctx context.Context, warehouseID, variantID id.ID) (entity.StockBalance, error) {
	return r.balances[key(warehouseID, variantID)], nil
}

func (r *fakeRepo) GetBalanceForUpdate(ctx context.Context, warehouseID, variantID id.ID) (entity.StockBalance, error) {
	return r.balances[key(warehouseID, variantID)], nil
}

func (r *fakeRepo) ApplyBalanceDelta(ctx context.Context, warehouseID, variantID id.ID, delta types.Quantity, movementAt time.Time) error {
	b := r.balances[key(warehouseID, variantID)]
	b.WarehouseID = warehouseID
	b.VariantID = variantID
	b.Quantity += delta
	b.LastMovementAt = movementAt
	r.balances[key(warehouseID, variantID)] = b
	return nil
}

func (r *fakeRepo) GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, f BalanceFilter) ([]entity.StockBalance, error) {
	var out []entity.StockBalance
	for _, b := range r.balances {
		if b.WarehouseID == warehouseID && (!f.ExcludeZero || !b.Quantity.IsZero()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetBalancesByVariant(ctx context.Context, variantID id.ID) ([]entity.StockBalance, error) {
	var out []entity.StockBalance
	for _, b := range r.balances {
		if b.VariantID == variantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetMovementHistory(ctx context.Context, variantID id.ID, f MovementFilter) ([]entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeRepo) GetTurnover(ctx context.Context, f TurnoverFilter) (Turnover, error) {
	return Turnover{}, nil
}

func qty(f float64) types.Quantity {
	return types.NewQuantityFromFloat64(f)
}

func TestIncreaseThenDecrease(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	recorderID := id.New()
	whID := id.New()
	varID := id.New()
	now := time.Now().UTC()

	if err := svc.Increase(ctx, recorderID, "ReceiptBatch", now, whID, varID, qty(10)); err != nil {
		t.Fatalf("Increase: %v", err)
	}

	balance, _ := repo.GetBalance(ctx, whID, varID)
	if balance.Quantity != qty(10) {
		t.Errorf("balance = %v, want 10", balance.Quantity.Float64())
	}
	if len(repo.movements) != 1 || repo.movements[0].RecordType != entity.RecordTypeReceipt {
		t.Fatalf("expected one receipt movement, got %+v", repo.movements)
	}
	if repo.movements[0].SignedQuantity() != qty(10) {
		t.Errorf("signed quantity = %v, want 10", repo.movements[0].SignedQuantity().Float64())
	}

	if err := svc.Decrease(ctx, recorderID, "ReceiptBatch", now, whID, varID, qty(4)); err != nil {
		t.Fatalf("Decrease: %v", err)
	}

	balance, _ = repo.GetBalance(ctx, whID, varID)
	if balance.Quantity != qty(6) {
		t.Errorf("balance = %v, want 6", balance.Quantity.Float64())
	}
	if len(repo.movements) != 2 || repo.movements[1].RecordType != entity.RecordTypeExpense {
		t.Fatalf("expected expense movement, got %+v", repo.movements)
	}
	if repo.movements[1].SignedQuantity() != qty(-4) {
		t.Errorf("signed quantity = %v, want -4", repo.movements[1].SignedQuantity().Float64())
	}
}

func TestDecreaseFailsClosed(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	recorderID := id.New()
	whID := id.New()
	varID := id.New()
	now := time.Now().UTC()

	if err := svc.Increase(ctx, recorderID, "ReceiptBatch", now, whID, varID, qty(3)); err != nil {
		t.Fatalf("Increase: %v", err)
	}

	err := svc.Decrease(ctx, recorderID, "ReceiptBatch", now, whID, varID, qty(5))
	if !apperror.IsCode(err, apperror.CodeInsufficientStock) {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}
	appErr, _ := apperror.AsAppError(err)
	if appErr.Details["available"] != 3.0 {
		t.Errorf("available detail = %v, want 3", appErr.Details["available"])
	}

	// No expense movement was written.
	if len(repo.movements) != 1 {
		t.Errorf("movements = %d, want 1", len(repo.movements))
	}
	balance, _ := repo.GetBalance(ctx, whID, varID)
	if balance.Quantity != qty(3) {
		t.Errorf("balance mutated: %v", balance.Quantity.Float64())
	}
}

func TestRecorderMovements(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	recorderA := id.New()
	recorderB := id.New()
	whID := id.New()
	varID := id.New()
	now := time.Now().UTC()

	if err := svc.Increase(ctx, recorderA, "ReceiptBatch", now, whID, varID, qty(7)); err != nil {
		t.Fatalf("Increase: %v", err)
	}
	if err := svc.Increase(ctx, recorderB, "ReceiptBatch", now, whID, varID, qty(2)); err != nil {
		t.Fatalf("Increase: %v", err)
	}

	movements, err := svc.GetRecorderMovements(ctx, recorderA)
	if err != nil {
		t.Fatalf("GetRecorderMovements: %v", err)
	}
	if len(movements) != 1 || movements[0].Quantity != qty(7) {
		t.Fatalf("expected one movement of 7, got %+v", movements)
	}

	balance, err := svc.GetBalance(ctx, whID, varID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Quantity != qty(9) {
		t.Errorf("balance = %v, want 9", balance.Quantity.Float64())
	}
}

func TestQuantityValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	now := time.Now().UTC()

	if err := svc.Increase(ctx, id.New(), "ReceiptBatch", now, id.New(), id.New(), qty(0)); !apperror.IsCode(err, apperror.CodeInvalidQuantity) {
		t.Errorf("Increase(0): expected INVALID_QUANTITY, got %v", err)
	}
	if err := svc.Decrease(ctx, id.New(), "ReceiptBatch", now, id.New(), id.New(), qty(-1)); !apperror.IsCode(err, apperror.CodeInvalidQuantity) {
		t.Errorf("Decrease(-1): expected INVALID_QUANTITY, got %v", err)
	}
	if err := svc.Increase(ctx, id.Nil(), "ReceiptBatch", now, id.New(), id.New(), qty(1)); !apperror.IsCode(err, apperror.CodeValidation) {
		t.Errorf("nil recorder: expected VALIDATION_ERROR, got %v", err)
	}
}
