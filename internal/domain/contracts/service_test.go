package contracts

import (
	"context"
	"testing"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
	"stocklink/internal/domain"
)

// --- fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	contracts map[id.ID]*Contract
	lines     map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		contracts: make(map[id.ID]*Contract),
		lines:     make(map[id.ID][]Line),
	}
}

func (r *fakeRepo) Create(ctx context.Context, c *Contract) error {
	r.contracts[c.ID] = c
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, contractID id.ID) (*Contract, error) {
	c, ok := r.contracts[contractID]
	if !ok {
		return nil, apperror.NewNotFound("Contract", contractID.String())
	}
	return c, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, contractID id.ID) (*Contract, error) {
	return r.GetByID(ctx, contractID)
}

func (r *fakeRepo) Update(ctx context.Context, c *Contract) error {
	if _, ok := r.contracts[c.ID]; !ok {
		return apperror.NewNotFound("Contract", c.ID.String())
	}
	r.contracts[c.ID] = c
	return nil
}

func (r *fakeRepo) SetDeletionMark(ctx context.Context, contractID id.ID, marked bool) error {
	c, ok := r.contracts[contractID]
	if !ok {
		return apperror.NewNotFound("Contract", contractID.String())
	}
	c.DeletionMark = marked
	return nil
}

func (r *fakeRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Contract], error) {
	var items []*Contract
	for _, c := range r.contracts {
		items = append(items, c)
	}
	return domain.ListResult[*Contract]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) GetLines(ctx context.Context, contractID id.ID) ([]Line, error) {
	out := make([]Line, len(r.lines[contractID]))
	copy(out, r.lines[contractID])
	return out, nil
}

func (r *fakeRepo) SaveLines(ctx context.Context, contractID id.ID, lines []Line) error {
	r.lines[contractID] = lines
	return nil
}

func (r *fakeRepo) UpdateLineQuantities(ctx context.Context, lines []Line) error {
	for _, updated := range lines {
		stored := r.lines[updated.ContractID]
		for i := range stored {
			if stored[i].ID == updated.ID {
				stored[i].PickedQty = updated.PickedQty
				stored[i].FinishedQty = updated.FinishedQty
			}
		}
	}
	return nil
}

type fakeNames struct{}

func (f *fakeNames) SupplierName(ctx context.Context, supplierID id.ID) (string, error) {
	return "Acme Supply Co", nil
}

func qty(f float64) types.Quantity {
	return types.NewQuantityFromFloat64(f)
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, &fakeNames{}, nil, &fakeTxManager{})
}

// seedContract creates a two-line contract: line 1 ordered 10, line 2 ordered 5.
func seedContract(repo *fakeRepo) *Contract {
	c := NewContract(id.New())
	c.Number = "PC-2026-00001"
	c.Lines = []Line{
		NewLine(c.ID, 1, id.New(), "SKU-A", qty(10), types.MustMoney("2.50")),
		NewLine(c.ID, 2, id.New(), "SKU-B", qty(5), types.MustMoney("4.00")),
	}
	c.Reaggregate()
	repo.contracts[c.ID] = c
	repo.lines[c.ID] = append([]Line(nil), c.Lines...)
	return c
}

// --- tests ---

func TestApplyLineDeltasPicked(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	c := seedContract(repo)

	got, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(4)},
		{LineNo: 2, Qty: qty(5)},
	})
	if err != nil {
		t.Fatalf("ApplyLineDeltas: %v", err)
	}

	if got.PickedQty != qty(9) {
		t.Errorf("aggregate picked = %v, want 9", got.PickedQty.Float64())
	}
	if got.Status != StatusPartialShipment {
		t.Errorf("status = %s, want PARTIAL_SHIPMENT", got.Status)
	}

	// Complete line 1: contract becomes SHIPPED.
	got, err = svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(6)},
	})
	if err != nil {
		t.Fatalf("ApplyLineDeltas: %v", err)
	}
	if got.Status != StatusShipped {
		t.Errorf("status = %s, want SHIPPED", got.Status)
	}
	if got.PickedQty != qty(15) || got.OrderedQty != qty(15) {
		t.Errorf("aggregates: picked=%v ordered=%v", got.PickedQty.Float64(), got.OrderedQty.Float64())
	}
}

func TestApplyLineDeltasAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	c := seedContract(repo)

	// Line 1 delta is fine, line 2 overflows: the whole set must be rejected.
	_, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(3)},
		{LineNo: 2, Qty: qty(6)},
	})
	if !apperror.IsCode(err, apperror.CodeLineOverflow) {
		t.Fatalf("expected LINE_OVERFLOW, got %v", err)
	}

	appErr, _ := apperror.AsAppError(err)
	if appErr.Details["lineNo"] != 2 {
		t.Errorf("lineNo detail = %v, want 2", appErr.Details["lineNo"])
	}
	if appErr.Details["sku"] != "SKU-B" {
		t.Errorf("sku detail = %v, want SKU-B", appErr.Details["sku"])
	}

	// No line was touched.
	lines, _ := repo.GetLines(ctx, c.ID)
	for _, line := range lines {
		if !line.PickedQty.IsZero() {
			t.Errorf("line %d mutated despite rejection: picked=%v", line.LineNo, line.PickedQty.Float64())
		}
	}
}

func TestApplyLineDeltasNegativeResult(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	c := seedContract(repo)

	_, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(-1)},
	})
	if !apperror.IsCode(err, apperror.CodeLineOverflow) {
		t.Fatalf("expected LINE_OVERFLOW for negative result, got %v", err)
	}
}

func TestApplyLineDeltasUnknownLine(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	c := seedContract(repo)

	_, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 99, Qty: qty(1)},
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestApplyLineDeltasFinishedIsSet(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	c := seedContract(repo)

	got, err := svc.ApplyLineDeltas(ctx, c.ID, FieldFinished, []LineDelta{
		{LineNo: 1, Qty: qty(7)},
	})
	if err != nil {
		t.Fatalf("ApplyLineDeltas: %v", err)
	}
	if got.FinishedQty != qty(7) {
		t.Errorf("finished = %v, want 7", got.FinishedQty.Float64())
	}

	// Reporting a lower total replaces, it does not add.
	got, err = svc.ApplyLineDeltas(ctx, c.ID, FieldFinished, []LineDelta{
		{LineNo: 1, Qty: qty(3)},
	})
	if err != nil {
		t.Fatalf("ApplyLineDeltas: %v", err)
	}
	if got.FinishedQty != qty(3) {
		t.Errorf("finished = %v, want 3 (set, not incremented)", got.FinishedQty.Float64())
	}

	// Finished above ordered is rejected.
	_, err = svc.ApplyLineDeltas(ctx, c.ID, FieldFinished, []LineDelta{
		{LineNo: 1, Qty: qty(11)},
	})
	if !apperror.IsCode(err, apperror.CodeLineOverflow) {
		t.Fatalf("expected LINE_OVERFLOW, got %v", err)
	}

	// Finished never drives the shipment ladder.
	if got.Status != StatusPendingShipment {
		t.Errorf("status = %s, want PENDING_SHIPMENT", got.Status)
	}
}

func TestTerminalStatusNeverOverwritten(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	c := seedContract(repo)

	if err := svc.Settle(ctx, c.ID); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if c.Status != StatusSettled {
		t.Fatalf("status = %s, want SETTLED", c.Status)
	}

	// Quantity reconciliation still works but must not touch the status.
	got, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(10)},
		{LineNo: 2, Qty: qty(5)},
	})
	if err != nil {
		t.Fatalf("ApplyLineDeltas: %v", err)
	}
	if got.Status != StatusSettled {
		t.Errorf("terminal status overwritten: %s", got.Status)
	}
	if got.PickedQty != qty(15) {
		t.Errorf("picked = %v, want 15", got.PickedQty.Float64())
	}

	// Cancel after settle is a conflict.
	if err := svc.Cancel(ctx, c.ID); !apperror.IsCode(err, apperror.CodeConflict) {
		t.Errorf("expected CONFLICT, got %v", err)
	}

	// Settle again is a no-op.
	if err := svc.Settle(ctx, c.ID); err != nil {
		t.Errorf("repeated Settle should be a no-op, got %v", err)
	}
}

func TestApplyLineDeltasComposesRepeatedLines(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)
	c := seedContract(repo)

	// Two picked deltas for the same line within one set compose; together
	// they overflow even though each alone would fit.
	_, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(6)},
		{LineNo: 1, Qty: qty(6)},
	})
	if !apperror.IsCode(err, apperror.CodeLineOverflow) {
		t.Fatalf("expected LINE_OVERFLOW, got %v", err)
	}

	got, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(6)},
		{LineNo: 1, Qty: qty(4)},
	})
	if err != nil {
		t.Fatalf("ApplyLineDeltas: %v", err)
	}
	if got.LineByNo(1).PickedQty != qty(10) {
		t.Errorf("picked = %v, want 10", got.LineByNo(1).PickedQty.Float64())
	}
}

func TestZeroOrderedContractStaysPending(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	c := NewContract(id.New())
	c.Number = "PC-2026-00002"
	c.Lines = []Line{NewLine(c.ID, 1, id.New(), "SKU-Z", qty(0), types.MustMoney("1.00"))}
	c.Reaggregate()
	repo.contracts[c.ID] = c
	repo.lines[c.ID] = append([]Line(nil), c.Lines...)

	got, err := svc.ApplyLineDeltas(ctx, c.ID, FieldPicked, []LineDelta{
		{LineNo: 1, Qty: qty(0)},
	})
	if err != nil {
		t.Fatalf("ApplyLineDeltas: %v", err)
	}
	if got.Status != StatusPendingShipment {
		t.Errorf("zero-ordered contract status = %s, want PENDING_SHIPMENT", got.Status)
	}
}
