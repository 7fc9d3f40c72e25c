package inbound

import (
	"context"
	"testing"
	"time"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/core/types"
	"stocklink/internal/domain"
	"stocklink/internal/domain/orders"
)

// --- fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	inbounds map[id.ID]*PendingInbound
	batches  map[id.ID]*ReceiptBatch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		inbounds: make(map[id.ID]*PendingInbound),
		batches:  make(map[id.ID]*ReceiptBatch),
	}
}

func (r *fakeRepo) Create(ctx context.Context, p *PendingInbound) error {
	r.inbounds[p.ID] = p
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, inboundID id.ID) (*PendingInbound, error) {
	p, ok := r.inbounds[inboundID]
	if !ok {
		return nil, apperror.NewNotFound("PendingInbound", inboundID.String())
	}
	return p, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, inboundID id.ID) (*PendingInbound, error) {
	return r.GetByID(ctx, inboundID)
}

func (r *fakeRepo) Update(ctx context.Context, p *PendingInbound) error {
	if _, ok := r.inbounds[p.ID]; !ok {
		return apperror.NewNotFound("PendingInbound", p.ID.String())
	}
	r.inbounds[p.ID] = p
	return nil
}

func (r *fakeRepo) SetDeletionMark(ctx context.Context, inboundID id.ID, marked bool) error {
	p, ok := r.inbounds[inboundID]
	if !ok {
		return apperror.NewNotFound("PendingInbound", inboundID.String())
	}
	p.DeletionMark = marked
	return nil
}

func (r *fakeRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*PendingInbound], error) {
	var items []*PendingInbound
	for _, p := range r.inbounds {
		items = append(items, p)
	}
	return domain.ListResult[*PendingInbound]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) CreateBatch(ctx context.Context, batch *ReceiptBatch) error {
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeRepo) GetBatch(ctx context.Context, batchID id.ID) (*ReceiptBatch, error) {
	b, ok := r.batches[batchID]
	if !ok {
		return nil, apperror.NewNotFound("ReceiptBatch", batchID.String())
	}
	return b, nil
}

func (r *fakeRepo) GetBatchesByInbound(ctx context.Context, inboundID id.ID) ([]ReceiptBatch, error) {
	var out []ReceiptBatch
	for _, b := range r.batches {
		if b.InboundID == inboundID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteBatch(ctx context.Context, batchID id.ID) error {
	if _, ok := r.batches[batchID]; !ok {
		return apperror.NewNotFound("ReceiptBatch", batchID.String())
	}
	delete(r.batches, batchID)
	return nil
}

// fakeStock keeps per warehouse+variant balances and fails closed on
// shortage like the real register.
type fakeStock struct {
	balances map[string]types.Quantity
}

func newFakeStock() *fakeStock {
	return &fakeStock{balances: make(map[string]types.Quantity)}
}

func stockKey(warehouseID, variantID id.ID) string {
	return warehouseID.String() + "/" + variantID.String()
}

func (f *fakeStock) Increase(ctx context.Context, recorderID id.ID, recorderType string, period time.Time, warehouseID, variantID id.ID, qty types.Quantity) error {
	f.balances[stockKey(warehouseID, variantID)] += qty
	return nil
}

func (f *fakeStock) Decrease(ctx context.Context, recorderID id.ID, recorderType string, period time.Time, warehouseID, variantID id.ID, qty types.Quantity) error {
	key := stockKey(warehouseID, variantID)
	if f.balances[key] < qty {
		return apperror.NewInsufficientStock(variantID.String(), qty.Float64(), f.balances[key].Float64())
	}
	f.balances[key] -= qty
	return nil
}

type fakeSpawner struct {
	spawned map[id.ID]*orders.Order
	calls   int
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{spawned: make(map[id.ID]*orders.Order)}
}

func (f *fakeSpawner) SpawnForInbound(ctx context.Context, inboundID, variantID id.ID, skuCode string, qty types.Quantity, warehouseID *id.ID) (*orders.Order, error) {
	f.calls++
	if existing, ok := f.spawned[inboundID]; ok {
		return existing, nil
	}
	order := orders.NewOrder(orders.KindOutbound, variantID, skuCode, qty)
	order.SourceInboundID = &inboundID
	f.spawned[inboundID] = order
	return order, nil
}

type fakeNames struct{}

func (f *fakeNames) WarehouseName(ctx context.Context, warehouseID id.ID) (string, error) {
	return "Overseas Hub", nil
}

func qty(f float64) types.Quantity {
	return types.NewQuantityFromFloat64(f)
}

type testEnv struct {
	repo    *fakeRepo
	stock   *fakeStock
	spawner *fakeSpawner
	svc     *Service
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()
	stock := newFakeStock()
	spawner := newFakeSpawner()
	svc := NewService(repo, stock, spawner, &fakeNames{}, nil, &fakeTxManager{})
	return &testEnv{repo: repo, stock: stock, spawner: spawner, svc: svc}
}

func seedInbound(repo *fakeRepo, expected float64) *PendingInbound {
	p := NewPendingInbound(id.New(), "SKU-100", qty(expected), id.New())
	p.Number = "PI-2026-00001"
	p.WarehouseName = "Overseas Hub"
	repo.inbounds[p.ID] = p
	return p
}

// --- tests ---

func TestReceivePartialThenFull(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	p := seedInbound(env.repo, 10)

	batch, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(4)})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if p.Status != StatusPartial || p.ReceivedQty != qty(4) {
		t.Errorf("after partial receipt: status=%s received=%v", p.Status, p.ReceivedQty.Float64())
	}
	if batch.WarehouseName != "Overseas Hub" {
		t.Errorf("warehouse snapshot missing on batch: %q", batch.WarehouseName)
	}
	if env.stock.balances[stockKey(p.WarehouseID, p.VariantID)] != qty(4) {
		t.Errorf("stock not incremented")
	}
	if env.spawner.calls != 0 {
		t.Errorf("outbound spawned before full receipt")
	}

	if _, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(6)}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if p.Status != StatusReceived {
		t.Errorf("status = %s, want RECEIVED", p.Status)
	}
	if env.spawner.calls != 1 {
		t.Errorf("spawner calls = %d, want 1", env.spawner.calls)
	}
	order := env.spawner.spawned[p.ID]
	if order == nil || order.OrderedQty != qty(10) {
		t.Errorf("spawned outbound order wrong: %+v", order)
	}
}

func TestReceiveExceedsExpected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	p := seedInbound(env.repo, 10)

	if _, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(8)}); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	_, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(3)})
	if !apperror.IsCode(err, apperror.CodeExceedsOrdered) {
		t.Fatalf("expected EXCEEDS_ORDERED_QUANTITY, got %v", err)
	}
	appErr, _ := apperror.AsAppError(err)
	if appErr.Details["remaining"] != 2.0 {
		t.Errorf("remaining detail = %v, want 2", appErr.Details["remaining"])
	}

	if p.ReceivedQty != qty(8) {
		t.Errorf("received mutated on rejection: %v", p.ReceivedQty.Float64())
	}
	if len(env.repo.batches) != 1 {
		t.Errorf("expected 1 batch, got %d", len(env.repo.batches))
	}
}

func TestReceiveInvalidQuantity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	p := seedInbound(env.repo, 10)

	for _, q := range []float64{0, -2} {
		_, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(q)})
		if !apperror.IsCode(err, apperror.CodeInvalidQuantity) {
			t.Errorf("qty=%v: expected INVALID_QUANTITY, got %v", q, err)
		}
	}
}

func TestReceiveSpawnIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	p := seedInbound(env.repo, 10)

	batch, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(10)})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	// Reverse and receive again: the second full receipt must reuse the
	// already spawned order instead of creating another.
	if err := env.svc.ReverseReceipt(ctx, p.ID, batch.ID); err != nil {
		t.Fatalf("ReverseReceipt: %v", err)
	}
	if _, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(10)}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(env.spawner.spawned) != 1 {
		t.Errorf("expected 1 spawned order, got %d", len(env.spawner.spawned))
	}
}

func TestReverseReceipt(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	p := seedInbound(env.repo, 10)

	batch, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(10)})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if err := env.svc.ReverseReceipt(ctx, p.ID, batch.ID); err != nil {
		t.Fatalf("ReverseReceipt: %v", err)
	}
	if p.ReceivedQty != 0 || p.Status != StatusAwaiting {
		t.Errorf("after reversal: received=%v status=%s", p.ReceivedQty.Float64(), p.Status)
	}
	if env.stock.balances[stockKey(p.WarehouseID, p.VariantID)] != 0 {
		t.Errorf("stock not rolled back")
	}
	if len(env.repo.batches) != 0 {
		t.Errorf("batch not deleted")
	}
}

func TestReverseReceiptFailsClosedOnShortage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	p := seedInbound(env.repo, 10)

	batch, err := env.svc.Receive(ctx, p.ID, ReceiveInput{Qty: qty(10)})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	// Goods were dispatched in the meantime.
	key := stockKey(p.WarehouseID, p.VariantID)
	env.stock.balances[key] = qty(3)

	err = env.svc.ReverseReceipt(ctx, p.ID, batch.ID)
	if !apperror.IsCode(err, apperror.CodeInsufficientStock) {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	// Nothing was mutated.
	if p.ReceivedQty != qty(10) || p.Status != StatusReceived {
		t.Errorf("inbound mutated on failed reversal: received=%v status=%s", p.ReceivedQty.Float64(), p.Status)
	}
	if len(env.repo.batches) != 1 {
		t.Errorf("batch deleted despite failed reversal")
	}
	if env.stock.balances[key] != qty(3) {
		t.Errorf("stock mutated on failed reversal: %v", env.stock.balances[key].Float64())
	}
}

func TestReverseReceiptWrongInbound(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	p1 := seedInbound(env.repo, 10)
	p2 := seedInbound(env.repo, 10)

	batch, err := env.svc.Receive(ctx, p1.ID, ReceiveInput{Qty: qty(5)})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if err := env.svc.ReverseReceipt(ctx, p2.ID, batch.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND for foreign batch, got %v", err)
	}
}
