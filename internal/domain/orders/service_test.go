package orders

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/core/ledger"
	"stocklink/internal/core/types"
	"stocklink/internal/domain"
	"stocklink/pkg/numerator"
)

// --- fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	orders  map[id.ID]*Order
	batches map[id.ID]*Batch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:  make(map[id.ID]*Order),
		batches: make(map[id.ID]*Batch),
	}
}

func (r *fakeRepo) Create(ctx context.Context, order *Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("Order", orderID.String())
	}
	return o, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *fakeRepo) GetBySourceInbound(ctx context.Context, inboundID id.ID) (*Order, error) {
	for _, o := range r.orders {
		if o.SourceInboundID != nil && *o.SourceInboundID == inboundID {
			return o, nil
		}
	}
	return nil, apperror.NewNotFound("Order", inboundID.String())
}

func (r *fakeRepo) Update(ctx context.Context, order *Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return apperror.NewNotFound("Order", order.ID.String())
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeRepo) SetDeletionMark(ctx context.Context, orderID id.ID, marked bool) error {
	o, ok := r.orders[orderID]
	if !ok {
		return apperror.NewNotFound("Order", orderID.String())
	}
	o.DeletionMark = marked
	return nil
}

func (r *fakeRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Order], error) {
	var items []*Order
	for _, o := range r.orders {
		items = append(items, o)
	}
	return domain.ListResult[*Order]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) CreateBatch(ctx context.Context, batch *Batch) error {
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeRepo) GetBatch(ctx context.Context, batchID id.ID) (*Batch, error) {
	b, ok := r.batches[batchID]
	if !ok {
		return nil, apperror.NewNotFound("Batch", batchID.String())
	}
	return b, nil
}

func (r *fakeRepo) GetBatchesByOrder(ctx context.Context, orderID id.ID) ([]Batch, error) {
	var out []Batch
	for _, b := range r.batches {
		if b.OrderID == orderID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteBatch(ctx context.Context, batchID id.ID) error {
	if _, ok := r.batches[batchID]; !ok {
		return apperror.NewNotFound("Batch", batchID.String())
	}
	delete(r.batches, batchID)
	return nil
}

type fakeNames struct {
	names map[id.ID]string
}

func (f *fakeNames) WarehouseName(ctx context.Context, warehouseID id.ID) (string, error) {
	if name, ok := f.names[warehouseID]; ok {
		return name, nil
	}
	return "", apperror.NewNotFound("Warehouse", warehouseID.String())
}

// seqRow satisfies the numerator querier with an in-memory counter.
type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = r.val
	}
	return nil
}

type seqQuerier struct{ val int64 }

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	var incr int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			incr = v
		}
	}
	q.val += incr
	return &seqRow{val: q.val}
}

func qty(f float64) types.Quantity {
	return types.NewQuantityFromFloat64(f)
}

func newTestService(repo *fakeRepo, names *fakeNames) *Service {
	if names == nil {
		names = &fakeNames{names: map[id.ID]string{}}
	}
	return NewService(repo, names, numerator.New(&seqQuerier{}), &fakeTxManager{})
}

func seedOrder(repo *fakeRepo, ordered float64) *Order {
	order := NewOrder(KindDelivery, id.New(), "SKU-001", qty(ordered))
	order.Number = "DO-2026-00001"
	repo.orders[order.ID] = order
	return order
}

// --- tests ---

func TestRecordBatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	whID := id.New()
	names := &fakeNames{names: map[id.ID]string{whID: "Main Warehouse"}}
	svc := newTestService(repo, names)
	order := seedOrder(repo, 10)

	batch, err := svc.RecordBatch(ctx, order.ID, BatchInput{
		Qty:         qty(4),
		WarehouseID: &whID,
		TrackingNo:  "TRK-1",
	})
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	if batch.WarehouseName != "Main Warehouse" {
		t.Errorf("warehouse name not snapshotted, got %q", batch.WarehouseName)
	}
	if order.FulfilledQty != qty(4) || order.Status != ledger.StatusPartial {
		t.Errorf("order not updated: fulfilled=%v status=%s", order.FulfilledQty.Float64(), order.Status)
	}

	// Second batch completes the order.
	if _, err := svc.RecordBatch(ctx, order.ID, BatchInput{Qty: qty(6)}); err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if order.Status != ledger.StatusFulfilled {
		t.Errorf("status = %s, want FULFILLED", order.Status)
	}
	if len(repo.batches) != 2 {
		t.Errorf("expected 2 batches, got %d", len(repo.batches))
	}
}

func TestRecordBatchExceedsOrdered(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	order := seedOrder(repo, 10)

	if _, err := svc.RecordBatch(ctx, order.ID, BatchInput{Qty: qty(7)}); err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	_, err := svc.RecordBatch(ctx, order.ID, BatchInput{Qty: qty(5)})
	if !apperror.IsCode(err, apperror.CodeExceedsOrdered) {
		t.Fatalf("expected EXCEEDS_ORDERED_QUANTITY, got %v", err)
	}
	appErr, _ := apperror.AsAppError(err)
	if appErr.Details["remaining"] != 3.0 {
		t.Errorf("remaining detail = %v, want 3", appErr.Details["remaining"])
	}

	// Nothing extra was persisted.
	if order.FulfilledQty != qty(7) {
		t.Errorf("fulfilled = %v, want 7", order.FulfilledQty.Float64())
	}
	if len(repo.batches) != 1 {
		t.Errorf("expected 1 batch, got %d", len(repo.batches))
	}
}

func TestRecordBatchInvalidQuantity(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	order := seedOrder(repo, 10)

	for _, q := range []float64{0, -1} {
		_, err := svc.RecordBatch(ctx, order.ID, BatchInput{Qty: qty(q)})
		if !apperror.IsCode(err, apperror.CodeInvalidQuantity) {
			t.Errorf("qty=%v: expected INVALID_QUANTITY, got %v", q, err)
		}
	}
}

func TestRecordBatchOrderNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.RecordBatch(ctx, id.New(), BatchInput{Qty: qty(1)})
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestReverseBatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	order := seedOrder(repo, 10)

	batch, err := svc.RecordBatch(ctx, order.ID, BatchInput{Qty: qty(10)})
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if order.Status != ledger.StatusFulfilled {
		t.Fatalf("status = %s, want FULFILLED", order.Status)
	}

	if err := svc.ReverseBatch(ctx, order.ID, batch.ID); err != nil {
		t.Fatalf("ReverseBatch: %v", err)
	}
	if order.FulfilledQty != 0 || order.Status != ledger.StatusPending {
		t.Errorf("after reversal: fulfilled=%v status=%s", order.FulfilledQty.Float64(), order.Status)
	}
	if len(repo.batches) != 0 {
		t.Errorf("batch not deleted")
	}

	// Reversing again is NOT_FOUND.
	if err := svc.ReverseBatch(ctx, order.ID, batch.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND on double reversal, got %v", err)
	}
}

func TestReverseBatchClampsAtZero(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	order := seedOrder(repo, 10)

	batch, err := svc.RecordBatch(ctx, order.ID, BatchInput{Qty: qty(5)})
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	// Simulate a concurrent correction that already lowered the fulfilled
	// quantity below the batch size.
	order.FulfilledQty = qty(2)

	if err := svc.ReverseBatch(ctx, order.ID, batch.ID); err != nil {
		t.Fatalf("ReverseBatch should clamp, got: %v", err)
	}
	if order.FulfilledQty != 0 || order.Status != ledger.StatusPending {
		t.Errorf("after clamped reversal: fulfilled=%v status=%s", order.FulfilledQty.Float64(), order.Status)
	}
}

func TestReverseBatchWrongOrder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	order1 := seedOrder(repo, 10)
	order2 := seedOrder(repo, 10)

	batch, err := svc.RecordBatch(ctx, order1.ID, BatchInput{Qty: qty(3)})
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	if err := svc.ReverseBatch(ctx, order2.ID, batch.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND for foreign batch, got %v", err)
	}
	if len(repo.batches) != 1 {
		t.Errorf("foreign batch must not be deleted")
	}
}

func TestSpawnForInboundIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	inboundID := id.New()
	variantID := id.New()

	first, err := svc.SpawnForInbound(ctx, inboundID, variantID, "SKU-007", qty(20), nil)
	if err != nil {
		t.Fatalf("SpawnForInbound: %v", err)
	}
	if first.Kind != KindOutbound {
		t.Errorf("kind = %s, want outbound", first.Kind)
	}
	if first.OrderedQty != qty(20) || first.Status != ledger.StatusPending {
		t.Errorf("spawned order: ordered=%v status=%s", first.OrderedQty.Float64(), first.Status)
	}
	if first.SourceInboundID == nil || *first.SourceInboundID != inboundID {
		t.Errorf("source inbound back-reference missing")
	}

	second, err := svc.SpawnForInbound(ctx, inboundID, variantID, "SKU-007", qty(20), nil)
	if err != nil {
		t.Fatalf("second SpawnForInbound: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("spawn not idempotent: %s vs %s", first.ID, second.ID)
	}
	if len(repo.orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(repo.orders))
	}
}
