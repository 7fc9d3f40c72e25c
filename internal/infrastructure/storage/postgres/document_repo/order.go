package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/domain/orders"
	"stocklink/internal/infrastructure/storage/postgres"
)

const (
	ordersTable       = "doc_orders"
	orderBatchesTable = "doc_order_batches"
)

var orderBatchCols = []string{
	"id", "order_id", "qty", "date",
	"warehouse_id", "warehouse_name", "tracking_no", "created_at",
}

// OrderRepo implements orders.Repository.
type OrderRepo struct {
	*BaseDocumentRepo[*orders.Order]
}

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*orders.Order](
			txManager,
			ordersTable,
			postgres.ExtractDBColumns[orders.Order](),
			func() *orders.Order { return &orders.Order{} },
		),
	}
}

// GetBySourceInbound retrieves the outbound order spawned for a pending inbound.
func (r *OrderRepo) GetBySourceInbound(ctx context.Context, inboundID id.ID) (*orders.Order, error) {
	entity := &orders.Order{}

	q := r.baseSelect().
		Where(squirrel.Eq{"source_inbound_id": inboundID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(ordersTable, inboundID.String())
		}
		return nil, fmt.Errorf("get by source inbound: %w", err)
	}

	return entity, nil
}

// CreateBatch inserts a fulfillment batch.
func (r *OrderRepo) CreateBatch(ctx context.Context, batch *orders.Batch) error {
	q := r.Builder().
		Insert(orderBatchesTable).
		Columns(orderBatchCols...).
		Values(
			batch.ID, batch.OrderID, batch.Qty, batch.Date,
			batch.WarehouseID, batch.WarehouseName, batch.TrackingNo, batch.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert batch: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	return nil
}

// GetBatch retrieves a batch by ID.
func (r *OrderRepo) GetBatch(ctx context.Context, batchID id.ID) (*orders.Batch, error) {
	batch := &orders.Batch{}

	q := r.Builder().
		Select(orderBatchCols...).
		From(orderBatchesTable).
		Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, batch, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(orderBatchesTable, batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}

	return batch, nil
}

// GetBatchesByOrder retrieves all batches for an order, oldest first.
func (r *OrderRepo) GetBatchesByOrder(ctx context.Context, orderID id.ID) ([]orders.Batch, error) {
	q := r.Builder().
		Select(orderBatchCols...).
		From(orderBatchesTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []orders.Batch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("get batches: %w", err)
	}

	return batches, nil
}

// DeleteBatch hard-deletes a batch (reversal removes the row).
func (r *OrderRepo) DeleteBatch(ctx context.Context, batchID id.ID) error {
	q := r.Builder().
		Delete(orderBatchesTable).
		Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete batch: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(orderBatchesTable, batchID.String())
	}

	return nil
}

// Ensure interface compliance.
var _ orders.Repository = (*OrderRepo)(nil)
