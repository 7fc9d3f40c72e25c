package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/domain/inbound"
	"stocklink/internal/infrastructure/storage/postgres"
)

const (
	inboundsTable       = "doc_pending_inbounds"
	receiptBatchesTable = "doc_receipt_batches"
)

var receiptBatchCols = []string{
	"id", "inbound_id", "qty", "date",
	"warehouse_id", "warehouse_name", "created_at",
}

// InboundRepo implements inbound.Repository.
type InboundRepo struct {
	*BaseDocumentRepo[*inbound.PendingInbound]
}

// NewInboundRepo creates a new pending inbound repository.
func NewInboundRepo(txManager *postgres.TxManager) *InboundRepo {
	return &InboundRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*inbound.PendingInbound](
			txManager,
			inboundsTable,
			postgres.ExtractDBColumns[inbound.PendingInbound](),
			func() *inbound.PendingInbound { return &inbound.PendingInbound{} },
		),
	}
}

// CreateBatch inserts a receipt batch.
func (r *InboundRepo) CreateBatch(ctx context.Context, batch *inbound.ReceiptBatch) error {
	q := r.Builder().
		Insert(receiptBatchesTable).
		Columns(receiptBatchCols...).
		Values(
			batch.ID, batch.InboundID, batch.Qty, batch.Date,
			batch.WarehouseID, batch.WarehouseName, batch.CreatedAt,
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

// GetBatch retrieves a receipt batch by ID.
func (r *InboundRepo) GetBatch(ctx context.Context, batchID id.ID) (*inbound.ReceiptBatch, error) {
	batch := &inbound.ReceiptBatch{}

	q := r.Builder().
		Select(receiptBatchCols...).
		From(receiptBatchesTable).
		Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, batch, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(receiptBatchesTable, batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}

	return batch, nil
}

// GetBatchesByInbound retrieves all receipt batches for an inbound, oldest first.
func (r *InboundRepo) GetBatchesByInbound(ctx context.Context, inboundID id.ID) ([]inbound.ReceiptBatch, error) {
	q := r.Builder().
		Select(receiptBatchCols...).
		From(receiptBatchesTable).
		Where(squirrel.Eq{"inbound_id": inboundID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []inbound.ReceiptBatch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("get batches: %w", err)
	}

	return batches, nil
}

// DeleteBatch hard-deletes a receipt batch (reversal removes the row).
func (r *InboundRepo) DeleteBatch(ctx context.Context, batchID id.ID) error {
	q := r.Builder().
		Delete(receiptBatchesTable).
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
		return apperror.NewNotFound(receiptBatchesTable, batchID.String())
	}

	return nil
}

// Ensure interface compliance.
var _ inbound.Repository = (*InboundRepo)(nil)
