package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stocklink/internal/core/id"
	"stocklink/internal/domain/contracts"
	"stocklink/internal/infrastructure/storage/postgres"
)

const (
	contractsTable     = "doc_contracts"
	contractLinesTable = "doc_contract_lines"
)

var contractLineCols = []string{
	"id", "contract_id", "line_no", "variant_id", "sku_code",
	"ordered_qty", "picked_qty", "finished_qty", "unit_price", "amount",
}

// ContractRepo implements contracts.Repository.
type ContractRepo struct {
	*BaseDocumentRepo[*contracts.Contract]
	executor *postgres.BatchExecutor
}

// NewContractRepo creates a new contract repository.
func NewContractRepo(txManager *postgres.TxManager) *ContractRepo {
	return &ContractRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*contracts.Contract](
			txManager,
			contractsTable,
			postgres.ExtractDBColumns[contracts.Contract](),
			func() *contracts.Contract { return &contracts.Contract{} },
		),
		executor: postgres.NewBatchExecutor(txManager),
	}
}

// GetLines retrieves lines for a contract ordered by line number.
func (r *ContractRepo) GetLines(ctx context.Context, contractID id.ID) ([]contracts.Line, error) {
	q := r.Builder().
		Select(contractLineCols...).
		From(contractLinesTable).
		Where(squirrel.Eq{"contract_id": contractID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []contracts.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the contract's lines (delete existing + insert new).
func (r *ContractRepo) SaveLines(ctx context.Context, contractID id.ID, lines []contracts.Line) error {
	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + contractLinesTable + " WHERE contract_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, contractID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(contractLinesTable).
		Columns(contractLineCols...)

	for _, line := range lines {
		q = q.Values(
			line.ID, contractID, line.LineNo, line.VariantID, line.SKUCode,
			line.OrderedQty, line.PickedQty, line.FinishedQty, line.UnitPrice, line.Amount,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// UpdateLineQuantities persists picked/finished quantities for the given
// lines in a single round-trip. Must run inside a transaction.
func (r *ContractRepo) UpdateLineQuantities(ctx context.Context, lines []contracts.Line) error {
	if len(lines) == 0 {
		return nil
	}

	queries := make([]postgres.BatchQuery, 0, len(lines))
	for _, line := range lines {
		queries = append(queries, postgres.BatchQuery{
			SQL: "UPDATE " + contractLinesTable + " SET picked_qty = $1, finished_qty = $2 WHERE id = $3",
			Args: []any{
				line.PickedQty, line.FinishedQty, line.ID,
			},
		})
	}

	if err := r.executor.ExecuteBatch(ctx, queries); err != nil {
		return fmt.Errorf("update line quantities: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ contracts.Repository = (*ContractRepo)(nil)
