package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/id"
	"stocklink/internal/domain/catalogs/supplier"
	"stocklink/internal/infrastructure/storage/postgres"
)

const supplierTable = "cat_suppliers"

// SupplierRepo implements the supplier catalog repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*supplier.Supplier](
			txManager,
			supplierTable,
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// SupplierName returns the display name for snapshotting onto contracts.
func (r *SupplierRepo) SupplierName(ctx context.Context, supplierID id.ID) (string, error) {
	q := r.Builder().
		Select("name").
		From(supplierTable).
		Where(squirrel.Eq{"id": supplierID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var name string
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&name); err != nil {
		if err == pgx.ErrNoRows {
			return "", apperror.NewNotFound(supplierTable, supplierID.String())
		}
		return "", fmt.Errorf("supplier name: %w", err)
	}

	return name, nil
}
