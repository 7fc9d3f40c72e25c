package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stocklink/internal/domain/catalogs/variant"
	"stocklink/internal/infrastructure/storage/postgres"
)

const variantTable = "cat_variants"

// VariantRepo implements the variant catalog repository.
type VariantRepo struct {
	*BaseCatalogRepo[*variant.Variant]
}

// NewVariantRepo creates a new variant repository.
func NewVariantRepo(txManager *postgres.TxManager) *VariantRepo {
	return &VariantRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*variant.Variant](
			txManager,
			variantTable,
			postgres.ExtractDBColumns[variant.Variant](),
			func() *variant.Variant { return &variant.Variant{} },
		),
	}
}

// GetBySKU retrieves a variant by its merchant SKU.
func (r *VariantRepo) GetBySKU(ctx context.Context, skuCode string) (*variant.Variant, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"sku_code": skuCode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
