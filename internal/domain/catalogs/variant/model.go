// Package variant provides the product variant catalog.
// A variant is the sellable unit (product + size/color) all quantities
// are tracked against.
package variant

import (
	"context"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/entity"
)

// Variant represents a sellable product variant.
type Variant struct {
	entity.Catalog

	// SKUCode is the merchant SKU, unique across variants
	SKUCode string `db:"sku_code" json:"skuCode"`

	// Barcode is the scannable code (optional)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// IsActive indicates if the variant can appear on new documents
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewVariant creates a new Variant with required fields.
func NewVariant(code, name, skuCode string) *Variant {
	return &Variant{
		Catalog:  entity.NewCatalog(code, name),
		SKUCode:  skuCode,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (v *Variant) Validate(ctx context.Context) error {
	if err := v.Catalog.Validate(ctx); err != nil {
		return err
	}
	if v.SKUCode == "" {
		return apperror.NewValidation("sku code is required").
			WithDetail("field", "skuCode")
	}
	return nil
}
