// Package supplier provides the supplier catalog.
package supplier

import (
	"context"

	"stocklink/internal/core/entity"
)

// Supplier represents a purchase contract counterparty.
type Supplier struct {
	entity.Catalog

	// ContactName is the primary contact person (optional)
	ContactName *string `db:"contact_name" json:"contactName,omitempty"`

	// Phone is the contact phone (optional)
	Phone *string `db:"phone" json:"phone,omitempty"`

	// IsActive indicates if new contracts can reference this supplier
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog:  entity.NewCatalog(code, name),
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	return s.Catalog.Validate(ctx)
}
