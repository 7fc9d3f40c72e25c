// Package orders provides the aggregate order documents and their
// fulfillment batches. An order tracks one variant's ordered quantity and
// accumulates fulfillment through recorded batches; delivery orders are
// fulfilled by shipments, outbound orders by warehouse dispatch.
package orders

import (
	"context"
	"time"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/core/ledger"
	"stocklink/internal/core/types"
)

// Kind distinguishes the order pipelines sharing the same ledger shape.
type Kind string

const (
	// KindDelivery - supplier delivery order, fulfilled by shipment batches
	KindDelivery Kind = "delivery"
	// KindOutbound - outbound dispatch order, spawned when an overseas
	// inbound is fully received
	KindOutbound Kind = "outbound"
)

// Order is an aggregate order for a single variant.
type Order struct {
	entity.Document

	Kind Kind `db:"kind" json:"kind"`

	// VariantID is the tracked variant
	VariantID id.ID `db:"variant_id" json:"variantId"`

	// SKUCode is denormalized from the variant for display and error messages
	SKUCode string `db:"sku_code" json:"skuCode"`

	ledger.Ledger

	// WarehouseID is the default destination warehouse (optional)
	WarehouseID *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`

	// WarehouseName is snapshotted at write time so historical documents
	// survive warehouse renames
	WarehouseName string `db:"warehouse_name" json:"warehouseName,omitempty"`

	// SourceInboundID links an outbound order back to the pending inbound
	// that spawned it. Used as the idempotency key for spawning.
	SourceInboundID *id.ID `db:"source_inbound_id" json:"sourceInboundId,omitempty"`
}

// NewOrder creates an order for the given variant and ordered quantity.
func NewOrder(kind Kind, variantID id.ID, skuCode string, ordered types.Quantity) *Order {
	return &Order{
		Document:  entity.NewDocument(),
		Kind:      kind,
		VariantID: variantID,
		SKUCode:   skuCode,
		Ledger:    ledger.NewLedger(ordered),
	}
}

// Validate implements entity.Validatable interface.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}
	if o.Kind != KindDelivery && o.Kind != KindOutbound {
		return apperror.NewValidation("invalid order kind").
			WithDetail("field", "kind").
			WithDetail("value", string(o.Kind))
	}
	if id.IsNil(o.VariantID) {
		return apperror.NewValidation("variant is required").
			WithDetail("field", "variantId")
	}
	if o.OrderedQty.IsNegative() {
		return apperror.NewInvalidQuantity("orderedQty", o.OrderedQty.Float64())
	}
	return nil
}

// Batch is one recorded fulfillment of an order. Batches are hard-deleted
// on reversal; they carry their own warehouse snapshot because a batch may
// arrive at a different warehouse than the order's default.
type Batch struct {
	ID      id.ID          `db:"id" json:"id"`
	OrderID id.ID          `db:"order_id" json:"orderId"`
	Qty     types.Quantity `db:"qty" json:"qty"`

	// Date is the business date of the fulfillment
	Date time.Time `db:"date" json:"date"`

	WarehouseID   *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`
	WarehouseName string `db:"warehouse_name" json:"warehouseName,omitempty"`

	// TrackingNo is the carrier tracking number (optional)
	TrackingNo string `db:"tracking_no" json:"trackingNo,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
