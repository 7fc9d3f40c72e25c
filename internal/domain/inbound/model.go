// Package inbound provides the pending-inbound pipeline: overseas
// shipments awaiting receipt, their receipt batches, and the stock and
// outbound-order side effects of receiving them.
package inbound

import (
	"context"
	"time"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/core/ledger"
	"stocklink/internal/core/types"
)

// Status is the receipt state of a pending inbound.
type Status string

const (
	StatusAwaiting Status = "AWAITING_RECEIPT"
	StatusPartial  Status = "PARTIALLY_RECEIVED"
	StatusReceived Status = "RECEIVED"
)

// receiptStatus maps the shared three-state ladder to receipt labels.
func receiptStatus(expected, received types.Quantity) Status {
	switch ledger.DeriveStatus(expected, received) {
	case ledger.StatusPartial:
		return StatusPartial
	case ledger.StatusFulfilled:
		return StatusReceived
	default:
		return StatusAwaiting
	}
}

// PendingInbound is a shipment en route to a warehouse.
type PendingInbound struct {
	entity.Document

	VariantID id.ID  `db:"variant_id" json:"variantId"`
	SKUCode   string `db:"sku_code" json:"skuCode"`

	// Qty is the expected quantity
	Qty types.Quantity `db:"qty" json:"qty"`

	// ReceivedQty accumulates through receipt batches
	ReceivedQty types.Quantity `db:"received_qty" json:"receivedQty"`

	Status Status `db:"status" json:"status"`

	// WarehouseID is the destination warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// WarehouseName is snapshotted at write time
	WarehouseName string `db:"warehouse_name" json:"warehouseName,omitempty"`

	// SourceOrderID links back to the delivery order that shipped this
	// inbound (optional)
	SourceOrderID *id.ID `db:"source_order_id" json:"sourceOrderId,omitempty"`
}

// NewPendingInbound creates a pending inbound for the given variant.
func NewPendingInbound(variantID id.ID, skuCode string, qty types.Quantity, warehouseID id.ID) *PendingInbound {
	return &PendingInbound{
		Document:    entity.NewDocument(),
		VariantID:   variantID,
		SKUCode:     skuCode,
		Qty:         qty,
		Status:      StatusAwaiting,
		WarehouseID: warehouseID,
	}
}

// Validate implements entity.Validatable interface.
func (p *PendingInbound) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(p.VariantID) {
		return apperror.NewValidation("variant is required").
			WithDetail("field", "variantId")
	}
	if id.IsNil(p.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	if p.Qty.IsNegative() {
		return apperror.NewInvalidQuantity("qty", p.Qty.Float64())
	}
	return nil
}

// Remaining returns the quantity still expected.
func (p *PendingInbound) Remaining() types.Quantity {
	return p.Qty.Sub(p.ReceivedQty)
}

// ReceiptBatch is one recorded receipt against a pending inbound.
// Receipt batches are the recorder documents of stock movements.
type ReceiptBatch struct {
	ID        id.ID          `db:"id" json:"id"`
	InboundID id.ID          `db:"inbound_id" json:"inboundId"`
	Qty       types.Quantity `db:"qty" json:"qty"`

	// Date is the business date of the receipt
	Date time.Time `db:"date" json:"date"`

	WarehouseID   id.ID  `db:"warehouse_id" json:"warehouseId"`
	WarehouseName string `db:"warehouse_name" json:"warehouseName,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
