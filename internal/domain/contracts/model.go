// Package contracts provides purchase contract documents and their
// line-level pick/finish reconciliation.
package contracts

import (
	"context"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/core/ledger"
	"stocklink/internal/core/types"
)

// Status is the purchase contract shipment status.
//
// The shipment ladder (PENDING_SHIPMENT -> PARTIAL_SHIPMENT -> SHIPPED) is
// derived from the picked aggregate. SETTLED and CANCELLED belong to the
// orthogonal payment flow and are terminal: once set they are never
// overwritten by quantity reconciliation.
type Status string

const (
	StatusPendingShipment Status = "PENDING_SHIPMENT"
	StatusPartialShipment Status = "PARTIAL_SHIPMENT"
	StatusShipped         Status = "SHIPPED"
	StatusSettled         Status = "SETTLED"
	StatusCancelled       Status = "CANCELLED"
)

// Terminal reports whether the status belongs to the terminal set.
func (s Status) Terminal() bool {
	return s == StatusSettled || s == StatusCancelled
}

// shipmentStatus maps the shared three-state ladder to contract labels.
func shipmentStatus(ordered, picked types.Quantity) Status {
	switch ledger.DeriveStatus(ordered, picked) {
	case ledger.StatusPartial:
		return StatusPartialShipment
	case ledger.StatusFulfilled:
		return StatusShipped
	default:
		return StatusPendingShipment
	}
}

// Contract is a purchase contract with per-variant lines.
// OrderedQty/PickedQty/FinishedQty are aggregates over the lines,
// recomputed on every line mutation.
type Contract struct {
	entity.Document

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// SupplierName is snapshotted at write time
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	Status Status `db:"status" json:"status"`

	OrderedQty  types.Quantity `db:"ordered_qty" json:"orderedQty"`
	PickedQty   types.Quantity `db:"picked_qty" json:"pickedQty"`
	FinishedQty types.Quantity `db:"finished_qty" json:"finishedQty"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Lines are loaded separately by the repository
	Lines []Line `db:"-" json:"lines,omitempty"`
}

// NewContract creates a contract for the given supplier.
func NewContract(supplierID id.ID) *Contract {
	return &Contract{
		Document:    entity.NewDocument(),
		SupplierID:  supplierID,
		Status:      StatusPendingShipment,
		TotalAmount: types.ZeroMoney(),
	}
}

// Validate implements entity.Validatable interface.
func (c *Contract) Validate(ctx context.Context) error {
	if err := c.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(c.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	seen := make(map[int]bool, len(c.Lines))
	for _, line := range c.Lines {
		if err := line.Validate(ctx); err != nil {
			return err
		}
		if seen[line.LineNo] {
			return apperror.NewValidation("duplicate line number").
				WithDetail("lineNo", line.LineNo)
		}
		seen[line.LineNo] = true
	}
	return nil
}

// Reaggregate recomputes the quantity aggregates and the total amount from
// the lines, then rederives the shipment status unless the contract is in
// a terminal state.
func (c *Contract) Reaggregate() {
	var ordered, picked, finished types.Quantity
	total := types.ZeroMoney()
	for _, line := range c.Lines {
		ordered += line.OrderedQty
		picked += line.PickedQty
		finished += line.FinishedQty
		total = total.Add(line.Amount)
	}
	c.OrderedQty = ordered
	c.PickedQty = picked
	c.FinishedQty = finished
	c.TotalAmount = total

	if !c.Status.Terminal() {
		c.Status = shipmentStatus(c.OrderedQty, c.PickedQty)
	}
}

// LineByNo returns the line with the given number, or nil.
func (c *Contract) LineByNo(lineNo int) *Line {
	for i := range c.Lines {
		if c.Lines[i].LineNo == lineNo {
			return &c.Lines[i]
		}
	}
	return nil
}

// Line is one contract position for a single variant.
type Line struct {
	ID         id.ID `db:"id" json:"id"`
	ContractID id.ID `db:"contract_id" json:"contractId"`

	// LineNo is the 1-based position within the contract
	LineNo int `db:"line_no" json:"lineNo"`

	VariantID id.ID  `db:"variant_id" json:"variantId"`
	SKUCode   string `db:"sku_code" json:"skuCode"`

	OrderedQty types.Quantity `db:"ordered_qty" json:"orderedQty"`

	// PickedQty accumulates via increments and never exceeds OrderedQty
	PickedQty types.Quantity `db:"picked_qty" json:"pickedQty"`

	// FinishedQty is SET (not incremented) by upstream production reports
	FinishedQty types.Quantity `db:"finished_qty" json:"finishedQty"`

	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Amount    types.Money `db:"amount" json:"amount"`
}

// NewLine creates a contract line and computes its amount.
func NewLine(contractID id.ID, lineNo int, variantID id.ID, skuCode string, ordered types.Quantity, unitPrice types.Money) Line {
	return Line{
		ID:         id.New(),
		ContractID: contractID,
		LineNo:     lineNo,
		VariantID:  variantID,
		SKUCode:    skuCode,
		OrderedQty: ordered,
		UnitPrice:  unitPrice,
		Amount:     unitPrice.Mul(ordered.Decimal()),
	}
}

// Validate checks line invariants.
func (l *Line) Validate(ctx context.Context) error {
	if l.LineNo <= 0 {
		return apperror.NewValidation("line number must be positive").
			WithDetail("lineNo", l.LineNo)
	}
	if id.IsNil(l.VariantID) {
		return apperror.NewValidation("line variant is required").
			WithDetail("lineNo", l.LineNo)
	}
	if l.OrderedQty.IsNegative() {
		return apperror.NewInvalidQuantity("orderedQty", l.OrderedQty.Float64())
	}
	return nil
}
