// Package ledger provides the quantity ledger primitives shared by every
// order-like aggregate: a three-state fulfillment status derived from an
// ordered/fulfilled quantity pair, and bounded delta application.
package ledger

import (
	"stocklink/internal/core/apperror"
	"stocklink/internal/core/types"
)

// Status is the fulfillment status of a quantity ledger.
type Status string

const (
	// StatusPending - nothing fulfilled yet
	StatusPending Status = "PENDING"
	// StatusPartial - some but not all quantity fulfilled
	StatusPartial Status = "PARTIAL"
	// StatusFulfilled - fulfilled quantity reached ordered quantity
	StatusFulfilled Status = "FULFILLED"
)

// DeriveStatus maps an ordered/fulfilled pair to a fulfillment status.
//
// A zero ordered quantity always yields StatusPending: an order for nothing
// is never considered fulfilled, so downstream steps that trigger on
// fulfillment (outbound spawn, contract settlement) cannot fire for it.
func DeriveStatus(ordered, fulfilled types.Quantity) Status {
	switch {
	case ordered.IsZero() || fulfilled.IsZero():
		return StatusPending
	case fulfilled < ordered:
		return StatusPartial
	default:
		return StatusFulfilled
	}
}

// ApplyDelta returns current + delta, verifying the result stays within
// [0, max]. It is pure: the caller decides what to do with the new value.
// Violations return an OUT_OF_RANGE error carrying current, delta and max.
func ApplyDelta(current, delta, max types.Quantity) (types.Quantity, error) {
	next := current.Add(delta)
	if next.IsNegative() || next > max {
		return current, apperror.NewOutOfRange(
			"fulfilledQty", current.Float64(), delta.Float64(), max.Float64())
	}
	return next, nil
}

// Ledger is the ordered/fulfilled quantity pair embedded by aggregate
// orders. Status is stored denormalized and rederived on every mutation.
type Ledger struct {
	OrderedQty   types.Quantity `db:"ordered_qty" json:"orderedQty"`
	FulfilledQty types.Quantity `db:"fulfilled_qty" json:"fulfilledQty"`
	Status       Status         `db:"status" json:"status"`
}

// NewLedger creates a ledger for the given ordered quantity.
func NewLedger(ordered types.Quantity) Ledger {
	return Ledger{
		OrderedQty: ordered,
		Status:     StatusPending,
	}
}

// Remaining returns the quantity still to be fulfilled.
func (l *Ledger) Remaining() types.Quantity {
	return l.OrderedQty.Sub(l.FulfilledQty)
}

// Apply adds delta to the fulfilled quantity and rederives status.
// Fails with OUT_OF_RANGE if the result would leave [0, orderedQty];
// on failure the ledger is unchanged.
func (l *Ledger) Apply(delta types.Quantity) error {
	next, err := ApplyDelta(l.FulfilledQty, delta, l.OrderedQty)
	if err != nil {
		return err
	}
	l.FulfilledQty = next
	l.Status = DeriveStatus(l.OrderedQty, l.FulfilledQty)
	return nil
}

// Release subtracts qty from the fulfilled quantity, clamping at zero,
// and rederives status. Used by batch reversal: a reversal must always
// succeed even if the ledger was corrected concurrently, so unlike Apply
// it never fails.
func (l *Ledger) Release(qty types.Quantity) {
	next := l.FulfilledQty.Sub(qty)
	if next.IsNegative() {
		next = 0
	}
	l.FulfilledQty = next
	l.Status = DeriveStatus(l.OrderedQty, l.FulfilledQty)
}

// IsFulfilled reports whether the ledger reached its ordered quantity.
func (l *Ledger) IsFulfilled() bool {
	return l.Status == StatusFulfilled
}
