package ledger

import (
	"testing"

	"stocklink/internal/core/apperror"
	"stocklink/internal/core/types"
)

func qty(f float64) types.Quantity {
	return types.NewQuantityFromFloat64(f)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		ordered   float64
		fulfilled float64
		want      Status
	}{
		{"nothing fulfilled", 10, 0, StatusPending},
		{"partially fulfilled", 10, 4, StatusPartial},
		{"exactly fulfilled", 10, 10, StatusFulfilled},
		{"over fulfilled", 10, 12, StatusFulfilled},
		{"zero ordered zero fulfilled", 0, 0, StatusPending},
		{"zero ordered with fulfillment", 0, 3, StatusPending},
		{"fractional partial", 1, 0.0001, StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(qty(tt.ordered), qty(tt.fulfilled))
			if got != tt.want {
				t.Errorf("DeriveStatus(%v, %v) = %s, want %s",
					tt.ordered, tt.fulfilled, got, tt.want)
			}
		})
	}
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		delta   float64
		max     float64
		want    float64
		wantErr bool
	}{
		{"simple increment", 0, 5, 10, 5, false},
		{"fills to max", 4, 6, 10, 10, false},
		{"decrement", 5, -3, 10, 2, false},
		{"exceeds max", 8, 3, 10, 0, true},
		{"below zero", 2, -3, 10, 0, true},
		{"zero delta", 5, 0, 10, 5, false},
		{"to exactly zero", 3, -3, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyDelta(qty(tt.current), qty(tt.delta), qty(tt.max))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ApplyDelta(%v, %v, %v) expected error, got %v",
						tt.current, tt.delta, tt.max, got)
				}
				if !apperror.IsOutOfRange(err) {
					t.Errorf("expected OUT_OF_RANGE, got %v", err)
				}
				// On failure the returned value is the unchanged current.
				if got != qty(tt.current) {
					t.Errorf("failed ApplyDelta returned %v, want unchanged %v", got, tt.current)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != qty(tt.want) {
				t.Errorf("ApplyDelta(%v, %v, %v) = %v, want %v",
					tt.current, tt.delta, tt.max, got.Float64(), tt.want)
			}
		})
	}
}

func TestLedgerApply(t *testing.T) {
	l := NewLedger(qty(10))
	if l.Status != StatusPending {
		t.Fatalf("new ledger status = %s, want PENDING", l.Status)
	}

	if err := l.Apply(qty(4)); err != nil {
		t.Fatalf("Apply(4): %v", err)
	}
	if l.Status != StatusPartial || l.FulfilledQty != qty(4) {
		t.Errorf("after Apply(4): status=%s fulfilled=%v", l.Status, l.FulfilledQty.Float64())
	}
	if l.Remaining() != qty(6) {
		t.Errorf("Remaining() = %v, want 6", l.Remaining().Float64())
	}

	if err := l.Apply(qty(6)); err != nil {
		t.Fatalf("Apply(6): %v", err)
	}
	if l.Status != StatusFulfilled || !l.IsFulfilled() {
		t.Errorf("after full fulfillment: status=%s", l.Status)
	}

	// Overflow leaves the ledger untouched.
	if err := l.Apply(qty(1)); err == nil {
		t.Fatal("Apply(1) on fulfilled ledger should fail")
	}
	if l.FulfilledQty != qty(10) || l.Status != StatusFulfilled {
		t.Errorf("failed Apply mutated ledger: fulfilled=%v status=%s",
			l.FulfilledQty.Float64(), l.Status)
	}
}

func TestLedgerRelease(t *testing.T) {
	l := NewLedger(qty(10))
	if err := l.Apply(qty(10)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	l.Release(qty(4))
	if l.Status != StatusPartial || l.FulfilledQty != qty(6) {
		t.Errorf("after Release(4): status=%s fulfilled=%v", l.Status, l.FulfilledQty.Float64())
	}

	// Releasing more than fulfilled clamps at zero and resets to PENDING.
	l.Release(qty(100))
	if l.FulfilledQty != 0 {
		t.Errorf("Release should clamp at zero, got %v", l.FulfilledQty.Float64())
	}
	if l.Status != StatusPending {
		t.Errorf("after clamp to zero: status=%s, want PENDING", l.Status)
	}
}

// Status must walk the PENDING -> PARTIAL -> FULFILLED ladder monotonically
// under non-negative deltas.
func TestLedgerStatusMonotonic(t *testing.T) {
	rank := map[Status]int{StatusPending: 0, StatusPartial: 1, StatusFulfilled: 2}

	l := NewLedger(qty(7))
	prev := rank[l.Status]
	for _, d := range []float64{0, 1, 0.5, 2, 0, 3.5} {
		if err := l.Apply(qty(d)); err != nil {
			t.Fatalf("Apply(%v): %v", d, err)
		}
		cur := rank[l.Status]
		if cur < prev {
			t.Fatalf("status regressed from rank %d to %d after Apply(%v)", prev, cur, d)
		}
		prev = cur
	}
	if l.Status != StatusFulfilled {
		t.Errorf("final status = %s, want FULFILLED", l.Status)
	}
}
