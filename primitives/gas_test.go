package primitives

import "testing"

func TestGasMeterBasicCharge(t *testing.T) {
	m := NewGasMeter(1000)
	if m.Consumed() != 0 || m.Remaining() != 1000 || m.Limit() != 1000 {
		t.Fatalf("unexpected initial state: %+v", m)
	}
	if err := m.Charge(100); err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if m.Consumed() != 100 || m.Remaining() != 900 {
		t.Fatalf("unexpected state after charge: consumed=%d remaining=%d", m.Consumed(), m.Remaining())
	}
}

func TestGasMeterExactLimit(t *testing.T) {
	m := NewGasMeter(500)
	if err := m.Charge(500); err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if !m.IsExhausted() || m.Remaining() != 0 {
		t.Fatalf("expected exhausted meter")
	}
}

func TestGasMeterExceedsLimit(t *testing.T) {
	m := NewGasMeter(100)
	if err := m.Charge(60); err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	err := m.Charge(41)
	if err == nil {
		t.Fatalf("expected out-of-gas error")
	}
	if err.Kind != ExecErrKindOutOfGas {
		t.Fatalf("expected out-of-gas error kind, got %v", err)
	}
	if m.Consumed() != 60 {
		t.Fatalf("consumed must not change on error, got %d", m.Consumed())
	}
}

func TestGasMeterOverflowProtection(t *testing.T) {
	m := NewGasMeter(^uint64(0))
	if err := m.Charge(^uint64(0) - 1); err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	err := m.Charge(2)
	if err == nil {
		t.Fatalf("expected overflow to be rejected as out-of-gas")
	}
	if m.Consumed() != ^uint64(0)-1 {
		t.Fatalf("consumed must not change on overflow, got %d", m.Consumed())
	}
}

func TestGasMeterChargeWithBytes(t *testing.T) {
	m := NewGasMeter(100_000)
	if err := m.ChargeWithBytes(GStateGet, 10); err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if want := GStateGet + 10*GPerByte; m.Consumed() != want {
		t.Fatalf("expected %d, got %d", want, m.Consumed())
	}
}

func TestGasMeterChargeWithBytesOverflowingByteCount(t *testing.T) {
	m := NewGasMeter(1000)
	err := m.ChargeWithBytes(100, 1<<62)
	if err == nil {
		t.Fatalf("expected out-of-gas, not a panic or silent wraparound")
	}
	if m.Consumed() != 0 {
		t.Fatalf("consumed must remain 0 on failure, got %d", m.Consumed())
	}
}

func TestGasMeterZeroCharge(t *testing.T) {
	m := NewGasMeter(100)
	if err := m.Charge(0); err != nil {
		t.Fatalf("zero charge should never fail: %v", err)
	}
	if m.Consumed() != 0 {
		t.Fatalf("expected consumed 0, got %d", m.Consumed())
	}
}

func TestGasCostFormulas(t *testing.T) {
	if got := GasCostStateGet(32); got != GStateGet+32*GPerByte {
		t.Fatalf("unexpected state_get cost: %d", got)
	}
	if got := GasCostStateSet(10, 20); got != GStateSet+30*GPerByte {
		t.Fatalf("unexpected state_set cost: %d", got)
	}
}
