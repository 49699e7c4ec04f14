package box

import (
	"errors"
	"math"
	"testing"
)

func TestFloatRoundTrip(t *testing.T) {
	l := mustLayout(t, testManifest())

	tests := []float64{
		0.0,
		math.Copysign(0, -1),
		1.0,
		-1.0,
		3.14159265358979,
		math.MaxFloat64,
		math.SmallestNonzeroFloat64,
		-math.MaxFloat64,
		math.Inf(1),
		math.Inf(-1),
	}

	for _, f := range tests {
		w, err := l.EncodeFloat64(floatID, f)
		if err != nil {
			t.Fatalf("EncodeFloat64(%v) error: %v", f, err)
		}
		d := l.Decode(w)
		if d.Class() != ClassFloat64 {
			t.Errorf("Decode(EncodeFloat64(%v)).Class() = %s, want float64", f, d.Class())
			continue
		}
		// Bit-for-bit: distinguishes -0.0 from 0.0.
		if got := math.Float64bits(d.Float64()); got != math.Float64bits(f) {
			t.Errorf("float %v round-tripped to %v (%#016x)", f, d.Float64(), got)
		}
	}
}

func TestNaNCanonicalization(t *testing.T) {
	l := mustLayout(t, testManifest())

	zero := 0.0
	arithNaN := zero / zero

	nans := []float64{
		math.NaN(),
		arithNaN,
		math.Float64frombits(0x7FF8000000000001), // quiet, extra payload
		math.Float64frombits(0xFFF8000000000000), // negative quiet
		math.Float64frombits(0x7FFFFFFFFFFFFFFF), // all payload bits set
	}

	for _, f := range nans {
		w, err := l.EncodeFloat64(floatID, f)
		if err != nil {
			t.Fatalf("EncodeFloat64(NaN %#016x) error: %v", math.Float64bits(f), err)
		}
		if uint64(w) != CanonicalNaN {
			t.Errorf("EncodeFloat64(NaN %#016x) = %#016x, want canonical %#016x",
				math.Float64bits(f), uint64(w), CanonicalNaN)
		}
		d := l.Decode(w)
		if d.Class() != ClassFloat64 {
			t.Errorf("canonical NaN decoded as %s, want float64", d.Class())
		} else if !math.IsNaN(d.Float64()) {
			t.Errorf("canonical NaN decoded to non-NaN %v", d.Float64())
		}
	}
}

func TestCanonicalFloatPredicate(t *testing.T) {
	tests := []struct {
		bits uint64
		want bool
	}{
		{0, true},                     // +0.0
		{0x3FF0000000000000, true},    // 1.0
		{0x7FF0000000000000, true},    // +Inf
		{0xFFF0000000000000, true},    // -Inf
		{CanonicalNaN, true},          // the one blessed NaN
		{0x7FF0000000000001, true},    // marker clear: outside the boxed space
		{0x7FF8000000000000, false},   // quiet NaN: marker set
		{0xFFF8000000000000, false},   // negative quiet NaN
		{expMask | boxedBit | 42, false},
	}

	for _, tt := range tests {
		if got := IsCanonicalFloat(tt.bits); got != tt.want {
			t.Errorf("IsCanonicalFloat(%#016x) = %v, want %v", tt.bits, got, tt.want)
		}
	}
}

func TestSignedIntRange(t *testing.T) {
	l := mustLayout(t, testManifest())

	for _, n := range []int64{-128, -1, 0, 1, 127} {
		w, err := l.EncodeInt(i8ID, n)
		if err != nil {
			t.Errorf("EncodeInt(i8, %d) error: %v", n, err)
			continue
		}
		if got := l.Decode(w).Int(); got != n {
			t.Errorf("EncodeInt(i8, %d) round-tripped to %d", n, got)
		}
	}

	for _, n := range []int64{128, -129, math.MaxInt64, math.MinInt64} {
		if _, err := l.EncodeInt(i8ID, n); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("EncodeInt(i8, %d) error = %v, want ErrOutOfRange", n, err)
		}
	}
}

func TestUnsignedIntRange(t *testing.T) {
	l := mustLayout(t, testManifest())

	for _, u := range []uint64{0, 1, 65535} {
		w, err := l.EncodeUint(u16ID, u)
		if err != nil {
			t.Errorf("EncodeUint(u16, %d) error: %v", u, err)
			continue
		}
		if got := l.Decode(w).Uint(); got != u {
			t.Errorf("EncodeUint(u16, %d) round-tripped to %d", u, got)
		}
	}

	for _, u := range []uint64{65536, math.MaxUint64} {
		if _, err := l.EncodeUint(u16ID, u); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("EncodeUint(u16, %d) error = %v, want ErrOutOfRange", u, err)
		}
	}
}

func TestAddrRange(t *testing.T) {
	l := mustLayout(t, testManifest())

	max := uintptr(1)<<48 - 1
	w, err := l.EncodeAddr(addrID, max)
	if err != nil {
		t.Fatalf("EncodeAddr(%#x) error: %v", max, err)
	}
	if got := l.Decode(w).Addr(); got != max {
		t.Errorf("EncodeAddr(%#x) round-tripped to %#x", max, got)
	}

	// Any bit above bit 47 must be rejected.
	for _, p := range []uintptr{1 << 48, 1 << 63, ^uintptr(0)} {
		if _, err := l.EncodeAddr(addrID, p); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("EncodeAddr(%#x) error = %v, want ErrOutOfRange", p, err)
		}
	}
}

func TestBoolAndUnit(t *testing.T) {
	l := mustLayout(t, testManifest())

	wt, err := l.EncodeBool(flagID, true)
	if err != nil {
		t.Fatalf("EncodeBool(true) error: %v", err)
	}
	wf, err := l.EncodeBool(flagID, false)
	if err != nil {
		t.Fatalf("EncodeBool(false) error: %v", err)
	}
	if wt == wf {
		t.Error("EncodeBool(true) == EncodeBool(false)")
	}
	if got := l.Decode(wt).Bool(); !got {
		t.Error("Decode(EncodeBool(true)).Bool() = false")
	}
	if got := l.Decode(wf).Bool(); got {
		t.Error("Decode(EncodeBool(false)).Bool() = true")
	}

	wu, err := l.EncodeUnit(unitID)
	if err != nil {
		t.Fatalf("EncodeUnit() error: %v", err)
	}
	d := l.Decode(wu)
	if !d.IsUnit() {
		t.Error("Decode(EncodeUnit()).IsUnit() = false")
	}
	if got := d.Variant(); got != unitID {
		t.Errorf("Decode(EncodeUnit()).Variant() = %d, want %d", got, unitID)
	}
}

func TestGenericEncode(t *testing.T) {
	l := mustLayout(t, testManifest())

	w, err := EncodeSigned(l, i8ID, int8(-128))
	if err != nil {
		t.Fatalf("EncodeSigned(int8 -128) error: %v", err)
	}
	if got := l.Decode(w).Int(); got != -128 {
		t.Errorf("EncodeSigned(int8 -128) round-tripped to %d", got)
	}

	w, err = EncodeUnsigned(l, u16ID, uint16(65535))
	if err != nil {
		t.Fatalf("EncodeUnsigned(uint16 65535) error: %v", err)
	}
	if got := l.Decode(w).Uint(); got != 65535 {
		t.Errorf("EncodeUnsigned(uint16 65535) round-tripped to %d", got)
	}
}

func TestEncodeKindMismatchPanics(t *testing.T) {
	l := mustLayout(t, testManifest())
	defer func() {
		if r := recover(); r == nil {
			t.Error("EncodeInt on a Bool variant should panic")
		}
	}()
	l.EncodeInt(flagID, 0)
}

func TestEncodeUnknownVariantPanics(t *testing.T) {
	l := mustLayout(t, testManifest())
	defer func() {
		if r := recover(); r == nil {
			t.Error("encoding an unregistered variant id should panic")
		}
	}()
	l.EncodeUnit(VariantID(99))
}
