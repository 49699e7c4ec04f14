package box

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/Marwes/nanbox/manifest"
)

// ErrOutOfRange is returned when a native value does not fit the payload
// width declared for its variant. Recoverable: the caller can clamp the
// value or widen the variant.
var ErrOutOfRange = errors.New("value out of range for variant payload width")

// boxed assembles a word: exponent all ones, marker set, tag in position,
// payload in the low bits. The sign bit and any bits between payload and
// tag stay zero.
func (l Layout) boxed(v VariantID, payload uint64) Word {
	return Word(expMask | boxedBit | uint64(v)<<l.tagShift | payload)
}

// kindCheck panics when v is not the expected kind. Calling an encoder
// with the wrong variant is a programming error, not a runtime condition.
func (l Layout) kindCheck(v VariantID, want manifest.Kind) *variantLayout {
	vl := l.variant(v)
	if vl.kind != want {
		panic(fmt.Sprintf("nanbox: variant %q is %s, not %s", vl.name, vl.kind, want))
	}
	return vl
}

// EncodeFloat64 stores f for a Float64 variant. Floats are self-describing
// on the wire, so the tag is not materialized: the bits pass through
// unchanged unless f is a NaN, which collapses to CanonicalNaN.
func (l Layout) EncodeFloat64(v VariantID, f float64) (Word, error) {
	l.kindCheck(v, manifest.Float64)
	return FromFloat64(f), nil
}

// EncodeInt boxes n for a SignedInt variant, two's complement within the
// declared width.
func (l Layout) EncodeInt(v VariantID, n int64) (Word, error) {
	vl := l.kindCheck(v, manifest.SignedInt)
	if n < vl.smin || n > vl.smax {
		return 0, fmt.Errorf("encode %s %q: %w: %d not in [%d, %d]",
			vl.kind, vl.name, ErrOutOfRange, n, vl.smin, vl.smax)
	}
	return l.boxed(v, uint64(n)&(1<<vl.width-1)), nil
}

// EncodeUint boxes u for an UnsignedInt variant.
func (l Layout) EncodeUint(v VariantID, u uint64) (Word, error) {
	vl := l.kindCheck(v, manifest.UnsignedInt)
	if u > vl.umax {
		return 0, fmt.Errorf("encode %s %q: %w: %d exceeds %d",
			vl.kind, vl.name, ErrOutOfRange, u, vl.umax)
	}
	return l.boxed(v, u), nil
}

// EncodeAddr boxes a raw address for an Address variant. The word does not
// own or keep alive whatever p refers to; that lifetime is entirely the
// caller's obligation.
func (l Layout) EncodeAddr(v VariantID, p uintptr) (Word, error) {
	vl := l.kindCheck(v, manifest.Address)
	u := uint64(p)
	if u > vl.umax {
		return 0, fmt.Errorf("encode %s %q: %w: %#x has bits above bit %d",
			vl.kind, vl.name, ErrOutOfRange, u, vl.width-1)
	}
	return l.boxed(v, u), nil
}

// EncodeBool boxes b for a Bool variant. Cannot fail; the error return
// keeps the encoder surface uniform.
func (l Layout) EncodeBool(v VariantID, b bool) (Word, error) {
	l.kindCheck(v, manifest.Bool)
	var u uint64
	if b {
		u = 1
	}
	return l.boxed(v, u), nil
}

// EncodeUnit boxes the payload-less Unit variant v. Cannot fail.
func (l Layout) EncodeUnit(v VariantID) (Word, error) {
	l.kindCheck(v, manifest.Unit)
	return l.boxed(v, 0), nil
}

// EncodeSigned boxes any signed integer type for a SignedInt variant.
func EncodeSigned[T constraints.Signed](l Layout, v VariantID, n T) (Word, error) {
	return l.EncodeInt(v, int64(n))
}

// EncodeUnsigned boxes any unsigned integer type for an UnsignedInt variant.
func EncodeUnsigned[T constraints.Unsigned](l Layout, v VariantID, u T) (Word, error) {
	return l.EncodeUint(v, uint64(u))
}
