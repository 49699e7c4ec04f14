package box

import (
	"fmt"
	"math"

	"github.com/Marwes/nanbox/manifest"
)

// Class discriminates the outcomes of Decode.
type Class uint8

const (
	// ClassFloat64: the word is an ordinary float, including -0.0, the
	// infinities and the canonical NaN.
	ClassFloat64 Class = iota
	// ClassVariant: the word carries a registered boxed variant.
	ClassVariant
	// ClassInvalidTag: NaN-space word with the marker set but a tag no
	// variant is registered under. Only reachable by feeding bit patterns
	// this encoder never produced; decode stays total rather than guess.
	ClassInvalidTag
)

func (c Class) String() string {
	switch c {
	case ClassFloat64:
		return "float64"
	case ClassVariant:
		return "variant"
	case ClassInvalidTag:
		return "invalid tag"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// Decoded is the classification of one Word: a small plain value, no
// allocation. The typed accessors panic when asked for the wrong shape,
// mirroring the encoder's kind checks.
type Decoded struct {
	class   Class
	variant VariantID
	kind    manifest.Kind
	bits    uint64 // float bits, or the sign/zero-extended payload
}

// Decode classifies w. It never fails and never allocates; for words that
// came from neither this encoder nor ordinary float arithmetic the result
// is ClassInvalidTag or an arbitrary (but safe) variant reading.
func (l Layout) Decode(w Word) Decoded {
	b := uint64(w)
	if IsCanonicalFloat(b) {
		return Decoded{class: ClassFloat64, variant: -1, bits: b}
	}

	tag := b >> l.tagShift & (1<<l.tagBits - 1)
	if tag >= uint64(len(l.variants)) {
		return Decoded{class: ClassInvalidTag, variant: -1, bits: b}
	}

	vl := &l.variants[tag]
	if vl.kind == manifest.Float64 {
		// Floats are stored unboxed; a boxed word carrying a Float64
		// tag is a foreign pattern.
		return Decoded{class: ClassInvalidTag, variant: -1, bits: b}
	}
	payload := b & (1<<vl.width - 1)
	if vl.kind == manifest.SignedInt && payload&(1<<(vl.width-1)) != 0 {
		payload |= ^uint64(0) << vl.width // sign-extend
	}
	return Decoded{class: ClassVariant, variant: VariantID(tag), kind: vl.kind, bits: payload}
}

// Class returns the outcome discriminator.
func (d Decoded) Class() Class { return d.class }

// Variant returns the decoded variant id. Panics unless ClassVariant.
func (d Decoded) Variant() VariantID {
	if d.class != ClassVariant {
		panic("nanbox: Decoded.Variant: not a boxed variant")
	}
	return d.variant
}

// Kind returns the decoded variant's payload kind. Panics unless
// ClassVariant.
func (d Decoded) Kind() manifest.Kind {
	if d.class != ClassVariant {
		panic("nanbox: Decoded.Kind: not a boxed variant")
	}
	return d.kind
}

// Float64 returns the word reinterpreted as a double. Panics unless
// ClassFloat64.
func (d Decoded) Float64() float64 {
	if d.class != ClassFloat64 {
		panic("nanbox: Decoded.Float64: not a float")
	}
	return math.Float64frombits(d.bits)
}

// Int returns a SignedInt payload, sign-extended to 64 bits.
func (d Decoded) Int() int64 {
	d.mustKind(manifest.SignedInt, "Int")
	return int64(d.bits)
}

// Uint returns an UnsignedInt payload, zero-extended to 64 bits.
func (d Decoded) Uint() uint64 {
	d.mustKind(manifest.UnsignedInt, "Uint")
	return d.bits
}

// Bool returns a Bool payload.
func (d Decoded) Bool() bool {
	d.mustKind(manifest.Bool, "Bool")
	return d.bits != 0
}

// Addr returns an Address payload, zero-extended. Turning it back into a
// usable pointer is only sound while the original memory is still valid.
func (d Decoded) Addr() uintptr {
	d.mustKind(manifest.Address, "Addr")
	return uintptr(d.bits)
}

// IsUnit reports whether d is a Unit variant.
func (d Decoded) IsUnit() bool {
	return d.class == ClassVariant && d.kind == manifest.Unit
}

func (d Decoded) mustKind(want manifest.Kind, accessor string) {
	if d.class != ClassVariant || d.kind != want {
		panic(fmt.Sprintf("nanbox: Decoded.%s: not a %s variant", accessor, want))
	}
}
