// Package box implements NaN-boxing: a closed set of heterogeneous value
// kinds packed into single 64-bit words, using the encoding space IEEE 754
// doubles leave unused when the exponent field is all ones.
//
// Every Word is either an ordinary float (any non-NaN pattern, an infinity,
// or the one canonical NaN) or a boxed variant assembled by a Layout's
// encoder. The two spaces are kept disjoint by the boxed marker bit and by
// collapsing every arithmetic NaN to CanonicalNaN before storage.
package box

import "math"

// Word is the opaque 64-bit container. Words are plain values: copying one
// is always safe and free, and a Word holding an address payload does not
// keep the addressed memory alive.
type Word uint64

// Fixed bit layout. Bit 63 is the sign (forced to zero on boxed words),
// bits 62-52 the exponent (all ones on boxed words), bit 51 the boxed
// marker. The remaining 51 mantissa bits split into tag and payload once
// the manifest is known.
const (
	expMask  uint64 = 0x7FF0000000000000
	boxedBit uint64 = 1 << 51

	// boxedSpace is the mantissa bits below the marker available for
	// tag plus payload.
	boxedSpace = 51
)

// CanonicalNaN is the single bit pattern every real NaN collapses to:
// exponent all ones, marker clear, bit 50 set. It lives in the half of
// the NaN space the boxed encoding never touches. On most hardware this
// is a signaling-NaN pattern; that is safe here because words travel as
// integers and Go does not re-quiet NaN payloads on float loads, stores
// or copies.
const CanonicalNaN uint64 = expMask | 1<<50

// IsCanonicalFloat reports whether bits may be stored unchanged as a
// float: any pattern whose exponent is not all ones, or a NaN-space
// pattern with the boxed marker clear (the infinities and CanonicalNaN).
func IsCanonicalFloat(bits uint64) bool {
	return bits&expMask != expMask || bits&boxedBit == 0
}

// Canonicalize rewrites any NaN that could alias the boxed space to
// CanonicalNaN and passes every other pattern through.
func Canonicalize(bits uint64) uint64 {
	if IsCanonicalFloat(bits) {
		return bits
	}
	return CanonicalNaN
}

// FromFloat64 stores f as a Word. Finite values, -0.0 and the infinities
// round-trip bit for bit; every NaN becomes CanonicalNaN.
func FromFloat64(f float64) Word {
	return Word(Canonicalize(math.Float64bits(f)))
}
