// Package tagged is a hand-written typed surface over the generic boxing
// layer for a common dynamic-value shape: floats, 32-bit integers,
// booleans, raw pointers and a nil sentinel. It is the pattern an
// integration follows when wrapping its own variant set — one constructor
// and one accessor per variant, with all tag assignment, range checking
// and NaN canonicalization delegated to the box.Layout.
package tagged

import (
	"fmt"
	"strconv"
	"unsafe"

	"github.com/Marwes/nanbox/box"
	"github.com/Marwes/nanbox/manifest"
)

// Variant ids, matching the manifest order below.
const (
	floatVariant box.VariantID = iota
	intVariant
	addrVariant
	boolVariant
	nilVariant
)

// layout is process-wide configuration: built once here, never mutated.
var layout = box.MustBuild(&manifest.Manifest{Variants: []manifest.Variant{
	{Name: "float", Kind: manifest.Float64},
	{Name: "int", Kind: manifest.SignedInt, Width: 32},
	{Name: "addr", Kind: manifest.Address},
	{Name: "bool", Kind: manifest.Bool},
	{Name: "nil", Kind: manifest.Unit},
}})

// Value is a NaN-boxed dynamic value: a single 64-bit word holding a
// float, a 32-bit integer, a boolean, a raw address, or nil.
type Value box.Word

// Nil is the unit value.
var Nil = mustEncode(layout.EncodeUnit(nilVariant))

// True and False are the boxed booleans.
var (
	True  = mustEncode(layout.EncodeBool(boolVariant, true))
	False = mustEncode(layout.EncodeBool(boolVariant, false))
)

func mustEncode(w box.Word, err error) Value {
	if err != nil {
		panic(fmt.Sprintf("tagged: %v", err))
	}
	return Value(w)
}

// FromFloat64 creates a float Value. NaNs collapse to the canonical NaN
// pattern, so they can never alias a boxed variant.
func FromFloat64(f float64) Value {
	return Value(box.FromFloat64(f))
}

// FromInt32 creates an integer Value. Every int32 fits the declared
// 32-bit payload, so this cannot fail.
func FromInt32(n int32) Value {
	return mustEncode(layout.EncodeInt(intVariant, int64(n)))
}

// FromBool creates a boolean Value.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// FromPointer creates a Value holding the address of p. The Value does not
// keep p's memory alive: the caller must hold its own reference for as
// long as the address may be read back. Fails with box.ErrOutOfRange on
// an address above 48 bits.
func FromPointer(p unsafe.Pointer) (Value, error) {
	w, err := layout.EncodeAddr(addrVariant, uintptr(p))
	if err != nil {
		return Nil, err
	}
	return Value(w), nil
}

func (v Value) decode() box.Decoded {
	return layout.Decode(box.Word(v))
}

// IsFloat returns true if v holds a float64, including infinities and the
// canonical NaN.
func (v Value) IsFloat() bool {
	return v.decode().Class() == box.ClassFloat64
}

// IsInt returns true if v holds a 32-bit integer.
func (v Value) IsInt() bool {
	d := v.decode()
	return d.Class() == box.ClassVariant && d.Variant() == intVariant
}

// IsAddr returns true if v holds a raw address.
func (v Value) IsAddr() bool {
	d := v.decode()
	return d.Class() == box.ClassVariant && d.Variant() == addrVariant
}

// IsBool returns true if v is true or false.
func (v Value) IsBool() bool {
	d := v.decode()
	return d.Class() == box.ClassVariant && d.Variant() == boolVariant
}

// IsNil returns true if v is the nil value.
func (v Value) IsNil() bool {
	return v == Nil
}

// Float64 returns v as a float64. Panics if v is not a float.
func (v Value) Float64() float64 {
	return v.decode().Float64()
}

// Int32 returns v as an int32. Panics if v is not an integer.
func (v Value) Int32() int32 {
	return int32(v.decode().Int())
}

// Bool returns v as a bool. Panics if v is not a boolean.
func (v Value) Bool() bool {
	return v.decode().Bool()
}

// Pointer returns the address stored in v. Panics if v is not an address.
// The result is only usable if the original memory is still valid and the
// address fit the 48-bit payload when boxed; both are caller obligations.
func (v Value) Pointer() unsafe.Pointer {
	return unsafe.Pointer(v.decode().Addr())
}

// String renders v for diagnostics.
func (v Value) String() string {
	d := v.decode()
	switch d.Class() {
	case box.ClassFloat64:
		return strconv.FormatFloat(d.Float64(), 'g', -1, 64)
	case box.ClassInvalidTag:
		return fmt.Sprintf("invalid(%#016x)", uint64(v))
	}
	switch d.Variant() {
	case intVariant:
		return strconv.FormatInt(d.Int(), 10)
	case addrVariant:
		return fmt.Sprintf("addr(%#x)", d.Addr())
	case boolVariant:
		return strconv.FormatBool(d.Bool())
	case nilVariant:
		return "nil"
	default:
		return fmt.Sprintf("invalid(%#016x)", uint64(v))
	}
}
