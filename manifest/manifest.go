// Package manifest describes the variant set a NaN-boxing layout is built
// from: an ordered list of (name, payload kind, width) declarations.
//
// The manifest is integration-time configuration. Tags are assigned by
// position, so reordering the list changes the bit layout; two programs
// built from differently-ordered manifests must never exchange raw words.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Kind identifies the payload a variant carries.
type Kind uint8

const (
	Float64 Kind = iota
	Bool
	SignedInt
	UnsignedInt
	Address
	Unit
)

// AddressWidth is the widest Address payload. Only the low 48 bits of a
// virtual address are guaranteed meaningful on common 64-bit hardware;
// bits above 47 are defined to be zero and are not round-tripped.
const AddressWidth = 48

var kindNames = [...]string{"float64", "bool", "int", "uint", "address", "unit"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// HasWidth reports whether the kind takes an explicit payload width.
func (k Kind) HasWidth() bool {
	return k == SignedInt || k == UnsignedInt || k == Address
}

// MarshalText implements encoding.TextMarshaler so kinds read naturally
// in TOML manifests.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("marshal kind: %w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if string(text) == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unmarshal kind: %w: %q", ErrUnknownKind, text)
}

// Validation errors.
var (
	ErrNoVariants   = errors.New("manifest declares no variants")
	ErrMissingName  = errors.New("variant has no name")
	ErrMissingWidth = errors.New("variant kind requires an explicit width")
	ErrBadWidth     = errors.New("variant width not representable")
	ErrUnknownKind  = errors.New("unknown payload kind")
)

// maxDeclaredWidth is the widest payload any variant may declare: the 52
// mantissa bits minus the boxed marker and the minimum one-bit tag. The
// layout may shrink the budget further once the tag width is known.
const maxDeclaredWidth = 50

// Variant declares one boxed value kind.
//
// Width is required for SignedInt and UnsignedInt, optional for Address
// (zero means AddressWidth), and must be zero for Float64, Bool and Unit,
// whose payload widths are implied by the kind.
type Variant struct {
	Name  string `toml:"name"`
	Kind  Kind   `toml:"kind"`
	Width uint   `toml:"width,omitempty"`
}

// EffectiveWidth returns the payload bits the layout must provide for v.
func (v Variant) EffectiveWidth() uint {
	switch v.Kind {
	case Bool:
		return 1
	case Address:
		if v.Width == 0 {
			return AddressWidth
		}
		return v.Width
	case SignedInt, UnsignedInt:
		return v.Width
	default: // Float64, Unit
		return 0
	}
}

// Manifest is the ordered variant list consumed by the layout builder.
// Names are for diagnostics only and need not be unique.
type Manifest struct {
	Variants []Variant `toml:"variant"`
}

// Validate checks the per-variant declaration rules. Fit against the
// derived tag width is checked later, by the layout builder.
func (m *Manifest) Validate() error {
	if len(m.Variants) == 0 {
		return ErrNoVariants
	}
	for i, v := range m.Variants {
		if v.Name == "" {
			return fmt.Errorf("variant %d: %w", i, ErrMissingName)
		}
		if int(v.Kind) >= len(kindNames) {
			return fmt.Errorf("variant %d %q: %w: %d", i, v.Name, ErrUnknownKind, uint8(v.Kind))
		}
		switch {
		case v.Kind.HasWidth():
			limit := uint(maxDeclaredWidth)
			if v.Kind == Address {
				limit = AddressWidth
			}
			if v.Width == 0 && v.Kind != Address {
				return fmt.Errorf("variant %d %q (%s): %w", i, v.Name, v.Kind, ErrMissingWidth)
			}
			if v.Width > limit {
				return fmt.Errorf("variant %d %q (%s): %w: %d exceeds %d bits",
					i, v.Name, v.Kind, ErrBadWidth, v.Width, limit)
			}
		case v.Width != 0:
			return fmt.Errorf("variant %d %q (%s): %w: kind takes no width", i, v.Name, v.Kind, ErrBadWidth)
		}
	}
	return nil
}

// Load parses and validates a TOML manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}
