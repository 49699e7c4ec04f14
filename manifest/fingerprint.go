package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode so fingerprints are deterministic.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("manifest: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Fingerprint identifies the exact variant order, kinds and effective
// widths of a manifest.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// fpVariant is the canonical wire form of one declaration. Effective
// widths are hashed, not declared ones, so an Address with an implicit
// width fingerprints the same as one declaring 48 explicitly.
type fpVariant struct {
	Name  string `cbor:"1,keyasint"`
	Kind  uint8  `cbor:"2,keyasint"`
	Width uint   `cbor:"3,keyasint"`
}

// Fingerprint hashes the canonical CBOR encoding of the ordered variant
// list. Two integrations can compare fingerprints before sharing any data
// derived from boxed words; differently-ordered manifests produce
// different bit layouts and different fingerprints.
func (m *Manifest) Fingerprint() (Fingerprint, error) {
	if err := m.Validate(); err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: %w", err)
	}

	vs := make([]fpVariant, len(m.Variants))
	for i, v := range m.Variants {
		vs[i] = fpVariant{Name: v.Name, Kind: uint8(v.Kind), Width: v.EffectiveWidth()}
	}
	data, err := cborEncMode.Marshal(vs)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: marshal: %w", err)
	}
	return sha256.Sum256(data), nil
}
