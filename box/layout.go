package box

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/tliron/commonlog"

	"github.com/Marwes/nanbox/manifest"
)

var log = commonlog.GetLogger("nanbox.box")

// ErrTooManyVariants is returned by Build when a declared payload kind
// needs more bits than remain once the tag field is carved out. Fatal to
// integration: the manifest must shrink, not the caller retry.
var ErrTooManyVariants = errors.New("too many variants for the available payload bits")

// VariantID names a variant by its position in the manifest.
type VariantID int

type variantLayout struct {
	name  string
	kind  manifest.Kind
	width uint   // payload bits actually used
	umax  uint64 // upper bound for Bool/UnsignedInt/Address payloads
	smin  int64  // SignedInt bounds, two's complement
	smax  int64
}

// Layout is the registry derived from a manifest: the tag width and every
// variant's payload geometry and bounds. It is built once, never mutated
// afterwards, and safe to copy and to share across goroutines without
// synchronization. It is the sole shared read path for the encoder and
// decoder.
type Layout struct {
	tagBits  uint
	tagShift uint
	variants []variantLayout
}

// tagWidth returns the minimal tag width distinguishing n variants, at
// least 1 so the marker bit keeps something to discriminate.
func tagWidth(n int) uint {
	k := uint(bits.Len(uint(n - 1)))
	if k == 0 {
		k = 1
	}
	return k
}

// Build derives the bit layout for m. Tags are assigned by position.
func Build(m *manifest.Manifest) (Layout, error) {
	if err := m.Validate(); err != nil {
		return Layout{}, fmt.Errorf("build layout: %w", err)
	}

	k := tagWidth(len(m.Variants))
	if k >= boxedSpace {
		return Layout{}, fmt.Errorf("build layout: %w: %d variants need %d tag bits",
			ErrTooManyVariants, len(m.Variants), k)
	}
	avail := uint(boxedSpace) - k

	l := Layout{
		tagBits:  k,
		tagShift: uint(boxedSpace) - k,
		variants: make([]variantLayout, 0, len(m.Variants)),
	}
	for i, v := range m.Variants {
		w := v.EffectiveWidth()
		if w > avail {
			return Layout{}, fmt.Errorf("build layout: variant %q (tag %d): %w: %s payload needs %d bits, %d available beside %d tag bits",
				v.Name, i, ErrTooManyVariants, v.Kind, w, avail, k)
		}
		vl := variantLayout{name: v.Name, kind: v.Kind, width: w}
		switch v.Kind {
		case manifest.SignedInt:
			vl.smin = -(int64(1) << (w - 1))
			vl.smax = int64(1)<<(w-1) - 1
		case manifest.UnsignedInt, manifest.Address:
			vl.umax = 1<<w - 1
		case manifest.Bool:
			vl.umax = 1
		}
		l.variants = append(l.variants, vl)
	}

	// Tags are positional, so a collision can only come from a bug in
	// tagWidth. Fatal programming error, not a manifest problem.
	if len(l.variants) > 1<<k {
		panic(fmt.Sprintf("nanbox: duplicate tag: %d variants within %d tag bits", len(l.variants), k))
	}

	log.Debugf("layout built: %d variants, %d tag bits, %d payload bits", len(l.variants), k, avail)
	return l, nil
}

// MustBuild is Build for integration-time manifests that are known good;
// it panics on error.
func MustBuild(m *manifest.Manifest) Layout {
	l, err := Build(m)
	if err != nil {
		panic(fmt.Sprintf("nanbox: %v", err))
	}
	return l
}

func (l Layout) variant(v VariantID) *variantLayout {
	if v < 0 || int(v) >= len(l.variants) {
		panic(fmt.Sprintf("nanbox: unknown variant id %d", v))
	}
	return &l.variants[v]
}

// NumVariants returns the number of registered variants.
func (l Layout) NumVariants() int { return len(l.variants) }

// TagBits returns the derived tag field width.
func (l Layout) TagBits() uint { return l.tagBits }

// Name returns the diagnostic name of v. Panics on an unknown id.
func (l Layout) Name(v VariantID) string { return l.variant(v).name }

// Kind returns the payload kind of v. Panics on an unknown id.
func (l Layout) Kind(v VariantID) manifest.Kind { return l.variant(v).kind }

// PayloadBits returns the payload width of v. Panics on an unknown id.
func (l Layout) PayloadBits(v VariantID) uint { return l.variant(v).width }
