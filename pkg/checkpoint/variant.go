package checkpoint

import "fmt"

// Variant selects the number of slots and how completed takes are committed.
type Variant string

const (
	// VariantKeyed marks four slots. Every completion overwrites the committed set and the
	// sidecar stores the slots by key.
	VariantKeyed Variant = "keyed"
	// VariantPair marks a start and an end. Each fresh end appends one interval.
	VariantPair Variant = "pair"
	// VariantSingle marks one instant. Each mark appends one instant.
	VariantSingle Variant = "single"
)

// ParseVariant parses a variant name.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantKeyed, VariantPair, VariantSingle:
		return Variant(s), nil
	case "":
		return VariantKeyed, nil
	default:
		return "", fmt.Errorf("unknown variant %q (want keyed, pair or single)", s)
	}
}

// Slots returns K for the variant.
func (v Variant) Slots() int {
	switch v {
	case VariantPair:
		return 2
	case VariantSingle:
		return 1
	default:
		return 4
	}
}

// Keyed reports whether takes are stored as a slot mapping rather than as a history.
func (v Variant) Keyed() bool {
	return v != VariantPair && v != VariantSingle
}
