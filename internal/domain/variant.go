package domain

import "strings"

// Variant is one of the two résumé presentation styles. The zero value is
// not a valid variant.
type Variant int

const (
	VariantAIOptimized Variant = iota + 1
	VariantTraditional
)

// Variants lists every known variant in display order.
var Variants = []Variant{VariantAIOptimized, VariantTraditional}

// ParseVariant maps the wire name of a variant to its Variant.
func ParseVariant(raw string) (Variant, error) {
	switch strings.TrimSpace(raw) {
	case "ai-optimized":
		return VariantAIOptimized, nil
	case "traditional":
		return VariantTraditional, nil
	case "":
		return 0, NewInvalidVariant(raw, "variant is required")
	default:
		return 0, NewInvalidVariant(raw, "unknown variant")
	}
}

// String returns the wire name, e.g. "ai-optimized".
func (v Variant) String() string {
	switch v {
	case VariantAIOptimized:
		return "ai-optimized"
	case VariantTraditional:
		return "traditional"
	default:
		return "invalid"
	}
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	return v == VariantAIOptimized || v == VariantTraditional
}
