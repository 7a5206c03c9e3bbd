package value

import (
	"fmt"
	"strings"

	"github.com/gridfed/cosim/errs"
)

// Kind identifies one of the nine primary value types. The ordinals are part
// of the serialized type tag and must not be reordered.
type Kind uint8

const (
	KindDouble        Kind = 0 // KindDouble is a 64-bit IEEE-754 double.
	KindInt           Kind = 1 // KindInt is a signed 64-bit integer.
	KindString        Kind = 2 // KindString is a UTF-8 byte sequence.
	KindComplex       Kind = 3 // KindComplex is a pair of doubles.
	KindVector        Kind = 4 // KindVector is an ordered sequence of doubles.
	KindComplexVector Kind = 5 // KindComplexVector is an ordered sequence of complex values.
	KindNamedPoint    Kind = 6 // KindNamedPoint is a string plus a double.
	KindBool          Kind = 7 // KindBool is a boolean.
	KindTime          Kind = 8 // KindTime is a fixed-point simulation time.

	// KindCustom marks a user-defined non-primary type. It never appears in a
	// serialized type tag; custom payloads bypass the tagged container.
	KindCustom Kind = 0xFE

	// KindUnknown marks a type that has not been determined yet, e.g. an input
	// declared with "def" before the first publication arrives.
	KindUnknown Kind = 0xFF
)

// kindCount is the number of primary kinds.
const kindCount = 9

var kindNames = [kindCount]string{
	"double", "int", "string", "complex", "vector",
	"complex_vector", "named_point", "bool", "time",
}

// Primary reports whether k is one of the nine primary kinds.
func (k Kind) Primary() bool {
	return k < kindCount
}

func (k Kind) String() string {
	switch {
	case k.Primary():
		return kindNames[k]
	case k == KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Numeric reports whether values of kind k carry a numeric scalar payload.
func (k Kind) Numeric() bool {
	switch k {
	case KindDouble, KindInt, KindComplex, KindBool, KindTime:
		return true
	default:
		return false
	}
}

// ParseKind maps a declaration type name to a Kind. Matching is
// case-insensitive. The alias "def" and the name "unknown" both yield
// KindUnknown, meaning the kind is inferred from the first publication.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "double", "float64", "float":
		return KindDouble, nil
	case "int", "int64", "integer":
		return KindInt, nil
	case "string":
		return KindString, nil
	case "complex":
		return KindComplex, nil
	case "vector", "double_vector":
		return KindVector, nil
	case "complex_vector":
		return KindComplexVector, nil
	case "named_point", "namedpoint":
		return KindNamedPoint, nil
	case "bool", "boolean":
		return KindBool, nil
	case "time":
		return KindTime, nil
	case "custom", "raw":
		return KindCustom, nil
	case "def", "unknown", "any", "":
		return KindUnknown, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", errs.ErrInvalidType, name)
	}
}
