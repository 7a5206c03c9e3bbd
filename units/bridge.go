package units

import (
	"fmt"
	"math"

	"github.com/gridfed/cosim/errs"
	"github.com/gridfed/cosim/value"
)

// Bridge converts values from an input unit to an output unit through the
// linear map y = a*x + b. The zero Bridge is not the identity (its scale is
// zero); use Identity for the no-conversion bridge.
type Bridge struct {
	scale  float64
	offset float64
	ident  bool
}

// Identity returns the no-conversion bridge.
func Identity() Bridge {
	return Bridge{scale: 1, ident: true}
}

// NewBridge builds the bridge converting quantities expressed in `in` to
// quantities expressed in `out`. Non-commensurable units are a
// configuration error; they are never silently dropped.
func NewBridge(in, out Unit) (Bridge, error) {
	if !in.Commensurable(out) {
		return Bridge{}, fmt.Errorf("%w: %q -> %q", errs.ErrIncompatibleUnits, in, out)
	}
	if in == out || (in.scale == out.scale && in.offset == out.offset) {
		return Identity(), nil
	}

	// x_SI = in.scale*x + in.offset, so x_out = (x_SI - out.offset)/out.scale.
	scale := in.scale / out.scale
	offset := (in.offset - out.offset) / out.scale

	return Bridge{scale: scale, offset: offset}, nil
}

// ParseBridge builds a bridge directly from two unit expressions. Either
// side may be empty; both empty or equal yields the identity.
func ParseBridge(inExpr, outExpr string) (Bridge, error) {
	if inExpr == outExpr {
		return Identity(), nil
	}
	in, err := Parse(inExpr)
	if err != nil {
		return Bridge{}, err
	}
	out, err := Parse(outExpr)
	if err != nil {
		return Bridge{}, err
	}

	return NewBridge(in, out)
}

// Identity reports whether b performs no conversion.
func (b Bridge) Identity() bool {
	return b.ident || (b.scale == 1 && b.offset == 0)
}

// Double converts a scalar.
func (b Bridge) Double(x float64) float64 {
	if b.Identity() {
		return x
	}
	return b.scale*x + b.offset
}

// Int converts an integer through double arithmetic, rounding half-to-even
// on the way back. The second result reports saturation at the int64 range.
func (b Bridge) Int(x int64) (int64, bool) {
	if b.Identity() {
		return x, false
	}
	y := b.Double(float64(x))
	switch {
	case math.IsNaN(y):
		return 0, false
	case y >= math.MaxInt64:
		return math.MaxInt64, true
	case y <= math.MinInt64:
		return math.MinInt64, y < math.MinInt64
	default:
		return int64(math.RoundToEven(y)), false
	}
}

// Complex converts a complex scalar: both components are scaled, the offset
// shifts only the real part.
func (b Bridge) Complex(c complex128) complex128 {
	if b.Identity() {
		return c
	}
	return complex(b.scale*real(c)+b.offset, b.scale*imag(c))
}

// Vector converts a sequence element-wise into a new slice.
func (b Bridge) Vector(xs []float64) []float64 {
	if b.Identity() {
		return xs
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = b.Double(x)
	}
	return out
}

// Apply converts the numeric payload of v, leaving non-numeric kinds
// untouched. The second result reports integer saturation.
func (b Bridge) Apply(v value.Value) (value.Value, bool) {
	if b.Identity() {
		return v, false
	}
	switch v.Kind() {
	case value.KindDouble:
		return value.Double(b.Double(v.AsDouble())), false
	case value.KindInt:
		i, sat := b.Int(v.AsInt())
		return value.Int(i), sat
	case value.KindComplex:
		return value.Complex(b.Complex(v.AsComplex())), false
	case value.KindVector:
		return value.Vector(b.Vector(v.AsVector())), false
	case value.KindComplexVector:
		src := v.AsComplexVector()
		out := make([]complex128, len(src))
		for i, c := range src {
			out[i] = b.Complex(c)
		}
		return value.ComplexVector(out), false
	case value.KindNamedPoint:
		np := v.AsNamed()
		return value.Named(np.Name, b.Double(np.Value)), false
	default:
		// strings, booleans and times carry no unit.
		return v, false
	}
}
