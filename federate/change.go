package federate

import (
	"math"

	"github.com/gridfed/cosim/value"
)

// Changed implements the change-detection rule deciding whether a candidate
// value differs enough from the stored one to be observable.
//
//   - differing tags always count as a change
//   - numeric scalars change when |next - prev| > delta
//   - complex values and vectors change when the L-infinity norm of the
//     element-wise difference exceeds delta; length mismatches change
//   - strings, named points and booleans change on inequality, ignoring
//     delta
//
// A delta of zero degenerates to strict inequality: ties do not trigger.
func Changed(prev, next value.Value, delta float64) bool {
	if prev.Kind() != next.Kind() {
		return true
	}

	switch prev.Kind() {
	case value.KindDouble:
		return math.Abs(next.AsDouble()-prev.AsDouble()) > delta
	case value.KindInt:
		return absDiffInt(next.AsInt(), prev.AsInt()) > delta
	case value.KindTime:
		return math.Abs(next.AsTime().Seconds()-prev.AsTime().Seconds()) > delta
	case value.KindComplex:
		return complexDiff(next.AsComplex(), prev.AsComplex()) > delta
	case value.KindVector:
		p, n := prev.AsVector(), next.AsVector()
		if len(p) != len(n) {
			return true
		}
		for i := range n {
			if math.Abs(n[i]-p[i]) > delta {
				return true
			}
		}
		return false
	case value.KindComplexVector:
		p, n := prev.AsComplexVector(), next.AsComplexVector()
		if len(p) != len(n) {
			return true
		}
		for i := range n {
			if complexDiff(n[i], p[i]) > delta {
				return true
			}
		}
		return false
	default:
		// strings, named points, booleans: exact comparison.
		return !prev.Equal(next)
	}
}

// absDiffInt computes |a-b| without overflowing on opposite-sign operands.
func absDiffInt(a, b int64) float64 {
	if a >= b {
		return float64(uint64(a - b))
	}
	return float64(uint64(b - a))
}

// complexDiff is the L-infinity distance between two complex values.
func complexDiff(a, b complex128) float64 {
	return math.Max(math.Abs(real(a)-real(b)), math.Abs(imag(a)-imag(b)))
}
