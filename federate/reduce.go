package federate

import (
	"fmt"
	"strings"

	"github.com/gridfed/cosim/errs"
	"github.com/gridfed/cosim/value"
)

// Policy selects how an input with several connected publications reduces
// one cycle's values to a single observable value.
type Policy uint8

const (
	// Passthrough takes the most recently delivered value.
	Passthrough Policy = iota
	// And reduces boolean-coerced values with logical and.
	And
	// Or reduces boolean-coerced values with logical or.
	Or
	// Sum adds numeric-coerced values.
	Sum
	// Diff subtracts the sum of the remaining values from the first.
	Diff
	// Max takes the numeric maximum.
	Max
	// Min takes the numeric minimum.
	Min
	// Average takes the arithmetic mean of numeric-coerced values.
	Average
	// Vectorize concatenates the values into one ordered sequence,
	// preserving target registration order.
	Vectorize
)

func (p Policy) String() string {
	switch p {
	case Passthrough:
		return "passthrough"
	case And:
		return "and"
	case Or:
		return "or"
	case Sum:
		return "sum"
	case Diff:
		return "diff"
	case Max:
		return "max"
	case Min:
		return "min"
	case Average:
		return "average"
	case Vectorize:
		return "vectorize"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name to a Policy. The "_operation" suffix used
// in declaration files is accepted and ignored.
func ParsePolicy(name string) (Policy, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "_operation") {
	case "", "none", "passthrough":
		return Passthrough, nil
	case "and":
		return And, nil
	case "or":
		return Or, nil
	case "sum":
		return Sum, nil
	case "diff", "difference":
		return Diff, nil
	case "max":
		return Max, nil
	case "min":
		return Min, nil
	case "average", "mean":
		return Average, nil
	case "vectorize":
		return Vectorize, nil
	default:
		return Passthrough, fmt.Errorf("%w: %q", errs.ErrUnknownPolicy, name)
	}
}

// Reduce folds one cycle's decoded values into a single value under p.
// Boolean policies coerce operands to booleans and numeric policies to
// doubles, with the standard conversion rules. The reduced value then flows
// through change detection and storage exactly as a single publication
// would.
func Reduce(p Policy, vals []value.Value) (value.Value, error) {
	switch len(vals) {
	case 0:
		return value.Value{}, fmt.Errorf("%w: no values to reduce", errs.ErrUnknownPolicy)
	case 1:
		if p != Vectorize {
			return vals[0], nil
		}
	}

	switch p {
	case Passthrough:
		return vals[len(vals)-1], nil

	case And, Or:
		acc := vals[0].AsBool()
		for _, v := range vals[1:] {
			if p == And {
				acc = acc && v.AsBool()
			} else {
				acc = acc || v.AsBool()
			}
		}
		return value.Bool(acc), nil

	case Sum, Average:
		sum := 0.0
		for _, v := range vals {
			sum += v.AsDouble()
		}
		if p == Average {
			sum /= float64(len(vals))
		}
		return value.Double(sum), nil

	case Diff:
		acc := vals[0].AsDouble()
		for _, v := range vals[1:] {
			acc -= v.AsDouble()
		}
		return value.Double(acc), nil

	case Max, Min:
		acc := vals[0].AsDouble()
		for _, v := range vals[1:] {
			d := v.AsDouble()
			if (p == Max && d > acc) || (p == Min && d < acc) {
				acc = d
			}
		}
		return value.Double(acc), nil

	case Vectorize:
		return vectorize(vals), nil

	default:
		return value.Value{}, fmt.Errorf("%w: %d", errs.ErrUnknownPolicy, p)
	}
}

// vectorize concatenates values in order. If any operand carries complex
// data the result is a complex vector; otherwise a double vector. Vector
// operands are flattened into the result.
func vectorize(vals []value.Value) value.Value {
	hasComplex := false
	for _, v := range vals {
		if k := v.Kind(); k == value.KindComplex || k == value.KindComplexVector {
			hasComplex = true
			break
		}
	}

	if hasComplex {
		var out []complex128
		for _, v := range vals {
			switch v.Kind() {
			case value.KindComplex, value.KindComplexVector:
				out = append(out, v.AsComplexVector()...)
			default:
				for _, d := range v.AsVector() {
					out = append(out, complex(d, 0))
				}
			}
		}
		return value.ComplexVector(out)
	}

	var out []float64
	for _, v := range vals {
		switch v.Kind() {
		case value.KindVector:
			out = append(out, v.AsVector()...)
		default:
			out = append(out, v.AsDouble())
		}
	}
	return value.Vector(out)
}
