package federate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfed/cosim/errs"
	"github.com/gridfed/cosim/value"
)

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{
		"":              Passthrough,
		"and":           And,
		"and_operation": And,
		"OR":            Or,
		"sum":           Sum,
		"difference":    Diff,
		"max":           Max,
		"min":           Min,
		"average":       Average,
		"mean":          Average,
		"vectorize":     Vectorize,
	}
	for name, want := range cases {
		p, err := ParsePolicy(name)
		require.NoError(t, err, name)
		require.Equal(t, want, p, name)
	}

	_, err := ParsePolicy("median")
	require.ErrorIs(t, err, errs.ErrUnknownPolicy)
}

func vals(vs ...value.Value) []value.Value {
	return vs
}

func TestReduce(t *testing.T) {
	t.Run("SingleValuePassesThrough", func(t *testing.T) {
		for _, p := range []Policy{Passthrough, And, Sum, Max, Average} {
			v, err := Reduce(p, vals(value.Double(1.5)))
			require.NoError(t, err)
			require.True(t, value.Double(1.5).Equal(v))
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Reduce(Sum, nil)
		require.Error(t, err)
	})

	t.Run("PassthroughTakesLast", func(t *testing.T) {
		v, err := Reduce(Passthrough, vals(value.Double(1), value.Double(2)))
		require.NoError(t, err)
		require.Equal(t, 2.0, v.AsDouble())
	})

	t.Run("And", func(t *testing.T) {
		v, err := Reduce(And, vals(value.Bool(true), value.Bool(false)))
		require.NoError(t, err)
		require.False(t, v.AsBool())

		v, err = Reduce(And, vals(value.Bool(true), value.Bool(true)))
		require.NoError(t, err)
		require.True(t, v.AsBool())
	})

	t.Run("AndCoercesNonBooleans", func(t *testing.T) {
		v, err := Reduce(And, vals(value.Double(1), value.Int(3)))
		require.NoError(t, err)
		require.True(t, v.AsBool())

		v, err = Reduce(And, vals(value.Double(1), value.Double(0)))
		require.NoError(t, err)
		require.False(t, v.AsBool())
	})

	t.Run("Or", func(t *testing.T) {
		v, err := Reduce(Or, vals(value.Bool(false), value.Bool(true)))
		require.NoError(t, err)
		require.True(t, v.AsBool())

		v, err = Reduce(Or, vals(value.Bool(false), value.Bool(false)))
		require.NoError(t, err)
		require.False(t, v.AsBool())
	})

	t.Run("SumDiffMaxMin", func(t *testing.T) {
		in := vals(value.Double(10), value.Double(3), value.Double(5))

		v, _ := Reduce(Sum, in)
		require.Equal(t, 18.0, v.AsDouble())

		v, _ = Reduce(Diff, in)
		require.Equal(t, 2.0, v.AsDouble(), "first minus the rest")

		v, _ = Reduce(Max, in)
		require.Equal(t, 10.0, v.AsDouble())

		v, _ = Reduce(Min, in)
		require.Equal(t, 3.0, v.AsDouble())
	})

	t.Run("AverageIsSumOverN", func(t *testing.T) {
		a, b, c := 0.1, 0.2, 0.4
		in := vals(value.Double(a), value.Double(b), value.Double(c))
		v, err := Reduce(Average, in)
		require.NoError(t, err)
		// float64 variables, not an untyped constant expression: Go evaluates
		// constant arithmetic exactly, which would skip the double rounding.
		require.Equal(t, (a+b+c)/3, v.AsDouble(), "IEEE-754 double rounding, bit for bit")
	})

	t.Run("Vectorize", func(t *testing.T) {
		v, err := Reduce(Vectorize, vals(value.Double(1), value.Double(2)))
		require.NoError(t, err)
		require.Equal(t, []float64{1, 2}, v.AsVector())
	})

	t.Run("VectorizeFlattensVectors", func(t *testing.T) {
		v, err := Reduce(Vectorize, vals(value.Vector([]float64{1, 2}), value.Double(3)))
		require.NoError(t, err)
		require.Equal(t, []float64{1, 2, 3}, v.AsVector())
	})

	t.Run("VectorizeSingleOperand", func(t *testing.T) {
		v, err := Reduce(Vectorize, vals(value.Double(4)))
		require.NoError(t, err)
		require.Equal(t, value.KindVector, v.Kind())
		require.Equal(t, []float64{4}, v.AsVector())
	})

	t.Run("VectorizePromotesToComplex", func(t *testing.T) {
		v, err := Reduce(Vectorize, vals(value.Double(1), value.Complex(complex(2, 3))))
		require.NoError(t, err)
		require.Equal(t, value.KindComplexVector, v.Kind())
		require.Equal(t, []complex128{complex(1, 0), complex(2, 3)}, v.AsComplexVector())
	})
}
