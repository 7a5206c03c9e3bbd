package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfed/cosim/errs"
	"github.com/gridfed/cosim/value"
)

func TestParse(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		u, err := Parse("")
		require.NoError(t, err)
		require.True(t, u.Dimensionless())
	})

	t.Run("Prefixed", func(t *testing.T) {
		km := MustParse("km")
		m := MustParse("m")
		require.True(t, km.Commensurable(m))
	})

	t.Run("Compound", func(t *testing.T) {
		mps := MustParse("m/s")
		kmh := MustParse("km/h")
		require.True(t, mps.Commensurable(kmh))
		require.False(t, mps.Commensurable(MustParse("m")))
	})

	t.Run("Exponent", func(t *testing.T) {
		require.True(t, MustParse("m/s^2").Commensurable(MustParse("m/s/s")))
		require.True(t, MustParse("m2").Commensurable(MustParse("m^2")))
	})

	t.Run("DerivedMatchesBase", func(t *testing.T) {
		require.True(t, MustParse("W").Commensurable(MustParse("J/s")))
		require.True(t, MustParse("V").Commensurable(MustParse("W/A")))
		require.True(t, MustParse("kW").Commensurable(MustParse("MW")))
	})

	t.Run("ExactSymbolBeatsPrefix", func(t *testing.T) {
		// "min" is a minute, not a milli-inch.
		b, err := ParseBridge("min", "s")
		require.NoError(t, err)
		require.Equal(t, 60.0, b.Double(1))
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := Parse("florp")
		require.ErrorIs(t, err, errs.ErrUnknownUnit)
	})

	t.Run("AffineInCompound", func(t *testing.T) {
		_, err := Parse("degC/s")
		require.ErrorIs(t, err, errs.ErrUnknownUnit)
	})
}

func TestBridge(t *testing.T) {
	t.Run("MetresToKilometres", func(t *testing.T) {
		b, err := ParseBridge("m", "km")
		require.NoError(t, err)
		require.Equal(t, 1.5, b.Double(1500.0))
	})

	t.Run("Identity", func(t *testing.T) {
		b, err := ParseBridge("", "")
		require.NoError(t, err)
		require.True(t, b.Identity())

		b, err = ParseBridge("kV", "kV")
		require.NoError(t, err)
		require.True(t, b.Identity())
	})

	t.Run("NonCommensurable", func(t *testing.T) {
		_, err := ParseBridge("kg", "km")
		require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
	})

	t.Run("AffineTemperature", func(t *testing.T) {
		b, err := ParseBridge("degC", "K")
		require.NoError(t, err)
		require.InDelta(t, 273.15, b.Double(0), 1e-12)
		require.InDelta(t, 373.15, b.Double(100), 1e-12)

		b, err = ParseBridge("degC", "degF")
		require.NoError(t, err)
		require.InDelta(t, 32.0, b.Double(0), 1e-9)
		require.InDelta(t, 212.0, b.Double(100), 1e-9)
	})

	t.Run("IntRoundsHalfToEven", func(t *testing.T) {
		b, err := ParseBridge("m", "dm") // scale 10
		require.NoError(t, err)

		i, sat := b.Int(5)
		require.Equal(t, int64(50), i)
		require.False(t, sat)

		b, err = ParseBridge("dm", "m") // scale 0.1
		require.NoError(t, err)
		i, _ = b.Int(25)
		require.Equal(t, int64(2), i, "2.5 rounds to even")
		i, _ = b.Int(35)
		require.Equal(t, int64(4), i)
	})

	t.Run("IntSaturates", func(t *testing.T) {
		b, err := ParseBridge("Gm", "nm")
		require.NoError(t, err)

		i, sat := b.Int(math.MaxInt64 / 2)
		require.Equal(t, int64(math.MaxInt64), i)
		require.True(t, sat)
	})

	t.Run("VectorElementWise", func(t *testing.T) {
		b, err := ParseBridge("m", "km")
		require.NoError(t, err)
		require.Equal(t, []float64{1.5, 2}, b.Vector([]float64{1500, 2000}))
	})

	t.Run("ComplexScalesBothParts", func(t *testing.T) {
		b, err := ParseBridge("kV", "V")
		require.NoError(t, err)
		require.Equal(t, complex(1000.0, 2000.0), b.Complex(complex(1, 2)))
	})
}

// A bridge applied forward then backward must land within rounding noise of
// the start for every commensurable pair.
func TestBridgeInverseProperty(t *testing.T) {
	pairs := [][2]string{
		{"m", "km"},
		{"kW", "W"},
		{"degC", "degF"},
		{"m/s", "km/h"},
		{"ft", "m"},
	}
	inputs := []float64{-1e6, -273.15, -1, 0, 0.3, 1, 42.5, 9.97e8}

	for _, pair := range pairs {
		fwd, err := ParseBridge(pair[0], pair[1])
		require.NoError(t, err)
		back, err := ParseBridge(pair[1], pair[0])
		require.NoError(t, err)

		for _, x := range inputs {
			y := back.Double(fwd.Double(x))
			tol := 1e-9 + math.Abs(x)*1e-12
			require.InDelta(t, x, y, tol, "%s<->%s at %g", pair[0], pair[1], x)
		}
	}
}

func TestBridgeApply(t *testing.T) {
	b, err := ParseBridge("m", "km")
	require.NoError(t, err)

	t.Run("Double", func(t *testing.T) {
		v, sat := b.Apply(value.Double(1500))
		require.False(t, sat)
		require.True(t, value.Double(1.5).Equal(v))
	})

	t.Run("Int", func(t *testing.T) {
		v, sat := b.Apply(value.Int(2500))
		require.False(t, sat)
		require.Equal(t, int64(2), v.AsInt(), "2.5 km rounds to even")
	})

	t.Run("NamedPoint", func(t *testing.T) {
		v, _ := b.Apply(value.Named("line4", 3000))
		require.True(t, value.Named("line4", 3).Equal(v))
	})

	t.Run("NonNumericUntouched", func(t *testing.T) {
		v, _ := b.Apply(value.String("1500"))
		require.True(t, value.String("1500").Equal(v))

		v, _ = b.Apply(value.Bool(true))
		require.True(t, value.Bool(true).Equal(v))
	})
}
