package permcore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripLicenseeConvention(t *testing.T) {
	p := LicenseeParams()
	s, err := NormalizeLicenseeKey(0.42)
	require.NoError(t, err)
	phi := 100 * s

	n := 8
	m := Map(p, phi, n)
	require.NoError(t, Validate(m))

	x := []byte("ABCDEFGH")
	y, err := Apply(x, m)
	require.NoError(t, err)

	back, err := ApplyInverse(y, m)
	require.NoError(t, err)
	require.Equal(t, x, back)
}

func TestMapIsBijection(t *testing.T) {
	p := LicenseeParams()
	for _, s := range []float64{0, 0.1, 1.5, 3.14, 6.0} {
		norm, err := NormalizeLicenseeKey(s)
		require.NoError(t, err)
		m := Map(p, 100*norm, 64)
		require.NoError(t, Validate(m))
	}
}

func TestNormalizationPeriodicity(t *testing.T) {
	p := LicenseeParams()
	s1, err := NormalizeLicenseeKey(0.75)
	require.NoError(t, err)
	s2, err := NormalizeLicenseeKey(0.75 + 2*math.Pi*3)
	require.NoError(t, err)

	m1 := Map(p, 100*s1, 16)
	m2 := Map(p, 100*s2, 16)
	require.Equal(t, m1, m2)
}

func TestArgsortConventionRoundTrip(t *testing.T) {
	p := SineScrambleParams()
	phi := 1.0 * 2.5 // gamma * key component
	n := 128
	m := ArgsortMap(p, phi, n)
	require.NoError(t, Validate(m))

	x := make([]byte, n)
	for i := range x {
		x[i] = byte(i)
	}
	y, err := ApplyArgsort(x, m)
	require.NoError(t, err)
	back, err := ApplyArgsortInverse(y, m)
	require.NoError(t, err)
	require.Equal(t, x, back)
}

func TestApplyRejectsLengthMismatch(t *testing.T) {
	m := []int{0, 1, 2}
	_, err := Apply([]byte{1, 2}, m)
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestValidateRejectsInvalidMap(t *testing.T) {
	require.Error(t, Validate([]int{0, 0, 2}))
	require.Error(t, Validate([]int{0, 1, 5}))
}

func TestInvertRoundTrip(t *testing.T) {
	p := LicenseeParams()
	m := Map(p, 100*0.33, 10)
	inv, err := Invert(m)
	require.NoError(t, err)
	back, err := Invert(inv)
	require.NoError(t, err)
	require.Equal(t, m, back)
}
