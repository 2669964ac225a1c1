package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

var samples = []Vector3{
	{1, 0, 0},
	{0, 1, 0},
	{1, 2, 3},
	{-4.5, 0.25, 7},
	{1e-3, -2e3, 5},
}

func assertVecInDelta(t *testing.T, want, got Vector3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestArithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -5, 6)

	assert.Equal(t, New(5, -3, 9), a.Add(b))
	assert.Equal(t, New(-3, 7, -3), a.Sub(b))
	assert.Equal(t, New(-1, -2, -3), a.Neg())
	assert.Equal(t, New(2, 4, 6), a.Scale(2))
	assert.Equal(t, New(0.5, 1, 1.5), a.Div(2))
	assert.Equal(t, New(1, 2, 3), a, "receiver must not change")
}

func TestCrossBasis(t *testing.T) {
	x, y, z := New(1, 0, 0), New(0, 1, 0), New(0, 0, 1)
	assert.Equal(t, z, Cross(x, y))
	assert.Equal(t, x, Cross(y, z))
	assert.Equal(t, y, Cross(z, x))
}

func TestCrossAnticommutes(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			assertVecInDelta(t, Cross(a, b), Cross(b, a).Neg(), tol)
		}
	}
}

func TestDotMagnitudeIdentity(t *testing.T) {
	for _, v := range samples {
		m := v.Magnitude()
		assert.InDelta(t, m*m, Dot(v, v), 1e-9*math.Max(1, m*m))
	}
	assert.Equal(t, Dot(samples[2], samples[3]), Dot(samples[3], samples[2]))
}

func TestNormalizedIdempotent(t *testing.T) {
	for _, v := range samples {
		n := v.Normalized()
		assert.InDelta(t, 1.0, n.Magnitude(), tol)
		assertVecInDelta(t, n, n.Normalized(), tol)
	}
}

func TestNormalizedZero(t *testing.T) {
	assert.Equal(t, Zero, Zero.Normalized())
	assert.True(t, Zero.Normalized().IsZero())
}

func TestGammaFromProper(t *testing.T) {
	assert.Equal(t, 1.0, Zero.GammaFromProper(SpeedOfLight))
	u := New(3, 0, 4) // |u| = 5
	assert.InDelta(t, math.Sqrt(1+25.0/100.0), u.GammaFromProper(10), tol)
}

func TestGammaFromVelocity(t *testing.T) {
	g, err := New(0.6, 0, 0).GammaFromVelocity(1)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, g, tol)

	_, err = New(1, 0, 0).GammaFromVelocity(1)
	assert.ErrorIs(t, err, ErrSuperluminal)

	_, err = New(0, 2, 0).GammaFromVelocity(1)
	assert.ErrorIs(t, err, ErrSuperluminal)
}

func TestLorentzRoundTrip(t *testing.T) {
	c := 10.0
	velocities := []Vector3{
		{0, 0, 0},
		{1, 2, 3},
		{9.9, 0, 0},
		{-5, 5, -5},
	}
	for _, v := range velocities {
		u, err := ProperFromVelocity(v, c)
		require.NoError(t, err)
		assertVecInDelta(t, v, VelocityFromProper(u, c), 1e-9)
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, New(1, 2, 3).IsFinite())
	assert.False(t, New(math.NaN(), 0, 0).IsFinite())
	assert.False(t, New(0, math.Inf(1), 0).IsFinite())
}
