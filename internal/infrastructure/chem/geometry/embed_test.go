package geometry

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/pkg/errors"
)

func dist(a, b []float64) float64 {
	s := 0.0
	for k := range a {
		s += (a[k] - b[k]) * (a[k] - b[k])
	}
	return math.Sqrt(s)
}

func TestBounds_SetAndSmooth(t *testing.T) {
	b := NewBounds(3, 10)
	b.Set(0, 1, 1, 1)
	b.Set(2, 1, 1.2, 1) // swapped limits are reordered
	assert.Equal(t, 1.0, b.Lower(1, 2))
	assert.Equal(t, 1.2, b.Upper(2, 1))

	crossed := b.Smooth()
	assert.Zero(t, crossed)
	assert.InDelta(t, 2.2, b.Upper(0, 2), 1e-12)
	assert.InDelta(t, 0.0, b.Lower(0, 2), 1e-12)

	b.SetLower(0, 2, 0.5)
	assert.Equal(t, 0.5, b.Lower(2, 0))
	b.SetLower(0, 2, 0.1)
	assert.Equal(t, 0.5, b.Lower(0, 2))
}

func TestBounds_SmoothCrossed(t *testing.T) {
	b := NewBounds(3, 10)
	b.Set(0, 1, 1, 1)
	b.Set(1, 2, 1, 1)
	b.Set(0, 2, 3, 3)
	assert.Positive(t, b.Smooth())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.LessOrEqual(t, b.Lower(i, j), b.Upper(i, j))
		}
	}
}

func TestBounds_ViolationGradient(t *testing.T) {
	b := NewBounds(3, 10)
	b.Set(0, 1, 1.0, 1.1)
	b.Set(1, 2, 1.0, 1.1)
	b.Set(0, 2, 2.0, 2.2)
	x := []float64{0, 0, 0.5, 0.3, 3, 0.2}

	grad := make([]float64, len(x))
	f := b.Violation(x, 2, grad)
	assert.Positive(t, f)

	const h = 1e-6
	for i := range x {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[i] += h
		xm[i] -= h
		numeric := (b.Violation(xp, 2, nil) - b.Violation(xm, 2, nil)) / (2 * h)
		assert.InDelta(t, numeric, grad[i], 1e-4, "component %d", i)
	}
}

func TestEmbed_Square2D(t *testing.T) {
	b := NewBounds(4, 10)
	for i := 0; i < 4; i++ {
		b.Set(i, (i+1)%4, 1, 1)
	}
	b.Set(0, 2, math.Sqrt2, math.Sqrt2)
	b.Set(1, 3, math.Sqrt2, math.Sqrt2)
	b.Smooth()

	res, err := Embed(context.Background(), b, Options{Dim: 2, Rand: rand.New(rand.NewSource(7))})
	require.NoError(t, err)
	require.Len(t, res.Coords, 4)
	assert.Len(t, res.Coords[0], 2)
	assert.LessOrEqual(t, res.Deviation, DefaultTolerance)
	assert.InDelta(t, 1.0, dist(res.Coords[0], res.Coords[1]), DefaultTolerance)
	assert.InDelta(t, math.Sqrt2, dist(res.Coords[0], res.Coords[2]), DefaultTolerance)
}

func TestEmbed_Tetrahedron3D(t *testing.T) {
	b := NewBounds(4, 10)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			b.Set(i, j, 1.5, 1.5)
		}
	}
	res, err := Embed(context.Background(), b, Options{Dim: 3, Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			assert.InDelta(t, 1.5, dist(res.Coords[i], res.Coords[j]), DefaultTolerance)
		}
	}
}

func TestEmbed_Trivial(t *testing.T) {
	res, err := Embed(context.Background(), NewBounds(0, 10), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Coords)

	res, err = Embed(context.Background(), NewBounds(1, 10), Options{Dim: 3})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0, 0}}, res.Coords)
}

func TestEmbed_Infeasible(t *testing.T) {
	b := NewBounds(3, 10)
	b.Set(0, 1, 1, 1)
	b.Set(1, 2, 1, 1)
	b.Set(0, 2, 5, 5)

	_, err := Embed(context.Background(), b, Options{Dim: 2, MaxAttempts: 3, Rand: rand.New(rand.NewSource(3))})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeConversionFailed))
}

func TestEmbed_AcceptBest(t *testing.T) {
	b := NewBounds(3, 10)
	b.Set(0, 1, 1, 1)
	b.Set(1, 2, 1, 1)
	b.Set(0, 2, 5, 5)

	res, err := Embed(context.Background(), b, Options{Dim: 2, MaxAttempts: 2, AcceptBest: true, Rand: rand.New(rand.NewSource(3))})
	require.NoError(t, err)
	assert.Len(t, res.Coords, 3)
	assert.Greater(t, res.Deviation, DefaultTolerance)
}

func TestDistances(t *testing.T) {
	assert.InDelta(t, math.Sqrt2, LawOfCosines(1, 1, math.Pi/2), 1e-12)
	assert.InDelta(t, 2, LawOfCosines(1, 1, math.Pi), 1e-12)

	// planar zig-zag with 120 degree angles
	angle := 2 * math.Pi / 3
	assert.InDelta(t, 2, TorsionDistance(1, 1, 1, angle, angle, 0), 1e-9)
	assert.InDelta(t, math.Sqrt(7), TorsionDistance(1, 1, 1, angle, angle, math.Pi), 1e-9)
}

func TestEmbed_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Embed(ctx, NewBounds(3, 10), Options{Dim: 3})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTimeout))
}

//Personal.AI order the ending
