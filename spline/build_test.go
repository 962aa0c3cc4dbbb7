package spline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	utTolerance = 1e-9
)

var allPolicies = []BoundaryPolicy{NotAKnot, Periodic, Clamped, Natural}

func utTable(policy BoundaryPolicy) (xs, ys []float64) {
	xs = []float64{-1, 0, 0.5, 2, 3.5, 4, 7}
	ys = []float64{2, -1, 0.25, 3, 1, 1.5, 0}

	if policy == Periodic {
		ys[len(ys)-1] = ys[0]
	}

	return
}

func TestBuildInterpolatesKnots(t *testing.T) {
	for _, policy := range allPolicies {
		xs, ys := utTable(policy)

		ip, err := Build(xs, ys, policy)
		require.Nil(t, err, policy.String())

		for i := range xs {
			assert.InDelta(t, ys[i], ip.Eval(xs[i]), utTolerance, "%s x=%g", policy, xs[i])
		}

		assert.Len(t, ip.Segments(), len(xs)-1)
		assert.EqualValues(t, xs, ip.Knots())
	}
}

func TestBuildC2Continuity(t *testing.T) {
	for _, policy := range allPolicies {
		xs, ys := utTable(policy)

		ip, err := Build(xs, ys, policy)
		require.Nil(t, err)

		segments := ip.Segments()

		for i := 1; i < len(segments); i++ {
			left, right := segments[i-1], segments[i]
			h := right.X0 - left.X0

			assert.EqualValues(t, xs[i], right.X0)

			for order := 0; order <= 2; order++ {
				assert.InDelta(t, left.Deriv(h, order), right.Deriv(0, order), utTolerance,
					"%s knot %d order %d", policy, i, order)
			}
		}
	}
}

func TestBuildNotAKnotThirdDerivative(t *testing.T) {
	xs, ys := utTable(NotAKnot)

	ip, err := Build(xs, ys, NotAKnot)
	require.Nil(t, err)

	segments := ip.Segments()
	n := len(segments)

	assert.InDelta(t, segments[0].D, segments[1].D, utTolerance)
	assert.InDelta(t, segments[n-2].D, segments[n-1].D, utTolerance)
}

func TestBuildNotAKnotReproducesCubic(t *testing.T) {
	cubic := func(x float64) float64 {
		return x*x*x - 2*x + 1
	}

	xs := []float64{0, 1, 2, 3, 5}
	ys := make([]float64, len(xs))

	for i, x := range xs {
		ys[i] = cubic(x)
	}

	ip, err := Build(xs, ys, NotAKnot)
	require.Nil(t, err)

	for _, x := range []float64{0.3, 1.5, 2.5, 4.2, -1, 6} {
		assert.InDelta(t, cubic(x), ip.Eval(x), 1e-8, "x=%g", x)
	}
}

func TestBuildNotAKnotSmallTables(t *testing.T) {
	ip, err := Build([]float64{1, 3}, []float64{2, 6}, NotAKnot)
	require.Nil(t, err)
	assert.InDelta(t, 4, ip.Eval(2), utTolerance)
	assert.InDelta(t, 10, ip.Eval(5), utTolerance)

	ip, err = Build([]float64{0, 1, 3}, []float64{0, 1, 9}, NotAKnot)
	require.Nil(t, err)
	assert.InDelta(t, 4, ip.Eval(2), utTolerance)
	assert.InDelta(t, 16, ip.Eval(4), utTolerance)
	assert.InDelta(t, 2, ip.Deriv(0.5, 2), utTolerance)
}

func TestBuildNaturalScenario(t *testing.T) {
	ip, err := Build([]float64{0, 1, 2, 3}, []float64{0, 1, 0, 1}, Natural)
	require.Nil(t, err)

	v := ip.Eval(1.5)
	assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	assert.InDelta(t, 0.5, v, utTolerance)
	assert.True(t, v > 0 && v < 1)

	assert.InDelta(t, 0, ip.Deriv(0, 2), utTolerance)
	assert.InDelta(t, 0, ip.Deriv(3, 2), utTolerance)
}

func TestBuildNaturalReproducesLine(t *testing.T) {
	ip, err := Build([]float64{0, 2, 3, 10}, []float64{1, 5, 7, 21}, Natural)
	require.Nil(t, err)

	for _, x := range []float64{-3, 0.5, 2.5, 8, 12} {
		assert.InDelta(t, 2*x+1, ip.Eval(x), utTolerance)
	}
}

func TestBuildClamped(t *testing.T) {
	xs, ys := utTable(Clamped)

	ip, err := Build(xs, ys, Clamped)
	require.Nil(t, err)
	assert.InDelta(t, 0, ip.Deriv(xs[0], 1), utTolerance)
	assert.InDelta(t, 0, ip.Deriv(xs[len(xs)-1], 1), utTolerance)

	ip, err = Build(xs, ys, Clamped, ClampSlopesOption(1.5, -2))
	require.Nil(t, err)
	assert.InDelta(t, 1.5, ip.Deriv(xs[0], 1), utTolerance)
	assert.InDelta(t, -2, ip.Deriv(xs[len(xs)-1], 1), utTolerance)

	ip, err = Build([]float64{0, 1}, []float64{0, 1}, Clamped)
	require.Nil(t, err)
	assert.InDelta(t, 0.5, ip.Eval(0.5), utTolerance)
	assert.InDelta(t, 0, ip.Deriv(0, 1), utTolerance)
}

func TestBuildPeriodic(t *testing.T) {
	n := 9
	xs := make([]float64, n)
	ys := make([]float64, n)

	for i := range xs {
		xs[i] = 2 * math.Pi * float64(i) / float64(n-1)
		ys[i] = math.Sin(xs[i])
	}

	ys[n-1] = ys[0]

	ip, err := Build(xs, ys, Periodic)
	require.Nil(t, err)

	segments := ip.Segments()
	first, last := segments[0], segments[len(segments)-1]
	h := xs[n-1] - last.X0

	for order := 0; order <= 2; order++ {
		assert.InDelta(t, first.Deriv(0, order), last.Deriv(h, order), utTolerance, "order %d", order)
	}

	for _, x := range []float64{0.4, 1.7, 3, 5.5} {
		assert.InDelta(t, math.Sin(x), ip.Eval(x), 1e-2)
		assert.InDelta(t, ip.Eval(x), ip.Eval(x+2*math.Pi), utTolerance)
		assert.InDelta(t, ip.Eval(x), ip.Eval(x-4*math.Pi), utTolerance)
	}
}

func TestBuildPeriodicSmallTables(t *testing.T) {
	ip, err := Build([]float64{0, 1}, []float64{3, 3}, Periodic)
	require.Nil(t, err)
	assert.InDelta(t, 3, ip.Eval(0.3), utTolerance)

	ip, err = Build([]float64{0, 1, 3}, []float64{0, 2, 0}, Periodic)
	require.Nil(t, err)

	segments := ip.Segments()
	for order := 0; order <= 2; order++ {
		assert.InDelta(t, segments[0].Deriv(0, order), segments[1].Deriv(2, order), utTolerance)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		xs, ys []float64
		policy BoundaryPolicy
		err    error
	}{
		{[]float64{0, 1, 2}, []float64{0, 1}, NotAKnot, ErrLengthMismatch},
		{[]float64{0}, []float64{0}, Natural, ErrInsufficientPoints},
		{nil, nil, Natural, ErrInsufficientPoints},
		{[]float64{0, 2, 1}, []float64{0, 1, 2}, Natural, ErrNonMonotonicX},
		{[]float64{0, 1, 1}, []float64{0, 1, 2}, Clamped, ErrNonMonotonicX},
		{[]float64{0, math.NaN(), 2}, []float64{0, 1, 2}, Natural, ErrNonMonotonicX},
		{[]float64{math.Inf(-1), 1, 2}, []float64{0, 1, 2}, Natural, ErrNonMonotonicX},
		{[]float64{0, 1, math.Inf(1)}, []float64{0, 1, 2}, Natural, ErrNonMonotonicX},
		{[]float64{2, 1, 3}, []float64{0, math.NaN(), 2}, Natural, ErrNonMonotonicX},
		{[]float64{0, 1, 2}, []float64{0, math.Inf(1), 2}, Natural, ErrNonFiniteValue},
		{[]float64{0, 1, 2}, []float64{0, 1, 2}, Periodic, ErrPeriodicEndpointMismatch},
		{[]float64{0, 1, 2}, []float64{0, 1, 0}, BoundaryPolicy(9), ErrUnknownBoundaryPolicy},
	}

	for _, c := range cases {
		ip, err := Build(c.xs, c.ys, c.policy)
		assert.Nil(t, ip)
		assert.True(t, errors.Is(err, c.err), "want %v, got %v", c.err, err)
	}
}

func TestBuildCopiesInput(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 1, 4}

	ip, err := Build(xs, ys, Natural)
	require.Nil(t, err)

	before := ip.Eval(1.5)
	xs[1], ys[1] = 0.5, 100

	assert.Equal(t, before, ip.Eval(1.5))
}

func TestBuildPoints(t *testing.T) {
	ip, err := BuildPoints([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 3, Y: 1}}, Natural)
	require.Nil(t, err)
	assert.InDelta(t, 0.5, ip.Eval(1.5), utTolerance)
	assert.Equal(t, Natural, ip.Policy())
}
