package spline

import (
	"fmt"
	"math"
)

const (
	periodicTolerance = 1e-15
)

func BuildPoints(points []Point, policy BoundaryPolicy, opts ...Option) (*Interpolant, error) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))

	for idx, p := range points {
		xs[idx] = p.X
		ys[idx] = p.Y
	}

	return Build(xs, ys, policy, opts...)
}

// Build fits a cubic spline through (xs[i], ys[i]) closed by the given
// boundary policy. The input slices are copied.
func Build(xs, ys []float64, policy BoundaryPolicy, opts ...Option) (*Interpolant, error) {
	if err := CheckPoints(xs, ys); err != nil {
		return nil, err
	}

	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBoundaryPolicy, int(policy))
	}

	opt := optionNew(opts...)

	xs = append([]float64(nil), xs...)
	ys = append([]float64(nil), ys...)

	var (
		moments []float64
		err     error
	)

	switch policy {
	case Natural:
		moments, err = naturalMoments(xs, ys)
	case Clamped:
		moments, err = clampedMoments(xs, ys, opt.startSlope, opt.endSlope)
	case Periodic:
		n := len(ys)
		if math.Abs(ys[0]-ys[n-1]) > periodicTolerance+periodicTolerance*math.Abs(ys[n-1]) {
			return nil, fmt.Errorf("%w: y[0] = %g, y[%d] = %g", ErrPeriodicEndpointMismatch, ys[0], n-1, ys[n-1])
		}

		ys[n-1] = ys[0]
		moments, err = periodicMoments(xs, ys)
	default:
		moments, err = notAKnotMoments(xs, ys)
	}

	if err != nil {
		return nil, err
	}

	return newInterpolant(xs, ys, moments, policy), nil
}

// CheckPoints verifies a control point table without building anything.
func CheckPoints(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: len(xs) = %d, len(ys) = %d", ErrLengthMismatch, len(xs), len(ys))
	}

	if len(xs) < 2 {
		return fmt.Errorf("%w: got %d, need at least 2", ErrInsufficientPoints, len(xs))
	}

	// A non-finite x can not be part of a strictly increasing sequence.
	for idx := range xs {
		if math.IsNaN(xs[idx]) || math.IsInf(xs[idx], 0) {
			return fmt.Errorf("%w: x[%d] = %g", ErrNonMonotonicX, idx, xs[idx])
		}

		if idx > 0 && !(xs[idx] > xs[idx-1]) {
			return fmt.Errorf("%w: x[%d] = %g after x[%d] = %g", ErrNonMonotonicX, idx, xs[idx], idx-1, xs[idx-1])
		}
	}

	for idx := range ys {
		if math.IsNaN(ys[idx]) || math.IsInf(ys[idx], 0) {
			return fmt.Errorf("%w: y[%d] = %g", ErrNonFiniteValue, idx, ys[idx])
		}
	}

	return nil
}

func intervals(xs, ys []float64) (hs, deltas []float64) {
	hs = make([]float64, len(xs)-1)
	deltas = make([]float64, len(xs)-1)

	for i := range hs {
		hs[i] = xs[i+1] - xs[i]
		deltas[i] = (ys[i+1] - ys[i]) / hs[i]
	}

	return
}

// interiorSystem fills the rows 1..n-2 of the moment system. Row i asks for
// the first derivative to agree across knot i.
func interiorSystem(hs, deltas []float64) (sub, diag, sup, rhs []float64) {
	n := len(hs) + 1

	sub = make([]float64, n-1)
	diag = make([]float64, n)
	sup = make([]float64, n-1)
	rhs = make([]float64, n)

	for i := 1; i < n-1; i++ {
		sub[i-1] = hs[i-1]
		diag[i] = 2 * (hs[i-1] + hs[i])
		sup[i] = hs[i]
		rhs[i] = 6 * (deltas[i] - deltas[i-1])
	}

	return
}

func naturalMoments(xs, ys []float64) ([]float64, error) {
	hs, deltas := intervals(xs, ys)
	sub, diag, sup, rhs := interiorSystem(hs, deltas)
	n := len(diag)

	// M[0] = M[n-1] = 0, scaled like the neighbouring rows.
	diag[0] = 2 * hs[0]
	diag[n-1] = 2 * hs[n-2]

	return solveTridiagonal(sub, diag, sup, rhs)
}

func clampedMoments(xs, ys []float64, startSlope, endSlope float64) ([]float64, error) {
	hs, deltas := intervals(xs, ys)
	sub, diag, sup, rhs := interiorSystem(hs, deltas)
	n := len(diag)

	diag[0] = 2 * hs[0]
	sup[0] = hs[0]
	rhs[0] = 6 * (deltas[0] - startSlope)

	sub[n-2] = hs[n-2]
	diag[n-1] = 2 * hs[n-2]
	rhs[n-1] = 6 * (endSlope - deltas[n-2])

	return solveTridiagonal(sub, diag, sup, rhs)
}

func notAKnotMoments(xs, ys []float64) ([]float64, error) {
	hs, deltas := intervals(xs, ys)
	n := len(xs)

	switch n {
	case 2:
		return make([]float64, 2), nil
	case 3:
		m := 2 * (deltas[1] - deltas[0]) / (hs[0] + hs[1])

		return []float64{m, m, m}, nil
	}

	sub, diag, sup, rhs := interiorSystem(hs, deltas)

	// The jump of the third derivative across knot 1 vanishes. Combined with
	// row 1 to drop M[2]:
	//   (h0-h1)*M0 + (2*h0+h1)*M1 = h0*rhs1/(h0+h1)
	h0, h1 := hs[0], hs[1]
	diag[0] = h0 - h1
	sup[0] = 2*h0 + h1
	rhs[0] = h0 * rhs[1] / (h0 + h1)

	// Mirror image at knot n-2.
	a, b := hs[n-3], hs[n-2]
	sub[n-2] = a + 2*b
	diag[n-1] = b - a
	rhs[n-1] = b * rhs[n-2] / (a + b)

	return solveTridiagonal(sub, diag, sup, rhs)
}

// periodicMoments solves for M[0..n-2]; M[n-1] repeats M[0].
func periodicMoments(xs, ys []float64) ([]float64, error) {
	hs, deltas := intervals(xs, ys)
	m := len(hs)

	var (
		moments []float64
		err     error
	)

	switch m {
	case 1:
		moments = []float64{0}
	case 2:
		s := hs[0] + hs[1]
		moments, err = solveTridiagonal([]float64{s}, []float64{2 * s, 2 * s}, []float64{s},
			[]float64{6 * (deltas[0] - deltas[1]), 6 * (deltas[1] - deltas[0])})
	default:
		sub := make([]float64, m-1)
		diag := make([]float64, m)
		sup := make([]float64, m-1)
		rhs := make([]float64, m)

		for i := 0; i < m; i++ {
			prev := (i - 1 + m) % m

			diag[i] = 2 * (hs[prev] + hs[i])
			rhs[i] = 6 * (deltas[i] - deltas[prev])

			if i > 0 {
				sub[i-1] = hs[prev]
			}

			if i < m-1 {
				sup[i] = hs[i]
			}
		}

		moments, err = solveCyclic(sub, diag, sup, hs[m-1], hs[m-1], rhs)
	}

	if err != nil {
		return nil, err
	}

	return append(moments, moments[0]), nil
}
