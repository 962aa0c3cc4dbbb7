package spline

import (
	"math"
	"sort"
)

// Interpolant is an immutable piecewise cubic built by Build. It is safe for
// concurrent use.
type Interpolant struct {
	policy   BoundaryPolicy
	knots    []float64
	lastY    float64
	segments []Segment
}

func newInterpolant(xs, ys, moments []float64, policy BoundaryPolicy) *Interpolant {
	n := len(xs)

	segments := make([]Segment, n-1)

	for i := range segments {
		h := xs[i+1] - xs[i]
		segments[i] = Segment{
			X0: xs[i],
			A:  ys[i],
			B:  (ys[i+1]-ys[i])/h - h*(2*moments[i]+moments[i+1])/6,
			C:  moments[i] / 2,
			D:  (moments[i+1] - moments[i]) / (6 * h),
		}
	}

	return &Interpolant{
		policy:   policy,
		knots:    xs,
		lastY:    ys[n-1],
		segments: segments,
	}
}

func (ip *Interpolant) Policy() BoundaryPolicy {
	return ip.policy
}

func (ip *Interpolant) Knots() []float64 {
	return append([]float64(nil), ip.knots...)
}

func (ip *Interpolant) Segments() []Segment {
	return append([]Segment(nil), ip.segments...)
}

// Domain returns the first and last knot.
func (ip *Interpolant) Domain() (lo, hi float64) {
	return ip.knots[0], ip.knots[len(ip.knots)-1]
}

// Eval computes the spline at x. Outside the knot range the boundary segment
// is extended, except for periodic splines, which repeat with the period
// hi - lo.
func (ip *Interpolant) Eval(x float64) float64 {
	return ip.Deriv(x, 0)
}

// Deriv computes the derivative of the given order (0 to 3) at x. Orders
// above 3 are zero.
func (ip *Interpolant) Deriv(x float64, order int) float64 {
	x = ip.wrap(x)

	if order == 0 && x == ip.knots[len(ip.knots)-1] {
		return ip.lastY
	}

	seg := ip.segments[ip.locate(x)]

	return seg.Deriv(x-seg.X0, order)
}

// Integrate integrates the spline from lo to hi. Periodic splines are not
// wrapped here; the boundary segments are extended instead.
// A NaN bound gives NaN.
func (ip *Interpolant) Integrate(lo, hi float64) float64 {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return math.NaN()
	}

	if lo > hi {
		return -ip.Integrate(hi, lo)
	}

	var sum float64

	for i := ip.locate(lo); i < len(ip.segments); i++ {
		end := hi
		if i < len(ip.segments)-1 && ip.knots[i+1] < hi {
			end = ip.knots[i+1]
		}

		sum += ip.segments[i].integral(lo, end)

		if end == hi {
			break
		}

		lo = end
	}

	return sum
}

// locate returns the index of the segment whose interval holds x, the first
// or last one when x is out of range.
func (ip *Interpolant) locate(x float64) int {
	idx := sort.Search(len(ip.knots), func(i int) bool {
		return ip.knots[i] > x
	}) - 1

	if idx < 0 {
		return 0
	}

	if idx > len(ip.segments)-1 {
		return len(ip.segments) - 1
	}

	return idx
}

func (ip *Interpolant) wrap(x float64) float64 {
	if ip.policy != Periodic {
		return x
	}

	lo, hi := ip.Domain()
	if x >= lo && x <= hi {
		return x
	}

	period := hi - lo

	offset := math.Mod(x-lo, period)
	if offset < 0 {
		offset += period
	}

	return lo + offset
}
