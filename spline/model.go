package spline

// Point is one calibration pair.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Segment is the cubic valid from X0 to the next knot:
// A + B*t + C*t^2 + D*t^3 with t = x - X0.
type Segment struct {
	X0 float64
	A  float64
	B  float64
	C  float64
	D  float64
}

func (s Segment) Value(t float64) float64 {
	return s.A + t*(s.B+t*(s.C+t*s.D))
}

func (s Segment) Deriv(t float64, order int) float64 {
	switch order {
	case 0:
		return s.Value(t)
	case 1:
		return s.B + t*(2*s.C+3*s.D*t)
	case 2:
		return 2*s.C + 6*s.D*t
	case 3:
		return 6 * s.D
	default:
		return 0
	}
}

// integral integrates the segment between the absolute abscissas lo and hi.
func (s Segment) integral(lo, hi float64) float64 {
	return s.antiDeriv(hi-s.X0) - s.antiDeriv(lo-s.X0)
}

func (s Segment) antiDeriv(t float64) float64 {
	return t * (s.A + t*(s.B/2+t*(s.C/3+t*s.D/4)))
}
