package spline

import "errors"

var (
	ErrLengthMismatch           = errors.New("length mismatch")
	ErrInsufficientPoints       = errors.New("insufficient points")
	ErrNonMonotonicX            = errors.New("non monotonic x")
	ErrNonFiniteValue           = errors.New("non finite value")
	ErrPeriodicEndpointMismatch = errors.New("periodic endpoint mismatch")
	ErrSingularSystem           = errors.New("singular system")
	ErrUnknownBoundaryPolicy    = errors.New("unknown boundary policy")
)
