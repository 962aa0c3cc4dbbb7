package sensor

import "github.com/sgostarter/libinterpolation/hub"

const (
	InterpolationMethod = "cubic_spline"

	AttrSourceEntity        = "source_entity"
	AttrXValues             = "x_values"
	AttrYValues             = "y_values"
	AttrInterpolationMethod = "interpolation_method"
	AttrBoundaryCondition   = "boundary_condition"
	AttrUnitOfMeasurement   = "unit_of_measurement"
	AttrFriendlyName        = "friendly_name"
)

type ReactiveState int

const (
	StateUninitialized ReactiveState = iota
	StateAvailable
	StateUnavailable
)

func (s ReactiveState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	}

	return "invalid"
}

// Result classifies the handling of one input value.
type Result string

const (
	ResultOK         Result = "ok"
	ResultAbsent     Result = "absent"
	ResultParseError Result = "parse_error"
	ResultNonFinite  Result = "non_finite"
	ResultUnbuilt    Result = "unbuilt"
)

// Sink receives the derived state after every handled input. hub.Hub
// satisfies it.
type Sink interface {
	WriteState(state *hub.State) error
}

type Observer interface {
	ObserveEvaluation(entityID string, result Result, value float64)
}
