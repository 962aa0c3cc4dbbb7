package sensor

import (
	"github.com/sgostarter/libinterpolation/hub"
	"github.com/sgostarter/libinterpolation/spline"
)

// Sensor maps the state of a source entity through a cubic spline.
type Sensor interface {
	EntityID() string
	UniqueID() string
	Name() string
	Unit() string
	SourceEntity() string
	Config() Config

	// Added subscribes to the source entity and seeds the value from its
	// current state. Removed releases the subscription.
	Added() error
	Removed()

	HandleEvent(event hub.Event)

	Available() bool
	NativeValue() (float64, bool)
	State() ReactiveState
	LastError() error
	Attributes() map[string]any

	// Interpolant is nil when the spline could not be built.
	Interpolant() *spline.Interpolant
}
