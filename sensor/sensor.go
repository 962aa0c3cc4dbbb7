package sensor

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libinterpolation/hub"
	"github.com/sgostarter/libinterpolation/spline"
	"github.com/spf13/cast"
)

// NewSensor validates cfg and builds the spline. A config error is returned;
// a spline that fails to build is logged once and leaves the sensor
// permanently unavailable.
func NewSensor(cfg Config, host hub.Hub, logger l.Wrapper, opts ...Option) (Sensor, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if host == nil {
		return nil, ErrNoHost
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = cfg.WithDefaults()

	policy, err := cfg.Policy()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	opt := optionNew(opts...)

	impl := &sensorImpl{
		logger: logger.WithFields(l.StringField(l.ClsKey, "sensorImpl"),
			l.StringField("name", cfg.Name)),
		cfg:       cfg,
		entityID:  EntityIDFromName(cfg.Name),
		host:      host,
		sinks:     append([]Sink{host}, opt.sinks...),
		observers: opt.observers,
	}

	impl.init(policy)

	return impl, nil
}

type sensorImpl struct {
	logger l.Wrapper

	cfg      Config
	entityID string

	host      hub.Hub
	sinks     []Sink
	observers []Observer

	interpolant *spline.Interpolant

	lock    sync.Mutex
	sub     hub.Subscription
	state   ReactiveState
	value   float64
	hasVal  bool
	lastErr error
}

func (impl *sensorImpl) init(policy spline.BoundaryPolicy) {
	interpolant, err := spline.Build(impl.cfg.XValues, impl.cfg.YValues, policy, impl.cfg.SplineOptions()...)
	if err != nil {
		impl.state = StateUnavailable
		impl.lastErr = err

		impl.logger.WithFields(l.ErrorField(err), l.StringField("boundaryCondition", policy.String())).
			Error("build cubic spline failed")

		return
	}

	impl.interpolant = interpolant

	impl.logger.WithFields(l.IntField("points", len(impl.cfg.XValues)),
		l.StringField("boundaryCondition", policy.String())).Debug("cubic spline built")
}

func (impl *sensorImpl) EntityID() string {
	return impl.entityID
}

func (impl *sensorImpl) UniqueID() string {
	return impl.cfg.UniqueID
}

func (impl *sensorImpl) Name() string {
	return impl.cfg.Name
}

func (impl *sensorImpl) Unit() string {
	return impl.cfg.UnitOfMeasurement
}

func (impl *sensorImpl) SourceEntity() string {
	return impl.cfg.SourceEntity
}

func (impl *sensorImpl) Config() Config {
	return impl.cfg.WithDefaults()
}

func (impl *sensorImpl) Interpolant() *spline.Interpolant {
	return impl.interpolant
}

func (impl *sensorImpl) Added() error {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	if impl.sub != nil {
		return nil
	}

	sub, err := impl.host.Subscribe([]string{impl.cfg.SourceEntity}, impl.HandleEvent)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err)).Error("subscribe source entity failed")

		return err
	}

	impl.sub = sub

	if state, ok := impl.host.Get(impl.cfg.SourceEntity); ok && state.Known() && impl.interpolant != nil {
		impl.update(state.Value)
	}

	impl.writeState()

	return nil
}

func (impl *sensorImpl) Removed() {
	impl.lock.Lock()
	sub := impl.sub
	impl.sub = nil
	impl.lock.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

func (impl *sensorImpl) HandleEvent(event hub.Event) {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	if impl.interpolant == nil {
		impl.observe(ResultUnbuilt, 0)

		return
	}

	if !event.NewState.Known() {
		impl.setUnavailable(ErrInputAbsent)
		impl.observe(ResultAbsent, 0)
	} else {
		impl.update(event.NewState.Value)
	}

	impl.writeState()
}

func (impl *sensorImpl) update(raw string) {
	x, err := parseInput(raw)
	if err != nil {
		impl.setUnavailable(err)
		impl.observe(ResultParseError, 0)

		impl.logger.WithFields(l.ErrorField(err), l.StringField("source", impl.cfg.SourceEntity)).
			Error("interpolate source value failed")

		return
	}

	y := impl.interpolant.Eval(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		impl.setUnavailable(fmt.Errorf("%w: f(%g) = %g", ErrNonFiniteResult, x, y))
		impl.observe(ResultNonFinite, 0)

		impl.logger.WithFields(l.StringField("source", impl.cfg.SourceEntity), l.StringField("x", raw)).
			Error("interpolated value not finite")

		return
	}

	impl.state = StateAvailable
	impl.value = y
	impl.hasVal = true
	impl.lastErr = nil

	impl.observe(ResultOK, y)

	impl.logger.WithFields(l.StringField("x", raw), l.StringField("y", cast.ToString(y))).Debug("interpolated")
}

func (impl *sensorImpl) setUnavailable(err error) {
	impl.state = StateUnavailable
	impl.value = 0
	impl.hasVal = false
	impl.lastErr = err
}

func (impl *sensorImpl) observe(result Result, value float64) {
	for _, observer := range impl.observers {
		observer.ObserveEvaluation(impl.entityID, result, value)
	}
}

func (impl *sensorImpl) writeState() {
	state := &hub.State{
		EntityID:   impl.entityID,
		Value:      impl.stateValue(),
		Attributes: impl.attributes(),
	}

	state.Attributes[AttrFriendlyName] = impl.cfg.Name

	if impl.cfg.UnitOfMeasurement != "" {
		state.Attributes[AttrUnitOfMeasurement] = impl.cfg.UnitOfMeasurement
	}

	for _, sink := range impl.sinks {
		if err := sink.WriteState(state); err != nil {
			impl.logger.WithFields(l.ErrorField(err)).Error("write state failed")
		}
	}
}

func (impl *sensorImpl) stateValue() string {
	if !impl.Available() {
		return hub.StateUnavailable
	}

	if !impl.hasVal {
		return hub.StateUnknown
	}

	return cast.ToString(impl.value)
}

func (impl *sensorImpl) Available() bool {
	if impl.interpolant == nil {
		return false
	}

	state, ok := impl.host.Get(impl.cfg.SourceEntity)

	return ok && state.Known()
}

func (impl *sensorImpl) NativeValue() (float64, bool) {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	return impl.value, impl.hasVal
}

func (impl *sensorImpl) State() ReactiveState {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	return impl.state
}

func (impl *sensorImpl) LastError() error {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	return impl.lastErr
}

func (impl *sensorImpl) Attributes() map[string]any {
	return impl.attributes()
}

func (impl *sensorImpl) attributes() map[string]any {
	return map[string]any{
		AttrSourceEntity:        impl.cfg.SourceEntity,
		AttrXValues:             append([]float64(nil), impl.cfg.XValues...),
		AttrYValues:             append([]float64(nil), impl.cfg.YValues...),
		AttrInterpolationMethod: InterpolationMethod,
		AttrBoundaryCondition:   impl.cfg.BoundaryCondition,
	}
}

func parseInput(raw string) (float64, error) {
	x, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInputParse, raw, err)
	}

	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInputParse, raw)
	}

	return x, nil
}
