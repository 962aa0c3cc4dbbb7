package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libinterpolation/hub"
	"github.com/sgostarter/libinterpolation/sensor"
)

// Platform owns the interpolation sensors of one hub, keyed by unique id or,
// when a sensor has none, by its entity id.
type Platform interface {
	// Setup creates and adds one sensor per valid config. Invalid configs are
	// logged and skipped; their errors are returned keyed by config index.
	Setup(cfgs []sensor.Config) (ids []string, errs map[int]error)
	Add(cfg sensor.Config) (id string, err error)

	Get(id string) (sensor.Sensor, error)
	IDs() []string

	Remove(id string) error
	Close()
}

func NewPlatform(h hub.Hub, logger l.Wrapper, opts ...sensor.Option) (Platform, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if h == nil {
		return nil, ErrNoHub
	}

	return &platformImpl{
		logger:  logger.WithFields(l.StringField(l.ClsKey, "platformImpl")),
		rawLog:  logger,
		hub:     h,
		opts:    opts,
		sensors: make(map[string]sensor.Sensor),
	}, nil
}

type platformImpl struct {
	logger l.Wrapper
	rawLog l.Wrapper
	hub    hub.Hub
	opts   []sensor.Option

	lock    sync.Mutex
	closed  bool
	sensors map[string]sensor.Sensor
}

func (impl *platformImpl) Setup(cfgs []sensor.Config) (ids []string, errs map[int]error) {
	for idx, cfg := range cfgs {
		id, err := impl.Add(cfg)
		if err != nil {
			if errs == nil {
				errs = make(map[int]error)
			}

			errs[idx] = err

			continue
		}

		ids = append(ids, id)
	}

	return
}

func (impl *platformImpl) Add(cfg sensor.Config) (id string, err error) {
	logger := impl.logger.WithFields(l.StringField("name", cfg.Name), l.StringField("source", cfg.SourceEntity))

	if err = cfg.Validate(); err != nil {
		logger.WithFields(l.ErrorField(err)).Error("configuration error")

		return
	}

	cfg = cfg.WithDefaults()

	entityID := sensor.EntityIDFromName(cfg.Name)

	if entityID == cfg.SourceEntity {
		err = fmt.Errorf("%w: %s", ErrSelfSource, cfg.SourceEntity)
		logger.WithFields(l.ErrorField(err)).Error("configuration error")

		return
	}

	id = cfg.UniqueID
	if id == "" {
		id = entityID
	}

	impl.lock.Lock()
	defer impl.lock.Unlock()

	if impl.closed {
		err = ErrClosed

		return
	}

	if _, ok := impl.sensors[id]; ok {
		err = fmt.Errorf("%w: %s", ErrDuplicateID, id)
		logger.WithFields(l.ErrorField(err)).Error("configuration error")

		return
	}

	// Two sensors would overwrite each other's state on the hub.
	for otherID, other := range impl.sensors {
		if other.EntityID() == entityID {
			err = fmt.Errorf("%w: %s already used by %s", ErrDuplicateEntityID, entityID, otherID)
			logger.WithFields(l.ErrorField(err)).Error("configuration error")

			return
		}
	}

	s, err := sensor.NewSensor(cfg, impl.hub, impl.rawLog, impl.opts...)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("new sensor failed")

		return
	}

	if err = s.Added(); err != nil {
		return
	}

	impl.sensors[id] = s

	logger.WithFields(l.StringField("id", id), l.StringField("entityID", s.EntityID())).Info("sensor added")

	return
}

func (impl *platformImpl) Get(id string) (sensor.Sensor, error) {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	s, ok := impl.sensors[id]
	if !ok {
		return nil, commerr.ErrNotFound
	}

	return s, nil
}

func (impl *platformImpl) IDs() []string {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	ids := make([]string, 0, len(impl.sensors))
	for id := range impl.sensors {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func (impl *platformImpl) Remove(id string) error {
	impl.lock.Lock()
	s, ok := impl.sensors[id]
	delete(impl.sensors, id)
	impl.lock.Unlock()

	if !ok {
		return commerr.ErrNotFound
	}

	s.Removed()

	return nil
}

func (impl *platformImpl) Close() {
	impl.lock.Lock()
	sensors := impl.sensors
	impl.sensors = make(map[string]sensor.Sensor)
	impl.closed = true
	impl.lock.Unlock()

	for _, s := range sensors {
		s.Removed()
	}
}
