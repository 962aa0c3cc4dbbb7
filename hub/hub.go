package hub

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
	"github.com/sgostarter/libinterpolation/watchdog"
)

func NewHub(logger l.Wrapper, opts ...Option) Hub {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "hubImpl"))

	impl := &hubImpl{
		logger:        logger,
		routineMan:    routineman.NewRoutineMan(context.Background(), logger),
		states:        cache.New(cache.NoExpiration, 0),
		subscriptions: make(map[string][]*subscriptionImpl),
		wakeCh:        make(chan struct{}, 1),
	}

	if o := optionNew(opts...); o.handlerTimeout > 0 {
		impl.dog = watchdog.NewWatchDog(watchdog.Config{CheckMaxDuration: o.handlerTimeout}, impl)
	} else {
		impl.dog = watchdog.NewFakeWatchDog()
	}

	impl.init()

	return impl
}

type queueItem struct {
	event *Event
	done  chan struct{}
}

type hubImpl struct {
	logger     l.Wrapper
	routineMan routineman.RoutineMan
	dog        watchdog.WatchDog

	// stateLock keeps the read-modify-write of a state and the enqueue of its
	// event in one step, so events leave in the order the states changed.
	stateLock sync.Mutex
	states    *cache.Cache

	subLock       sync.RWMutex
	subscriptions map[string][]*subscriptionImpl

	queueLock sync.Mutex
	queue     []queueItem
	stopped   bool
	wakeCh    chan struct{}
}

func (impl *hubImpl) init() {
	impl.routineMan.StartRoutine(impl.dispatchRoutine, "dispatchRoutine")
}

func (impl *hubImpl) TriggerStop() {
	impl.queueLock.Lock()
	impl.stopped = true
	impl.queueLock.Unlock()

	impl.routineMan.TriggerStop()
}

func (impl *hubImpl) Wait() {
	impl.routineMan.Wait()
	impl.dog.Close()
}

func (impl *hubImpl) NotifyTimeout(tag string, elapsed time.Duration) {
	impl.logger.WithFields(l.StringField("id", tag), l.StringField("elapsed", elapsed.String())).
		Error("handler stalled")
}

func (impl *hubImpl) Get(entityID string) (*State, bool) {
	state := impl.get(entityID)
	if state == nil {
		return nil, false
	}

	return state.clone(), true
}

func (impl *hubImpl) get(entityID string) *State {
	i, ok := impl.states.Get(entityID)
	if !ok {
		return nil
	}

	state, _ := i.(*State)

	return state
}

func (impl *hubImpl) Set(entityID, value string, attributes map[string]any) error {
	if entityID == "" {
		return ErrEmptyEntityID
	}

	if len(attributes) == 0 {
		attributes = nil
	}

	impl.stateLock.Lock()
	defer impl.stateLock.Unlock()

	oldState := impl.get(entityID)
	if oldState != nil && oldState.Value == value && reflect.DeepEqual(oldState.Attributes, attributes) {
		return nil
	}

	now := time.Now()

	newState := (&State{
		EntityID:    entityID,
		Value:       value,
		Attributes:  attributes,
		LastChanged: now,
		LastUpdated: now,
	}).clone()

	if oldState != nil && oldState.Value == value {
		newState.LastChanged = oldState.LastChanged
	}

	// The state is stored before the event leaves, so a handler reading the
	// hub sees at least the change it is handling.
	impl.states.Set(entityID, newState, cache.NoExpiration)

	if !impl.enqueue(queueItem{event: &Event{
		EntityID: entityID,
		OldState: oldState.clone(),
		NewState: newState.clone(),
	}}) {
		impl.restore(entityID, oldState)

		return ErrStopped
	}

	return nil
}

func (impl *hubImpl) restore(entityID string, state *State) {
	if state == nil {
		impl.states.Delete(entityID)

		return
	}

	impl.states.Set(entityID, state, cache.NoExpiration)
}

func (impl *hubImpl) WriteState(state *State) error {
	if state == nil {
		return ErrEmptyEntityID
	}

	return impl.Set(state.EntityID, state.Value, state.Attributes)
}

func (impl *hubImpl) Remove(entityID string) error {
	impl.stateLock.Lock()
	defer impl.stateLock.Unlock()

	oldState := impl.get(entityID)
	if oldState == nil {
		return nil
	}

	impl.states.Delete(entityID)

	if !impl.enqueue(queueItem{event: &Event{
		EntityID: entityID,
		OldState: oldState.clone(),
	}}) {
		impl.restore(entityID, oldState)

		return ErrStopped
	}

	return nil
}

func (impl *hubImpl) Subscribe(entityIDs []string, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}

	for _, entityID := range entityIDs {
		if entityID == "" {
			return nil, ErrEmptyEntityID
		}
	}

	if impl.isStopped() {
		return nil, ErrStopped
	}

	sub := &subscriptionImpl{
		id:        strconv.FormatUint(snowflake.ID(), 36),
		entityIDs: append([]string(nil), entityIDs...),
		handler:   handler,
		hub:       impl,
	}

	impl.subLock.Lock()
	for _, entityID := range sub.entityIDs {
		impl.subscriptions[entityID] = append(impl.subscriptions[entityID], sub)
	}
	impl.subLock.Unlock()

	impl.logger.WithFields(l.StringField("id", sub.id), l.IntField("entities", len(sub.entityIDs))).
		Debug("subscribe")

	return sub, nil
}

func (impl *hubImpl) Flush(ctx context.Context) error {
	done := make(chan struct{})

	if !impl.enqueue(queueItem{done: done}) {
		return ErrStopped
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (impl *hubImpl) unsubscribe(sub *subscriptionImpl) {
	impl.subLock.Lock()
	defer impl.subLock.Unlock()

	for _, entityID := range sub.entityIDs {
		subs := impl.subscriptions[entityID]

		for idx := range subs {
			if subs[idx] == sub {
				subs = append(subs[:idx:idx], subs[idx+1:]...)

				break
			}
		}

		if len(subs) == 0 {
			delete(impl.subscriptions, entityID)
		} else {
			impl.subscriptions[entityID] = subs
		}
	}

	impl.logger.WithFields(l.StringField("id", sub.id)).Debug("unsubscribe")
}

func (impl *hubImpl) isStopped() bool {
	impl.queueLock.Lock()
	defer impl.queueLock.Unlock()

	return impl.stopped
}

func (impl *hubImpl) enqueue(item queueItem) bool {
	impl.queueLock.Lock()

	if impl.stopped {
		impl.queueLock.Unlock()

		return false
	}

	impl.queue = append(impl.queue, item)
	impl.queueLock.Unlock()

	select {
	case impl.wakeCh <- struct{}{}:
	default:
	}

	return true
}

func (impl *hubImpl) pop() (item queueItem, ok bool) {
	impl.queueLock.Lock()
	defer impl.queueLock.Unlock()

	if len(impl.queue) == 0 {
		return
	}

	item, ok = impl.queue[0], true
	impl.queue[0] = queueItem{}
	impl.queue = impl.queue[1:]

	return
}

func (impl *hubImpl) dispatchRoutine(ctx context.Context, _ func() bool) {
	logger := impl.logger.WithFields(l.StringField(l.RoutineKey, "dispatchRoutine"))

	logger.Debug("enter")

	defer logger.Debug("leave")

	loop := true

	for loop {
		select {
		case <-ctx.Done():
			loop = false

			continue
		case <-impl.wakeCh:
		}

		for {
			item, ok := impl.pop()
			if !ok {
				break
			}

			if item.done != nil {
				close(item.done)

				continue
			}

			impl.deliver(item.event)
		}
	}

	for {
		item, ok := impl.pop()
		if !ok {
			break
		}

		if item.done != nil {
			close(item.done)
		}
	}
}

func (impl *hubImpl) deliver(event *Event) {
	impl.subLock.RLock()
	subs := append([]*subscriptionImpl(nil), impl.subscriptions[event.EntityID]...)
	impl.subLock.RUnlock()

	for _, sub := range subs {
		if sub.closed.Load() {
			continue
		}

		impl.call(sub, *event)
	}
}

func (impl *hubImpl) call(sub *subscriptionImpl, event Event) {
	defer func() {
		if r := recover(); r != nil {
			impl.logger.WithFields(l.StringField("id", sub.id), l.StringField("entityID", event.EntityID),
				l.StringField("panic", fmt.Sprint(r))).Error("handler panic")
		}
	}()

	impl.dog.Start(sub.id)
	defer impl.dog.Stop()

	sub.handler(event)
}

type subscriptionImpl struct {
	id        string
	entityIDs []string
	handler   Handler
	hub       *hubImpl

	closed atomic.Bool
	once   sync.Once
}

func (sub *subscriptionImpl) ID() string {
	return sub.id
}

func (sub *subscriptionImpl) EntityIDs() []string {
	return append([]string(nil), sub.entityIDs...)
}

func (sub *subscriptionImpl) Unsubscribe() {
	sub.once.Do(func() {
		sub.closed.Store(true)
		sub.hub.unsubscribe(sub)
	})
}
