package watchdog

import (
	"sync"
	"time"
)

// INotify receives the tag of a watched job that ran past its deadline.
type INotify interface {
	NotifyTimeout(tag string, elapsed time.Duration)
}

type WatchDog interface {
	// Start arms the dog for one job; tag is reported on timeout.
	Start(tag string)
	Stop()
	Started() bool

	Close()
}

type Config struct {
	CheckInterval time.Duration

	CheckMaxDuration time.Duration
}

func NewWatchDog(cfg Config, notify INotify) WatchDog {
	if notify == nil {
		return NewFakeWatchDog()
	}

	impl := &watchDogImpl{
		cfg:     cfg,
		notify:  notify,
		closeCh: make(chan struct{}),
	}

	impl.init()

	return impl
}

type watchDogImpl struct {
	cfg    Config
	notify INotify

	lock      sync.Mutex
	started   bool
	notified  bool
	tag       string
	startedAt time.Time

	closeOnce sync.Once
	closeCh   chan struct{}
}

func (impl *watchDogImpl) Start(tag string) {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	impl.started = true
	impl.notified = false
	impl.tag = tag
	impl.startedAt = time.Now()
}

func (impl *watchDogImpl) Stop() {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	impl.started = false
}

func (impl *watchDogImpl) Started() bool {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	return impl.started
}

func (impl *watchDogImpl) Close() {
	impl.closeOnce.Do(func() {
		close(impl.closeCh)
	})
}

func (impl *watchDogImpl) init() {
	if impl.cfg.CheckMaxDuration <= 0 {
		impl.cfg.CheckMaxDuration = time.Minute
	}

	if impl.cfg.CheckInterval <= 0 {
		impl.cfg.CheckInterval = impl.cfg.CheckMaxDuration / 4
	}

	go impl.mainRoutine()
}

// check returns the tag of a job that is over its deadline, once per job.
func (impl *watchDogImpl) check() (tag string, elapsed time.Duration, timeout bool) {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	if !impl.started || impl.notified {
		return
	}

	elapsed = time.Since(impl.startedAt)
	if elapsed < impl.cfg.CheckMaxDuration {
		return
	}

	impl.notified = true

	return impl.tag, elapsed, true
}

func (impl *watchDogImpl) mainRoutine() {
	ticker := time.NewTicker(impl.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-impl.closeCh:
			return
		case <-ticker.C:
		}

		if tag, elapsed, timeout := impl.check(); timeout {
			impl.notify.NotifyTimeout(tag, elapsed)
		}
	}
}
