package watchdog

func NewFakeWatchDog() WatchDog {
	return &fakeWatchDogImpl{}
}

type fakeWatchDogImpl struct {
}

func (impl *fakeWatchDogImpl) Start(string) {

}

func (impl *fakeWatchDogImpl) Stop() {

}

func (impl *fakeWatchDogImpl) Started() bool {
	return false
}

func (impl *fakeWatchDogImpl) Close() {

}
