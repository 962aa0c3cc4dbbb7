package fmsink

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
	"github.com/sgostarter/libinterpolation/hub"
	"github.com/sgostarter/libinterpolation/sensor"
)

const (
	stateFileName = "states.json"
)

type StateSink interface {
	sensor.Sink

	Get(entityID string) (*hub.State, bool)
	EntityIDs() []string
}

// NewFMStateSink keeps the last state written for every entity in memory and
// mirrors it to a JSON file under root.
func NewFMStateSink(root string, storage stg.FileStorage) StateSink {
	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	return &fmStateSinkImpl{
		states: mwf.NewMemWithFile[map[string]*hub.State, mwf.Serial, mwf.Lock](
			make(map[string]*hub.State), &mwf.JSONSerial{}, &sync.RWMutex{}, filepath.Join(root, stateFileName), storage),
	}
}

type fmStateSinkImpl struct {
	states *mwf.MemWithFile[map[string]*hub.State, mwf.Serial, mwf.Lock]
}

func (impl *fmStateSinkImpl) WriteState(state *hub.State) error {
	if state == nil || state.EntityID == "" {
		return hub.ErrEmptyEntityID
	}

	c := *state

	return impl.states.Change(func(oldM map[string]*hub.State) (newM map[string]*hub.State, err error) {
		newM = oldM
		if newM == nil {
			newM = make(map[string]*hub.State)
		}

		newM[c.EntityID] = &c

		return
	})
}

func (impl *fmStateSinkImpl) Get(entityID string) (state *hub.State, ok bool) {
	impl.states.Read(func(m map[string]*hub.State) {
		var s *hub.State

		s, ok = m[entityID]
		if ok {
			c := *s
			state = &c
		}
	})

	return
}

func (impl *fmStateSinkImpl) EntityIDs() (ids []string) {
	impl.states.Read(func(m map[string]*hub.State) {
		for id := range m {
			ids = append(ids, id)
		}
	})

	sort.Strings(ids)

	return
}
