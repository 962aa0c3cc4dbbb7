// nolint
package fmsink

import (
	"os"
	"testing"

	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libinterpolation/hub"
	"github.com/stretchr/testify/assert"
)

const (
	utRoot = "ut-data"
)

func TestMain(m *testing.M) {
	_ = os.RemoveAll(utRoot)
	_ = pathutils.MustDirExists(utRoot)

	code := m.Run()

	_ = os.RemoveAll(utRoot)

	os.Exit(code)
}

func TestFMStateSink(t *testing.T) {
	_ = os.RemoveAll(utRoot)
	_ = pathutils.MustDirExists(utRoot)

	sink := NewFMStateSink("", rawfs.NewFSStorage(utRoot))

	err := sink.WriteState(&hub.State{EntityID: "sensor.b", Value: "1.5"})
	assert.Nil(t, err)

	err = sink.WriteState(&hub.State{EntityID: "sensor.a", Value: hub.StateUnavailable,
		Attributes: map[string]any{"interpolation_method": "cubic_spline"}})
	assert.Nil(t, err)

	err = sink.WriteState(&hub.State{EntityID: "sensor.b", Value: "2.5"})
	assert.Nil(t, err)

	assert.ErrorIs(t, sink.WriteState(nil), hub.ErrEmptyEntityID)

	state, ok := sink.Get("sensor.b")
	assert.True(t, ok)
	assert.Equal(t, "2.5", state.Value)
	assert.Equal(t, []string{"sensor.a", "sensor.b"}, sink.EntityIDs())

	_, ok = sink.Get("sensor.c")
	assert.False(t, ok)

	reloaded := NewFMStateSink("", rawfs.NewFSStorage(utRoot))

	state, ok = reloaded.Get("sensor.a")
	assert.True(t, ok)
	assert.Equal(t, hub.StateUnavailable, state.Value)
	assert.Equal(t, "cubic_spline", state.Attributes["interpolation_method"])
}
