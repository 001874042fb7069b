package platform

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"lautenbacher.net/lovebox/config"
	"lautenbacher.net/lovebox/metrics"
)

func newTestAbstractPlatform() *AbstractPlatform {
	conf := config.Default()
	return newAbstractPlatform(&conf)
}

func TestAbstractPlatform_InitialState(t *testing.T) {
	s := newTestAbstractPlatform()

	state := s.State()
	assert.False(t, state.ScreenOn)
	assert.Equal(t, "", state.Message)
	assert.Equal(t, -1, state.ServoPosition, "servo position unknown before the first move")
	assert.True(t, state.Light.Timestamp.IsZero())
}

func TestAbstractPlatform_RecordsState(t *testing.T) {
	s := newTestAbstractPlatform()

	s.recordScreen(true)
	s.recordMessage("hello")
	s.recordServo(90)
	before := time.Now()
	s.recordLight(512)

	state := s.State()
	assert.True(t, state.ScreenOn)
	assert.Equal(t, "hello", state.Message)
	assert.Equal(t, 90, state.ServoPosition)
	assert.Equal(t, 512, state.Light.Value)
	assert.False(t, state.Light.Timestamp.Before(before))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ScreenOn))
	assert.Equal(t, 90.0, testutil.ToFloat64(metrics.ServoPosition))
	assert.Equal(t, 512.0, testutil.ToFloat64(metrics.LightLevel))
}

func TestAbstractPlatform_ReadyClosesOnce(t *testing.T) {
	s := newTestAbstractPlatform()

	select {
	case <-s.Ready():
		t.Fatal("ready before setReady")
	default:
	}

	s.setReady()
	s.setReady()

	select {
	case <-s.Ready():
	default:
		t.Fatal("not ready after setReady")
	}
}

func TestAbstractPlatform_Shutdown(t *testing.T) {
	s := newTestAbstractPlatform()
	assert.False(t, s.inShutdown())
	s.setInShutdown()
	assert.True(t, s.inShutdown())
}
