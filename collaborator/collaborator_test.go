package collaborator

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAbstractCollaborator_Lifecycle(t *testing.T) {
	var runs atomic.Int32
	ac := NewAbstractCollaborator("test", func(stop <-chan struct{}) {
		runs.Add(1)
		<-stop
	})

	assert.Equal(t, "test", ac.UID())
	assert.False(t, ac.IsRunning())

	ac.Start()
	ac.Start() // no second worker
	assert.True(t, ac.IsRunning())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	ac.Stop()
	assert.False(t, ac.IsRunning())
	ac.Stop() // idempotent

	ac.Start()
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond, "restart after stop")
	ac.Stop()
}

func TestAbstractCollaborator_StopWaitsForWorker(t *testing.T) {
	var exited atomic.Bool
	ac := NewAbstractCollaborator("wait", func(stop <-chan struct{}) {
		<-stop
		time.Sleep(20 * time.Millisecond)
		exited.Store(true)
	})
	ac.Start()
	ac.Stop()
	assert.True(t, exited.Load(), "Stop must return after the worker")
}
