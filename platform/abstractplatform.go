package platform

import (
	"sync"
	"time"

	c "lautenbacher.net/lovebox/config"
	"lautenbacher.net/lovebox/metrics"
	u "lautenbacher.net/lovebox/util"
)

// AbstractPlatform keeps the state shared by the concrete platforms.
type AbstractPlatform struct {
	config    *c.Config
	readyChan chan bool
	readyOnce sync.Once
	// Guards state
	stateMutex sync.RWMutex
	state      State
	// Guards isShuttingDown
	shutdownMutex  sync.RWMutex
	isShuttingDown bool
}

func newAbstractPlatform(conf *c.Config) *AbstractPlatform {
	return &AbstractPlatform{
		config:    conf,
		readyChan: make(chan bool),
		state:     State{ServoPosition: -1},
	}
}

func (s *AbstractPlatform) Ready() <-chan bool {
	return s.readyChan
}

func (s *AbstractPlatform) setReady() {
	s.readyOnce.Do(func() { close(s.readyChan) })
}

func (s *AbstractPlatform) State() State {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.state
}

func (s *AbstractPlatform) setInShutdown() {
	s.shutdownMutex.Lock()
	s.isShuttingDown = true
	s.shutdownMutex.Unlock()
}

func (s *AbstractPlatform) inShutdown() bool {
	s.shutdownMutex.RLock()
	defer s.shutdownMutex.RUnlock()
	return s.isShuttingDown
}

func (s *AbstractPlatform) recordScreen(on bool) {
	s.stateMutex.Lock()
	s.state.ScreenOn = on
	s.stateMutex.Unlock()
	metrics.SetScreen(on)
}

func (s *AbstractPlatform) recordMessage(msg string) {
	s.stateMutex.Lock()
	s.state.Message = msg
	s.stateMutex.Unlock()
}

func (s *AbstractPlatform) recordServo(degrees int) {
	s.stateMutex.Lock()
	s.state.ServoPosition = degrees
	s.stateMutex.Unlock()
	metrics.ServoPosition.Set(float64(degrees))
}

func (s *AbstractPlatform) recordLight(value int) {
	s.stateMutex.Lock()
	s.state.Light = u.NewReading(value, time.Now())
	s.stateMutex.Unlock()
	metrics.LightLevel.Set(float64(value))
}
