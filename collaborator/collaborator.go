package collaborator

import (
	"sync"
)

// Collaborator is a component that reads the Lovebox settings and acts
// on the hardware. Start never blocks; Stop returns after the worker
// go routine has exited.
type Collaborator interface {
	UID() string
	Start()
	Stop()
	IsRunning() bool
}

// LightSensor samples the ambient light.
type LightSensor interface {
	ReadLight() (int, error)
}

// Screen shows messages and can be switched off.
type Screen interface {
	SetScreen(on bool) error
	ShowMessage(msg string) error
}

// Servo moves the heart.
type Servo interface {
	SetServo(degrees int) error
}

// Implementation of common and shared functionality between the
// concrete collaborators that run a worker go routine.
type AbstractCollaborator struct {
	uid       string
	isRunning bool
	// Guards isRunning and stop
	updateMutex sync.Mutex
	// the worker Start() runs. It MUST return once stop is closed.
	runfunc func(stop <-chan struct{})
	stop    chan struct{}
	wg      sync.WaitGroup
}

// Creates a new instance of AbstractCollaborator. The uid must be unique.
func NewAbstractCollaborator(uid string, runfunc func(stop <-chan struct{})) *AbstractCollaborator {
	return &AbstractCollaborator{
		uid:     uid,
		runfunc: runfunc,
	}
}

func (s *AbstractCollaborator) UID() string {
	return s.uid
}

// Start runs the worker as a go routine. When the worker is already
// running, it does nothing.
func (s *AbstractCollaborator) Start() {
	s.updateMutex.Lock()
	defer s.updateMutex.Unlock()

	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer s.wg.Done()
		s.runfunc(stop)
	}(s.stop)
}

// Stop signals the worker and waits for it to exit.
func (s *AbstractCollaborator) Stop() {
	s.updateMutex.Lock()
	if !s.isRunning {
		s.updateMutex.Unlock()
		return
	}
	close(s.stop)
	s.isRunning = false
	s.updateMutex.Unlock()

	s.wg.Wait()
}

func (s *AbstractCollaborator) IsRunning() bool {
	s.updateMutex.Lock()
	defer s.updateMutex.Unlock()
	return s.isRunning
}
