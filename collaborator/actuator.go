package collaborator

import (
	"log/slog"
	"sync"

	c "lautenbacher.net/lovebox/config"
)

// ActuatorCollaborator holds the heart at its initial position. It has
// no worker go routine.
type ActuatorCollaborator struct {
	uid       string
	servo     Servo
	position  int
	mu        sync.Mutex
	isRunning bool
}

func NewActuatorCollaborator(uid string, settings c.Settings, servo Servo) *ActuatorCollaborator {
	return &ActuatorCollaborator{
		uid:      uid,
		servo:    servo,
		position: settings.InitialServoPosition(),
	}
}

func (s *ActuatorCollaborator) UID() string {
	return s.uid
}

// Start moves the servo to the initial position.
func (s *ActuatorCollaborator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.move("start")
}

// Stop returns the servo to the initial position before the hardware
// is released.
func (s *ActuatorCollaborator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	s.move("stop")
}

func (s *ActuatorCollaborator) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ActuatorCollaborator) move(phase string) {
	if err := s.servo.SetServo(s.position); err != nil {
		slog.Error("Moving servo failed", "uid", s.uid, "phase", phase, "position", s.position, "error", err)
		return
	}
	slog.Info("Servo moved to initial position", "uid", s.uid, "phase", phase, "position", s.position)
}
