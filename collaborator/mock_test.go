package collaborator

import (
	"errors"
	"sync"
)

var errSensor = errors.New("sensor unavailable")

// mockDisplay records every call made by the collaborators.
type mockDisplay struct {
	mu       sync.Mutex
	light    int
	failRead bool
	screen   []bool
	messages []string
	servo    []int
}

func (m *mockDisplay) ReadLight() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return 0, errSensor
	}
	return m.light, nil
}

func (m *mockDisplay) SetScreen(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screen = append(m.screen, on)
	return nil
}

func (m *mockDisplay) ShowMessage(msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockDisplay) SetServo(degrees int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servo = append(m.servo, degrees)
	return nil
}

func (m *mockDisplay) setLight(v int, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.light = v
	m.failRead = fail
}

func (m *mockDisplay) screenCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.screen...)
}

func (m *mockDisplay) shown() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

func (m *mockDisplay) servoCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.servo...)
}
