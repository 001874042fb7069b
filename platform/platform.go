package platform

import (
	"errors"

	"lautenbacher.net/lovebox/util"
)

// ErrNotRunning is returned by calls made before Start or after Stop.
var ErrNotRunning = errors.New("platform not running")

// Platform abstracts the Lovebox hardware away from the collaborators,
// so they run unchanged on a Raspberry Pi and in the TUI simulation.
type Platform interface {
	// Start initializes the platform (e.g., opens GPIO/SPI, or starts the TUI).
	Start() error

	// Stop cleans up all platform resources.
	Stop()

	// Ready is closed once the platform accepts calls.
	Ready() <-chan bool

	// ReadLight samples the ambient light sensor.
	ReadLight() (int, error)

	// SetScreen switches the screen on or off.
	SetScreen(on bool) error

	// ShowMessage replaces the text shown on the screen.
	ShowMessage(msg string) error

	// SetServo moves the heart servo to the given angle in degrees.
	SetServo(degrees int) error

	// State reports what the platform currently shows.
	State() State
}

// State is a snapshot of the outputs and the last light reading.
type State struct {
	ScreenOn      bool
	Message       string
	ServoPosition int
	Light         util.Reading
}
