package platform

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"

	"lautenbacher.net/lovebox/config"
)

const (
	// PWM clock and cycle length give the 50Hz frame a hobby servo
	// expects with a resolution of 1/64ms.
	pwmClock       = 64000
	pwmCycleLength = pwmClock / 50
)

type RaspberryPiPlatform struct {
	*AbstractPlatform
	// Guards all access to SPI and GPIO
	hwMutex     sync.Mutex
	screenPin   rpio.Pin
	servoPin    rpio.Pin
	adcChannel  byte
	isOpen      bool
	initialized bool
}

func NewRaspberryPiPlatform(conf *config.Config) *RaspberryPiPlatform {
	return &RaspberryPiPlatform{
		AbstractPlatform: newAbstractPlatform(conf),
		screenPin:        rpio.Pin(conf.Hardware.Screen.PowerGPIO),
		servoPin:         rpio.Pin(conf.Hardware.Servo.PwmGPIO),
		adcChannel:       conf.Hardware.LightSensor.AdcChannel,
	}
}

func (s *RaspberryPiPlatform) Start() error {
	s.hwMutex.Lock()
	defer s.hwMutex.Unlock()

	slog.Info("Initialise GPIO, PWM and Spi...")
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("failed to open rpio: %w", err)
	}
	s.isOpen = true

	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		s.isOpen = false
		return fmt.Errorf("failed to begin spi: %w", err)
	}
	rpio.SpiSpeed(s.config.Hardware.SPIFrequency)
	rpio.SpiChipSelect(0)

	s.screenPin.Output()
	s.screenPin.Low()

	s.servoPin.Mode(rpio.Pwm)
	s.servoPin.Freq(pwmClock)

	s.initialized = true
	s.setReady() // For RPi, we are ready immediately.
	return nil
}

func (s *RaspberryPiPlatform) Stop() {
	s.setInShutdown()

	s.hwMutex.Lock()
	defer s.hwMutex.Unlock()

	if !s.isOpen {
		return
	}
	if s.initialized {
		s.screenPin.Low()
		// Stop sending pulses so the servo holds without buzzing.
		s.servoPin.DutyCycle(0, pwmCycleLength)
		rpio.SpiEnd(rpio.Spi0)
	}
	if err := rpio.Close(); err != nil {
		slog.Error("Error closing rpio", "error", err)
	}
	s.isOpen = false
	s.initialized = false
}

func (s *RaspberryPiPlatform) ReadLight() (int, error) {
	s.hwMutex.Lock()
	defer s.hwMutex.Unlock()
	if !s.initialized || s.inShutdown() {
		return 0, ErrNotRunning
	}

	value := s.readAdc(s.adcChannel)
	s.recordLight(value)
	return value, nil
}

func (s *RaspberryPiPlatform) SetScreen(on bool) error {
	s.hwMutex.Lock()
	defer s.hwMutex.Unlock()
	if !s.initialized || s.inShutdown() {
		return ErrNotRunning
	}

	if on {
		s.screenPin.High()
	} else {
		s.screenPin.Low()
	}
	s.recordScreen(on)
	return nil
}

// ShowMessage keeps the message for the status API. Rendering it onto
// the panel is left to the display firmware.
func (s *RaspberryPiPlatform) ShowMessage(msg string) error {
	if s.inShutdown() {
		return ErrNotRunning
	}
	slog.Info("New message on screen", "length", len(msg))
	s.recordMessage(msg)
	return nil
}

func (s *RaspberryPiPlatform) SetServo(degrees int) error {
	s.hwMutex.Lock()
	defer s.hwMutex.Unlock()
	if !s.initialized || s.inShutdown() {
		return ErrNotRunning
	}

	servo := s.config.Hardware.Servo
	pulse := servoPulse(degrees, servo.MinPulse, servo.MaxPulse)
	s.servoPin.DutyCycle(pulseToDuty(pulse.Microseconds()), pwmCycleLength)
	s.recordServo(clampDegrees(degrees))
	return nil
}

// pulseToDuty converts a pulse width to PWM clock ticks.
func pulseToDuty(pulseMicros int64) uint32 {
	return uint32(pulseMicros * pwmClock / 1000000)
}

// readAdc reads a single ended channel of the MCP3008.
// MUST be called with hwMutex held.
func (s *RaspberryPiPlatform) readAdc(channel byte) int {
	data := mcp3008Request(channel)
	rpio.SpiExchange(data)
	return mcp3008Value(data)
}

func mcp3008Request(channel byte) []byte {
	return []byte{1, (8 + channel) << 4, 0}
}

func mcp3008Value(read []byte) int {
	return ((int(read[1]) & 3) << 8) + int(read[2])
}
