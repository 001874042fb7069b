package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServoPulse(t *testing.T) {
	minPulse := 500 * time.Microsecond
	maxPulse := 2500 * time.Microsecond

	tests := []struct {
		degrees int
		want    time.Duration
	}{
		{0, 500 * time.Microsecond},
		{90, 1500 * time.Microsecond},
		{180, 2500 * time.Microsecond},
		{45, 1000 * time.Microsecond},
		{-20, 500 * time.Microsecond},
		{400, 2500 * time.Microsecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, servoPulse(tt.degrees, minPulse, maxPulse), "degrees=%d", tt.degrees)
	}
}

func TestPulseToDuty(t *testing.T) {
	// 64kHz PWM clock: one tick is 15.625us
	assert.Equal(t, uint32(32), pulseToDuty(500))
	assert.Equal(t, uint32(96), pulseToDuty(1500))
	assert.Equal(t, uint32(160), pulseToDuty(2500))
	assert.Equal(t, uint32(1280), uint32(pwmCycleLength), "50Hz frame")
}

func TestMcp3008(t *testing.T) {
	assert.Equal(t, []byte{1, 0x80, 0}, mcp3008Request(0))
	assert.Equal(t, []byte{1, 0xF0, 0}, mcp3008Request(7))

	assert.Equal(t, 0, mcp3008Value([]byte{0, 0, 0}))
	assert.Equal(t, 1023, mcp3008Value([]byte{0xFF, 0xFF, 0xFF}))
	assert.Equal(t, 258, mcp3008Value([]byte{0, 0xF9, 0x02}))
}
