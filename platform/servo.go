package platform

import (
	"time"

	u "lautenbacher.net/lovebox/util"
)

const (
	servoMinDegrees = 0
	servoMaxDegrees = 180
)

// servoPulse maps an angle linearly onto the pulse width range of the
// servo. Angles outside 0..180 are clamped.
func servoPulse(degrees int, minPulse, maxPulse time.Duration) time.Duration {
	degrees = clampDegrees(degrees)
	span := maxPulse - minPulse
	return minPulse + span*time.Duration(degrees)/servoMaxDegrees
}

func clampDegrees(degrees int) int {
	return u.Clamp(degrees, servoMinDegrees, servoMaxDegrees)
}
