package util

import "time"

// Reading is a single light sensor sample.
type Reading struct {
	Value     int
	Timestamp time.Time
}

func NewReading(value int, timestamp time.Time) Reading {
	return Reading{Value: value, Timestamp: timestamp}
}
