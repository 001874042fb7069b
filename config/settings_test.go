package config

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "", s.RemoteMessageLocation())
	assert.Equal(t, 30, s.FetchIntervalSeconds())
	assert.Equal(t, 14, s.LightValueThreshold())
	assert.Equal(t, 60, s.BrightnessCheckSeconds())
	assert.Equal(t, 90, s.InitialServoPosition())
	assert.NoError(t, s.Validate())
	assert.Equal(t, s, DefaultSettings())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  string
	}{
		{"valid", NewSettings("", 30, 14, 60, 90), ""},
		{"negative fetch interval", NewSettings("", -5, 14, 60, 90), "FetchIntervalSeconds"},
		{"zero fetch interval", NewSettings("/a/b", 0, 14, 60, 90), "FetchIntervalSeconds"},
		{"zero brightness interval", NewSettings("", 30, 14, 0, 90), "BrightnessCheckSeconds"},
		{"servo out of range is tuning", NewSettings("", 30, 14, 60, 270), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettings_BothIntervalsReported(t *testing.T) {
	err := NewSettings("", 0, 14, -1, 90).Validate()
	assert.ErrorContains(t, err, "FetchIntervalSeconds")
	assert.ErrorContains(t, err, "BrightnessCheckSeconds")
}

func TestSettings_Durations(t *testing.T) {
	s := NewSettings("", 30, 14, 60, 90)
	assert.Equal(t, 30*time.Second, s.FetchInterval())
	assert.Equal(t, time.Minute, s.BrightnessCheckInterval())
}

func TestSettings_MessageURL(t *testing.T) {
	host := "https://gist.githubusercontent.com/"

	assert.Equal(t, "", NewSettings("", 30, 14, 60, 90).MessageURL(host))
	assert.Equal(t, "https://gist.githubusercontent.com/me/abc/raw/message",
		NewSettings("/me/abc/raw/message", 30, 14, 60, 90).MessageURL(host))
	assert.Equal(t, "http://box.local/msg",
		NewSettings("http://box.local/msg", 30, 14, 60, 90).MessageURL(host))
	assert.False(t, NewSettings("   ", 30, 14, 60, 90).FetchEnabled())
}

func TestSettings_IntervalOverflowRejected(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("int cannot hold an overflowing interval")
	}
	longestSeconds := MaxIntervalSeconds
	tooLong := int(longestSeconds + 1)

	err := NewSettings("", 30, 14, tooLong, 90).Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "BrightnessCheckSeconds must not exceed")

	err = NewSettings("", tooLong, 14, 60, 90).Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "FetchIntervalSeconds must not exceed")

	longest := NewSettings("", int(longestSeconds), 14, int(longestSeconds), 90)
	assert.NoError(t, longest.Validate())
	assert.Positive(t, longest.FetchInterval())
	assert.Positive(t, longest.BrightnessCheckInterval())
}
