package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is wrapped by every error reporting a configuration
// that must not be used to start the device.
var ErrInvalidConfig = errors.New("invalid configuration")

// Settings is the immutable set of values the Lovebox runs with. The
// fields are unexported; a Settings value can only be read.
type Settings struct {
	remoteMessageLocation  string
	fetchIntervalSeconds   int
	lightValueThreshold    int
	brightnessCheckSeconds int
	initialServoPosition   int
}

// LoveboxConfig is the file representation of Settings.
type LoveboxConfig struct {
	// Path of the message below Fetch.Host (e.g.
	// /your-GitHub-username/asdf/raw/message) or a full URL. Empty
	// disables fetching.
	RemoteMessageLocation string `yaml:"RemoteMessageLocation" json:"RemoteMessageLocation"`
	// Seconds between two checks for a new message
	FetchIntervalSeconds int `yaml:"FetchIntervalSeconds" json:"FetchIntervalSeconds" validate:"gt=0,lte=9223372036"`
	// Light sensor value above which the screen is switched on
	LightValueThreshold int `yaml:"LightValueThreshold" json:"LightValueThreshold"`
	// Seconds between two brightness samples. The screen is switched
	// off momentarily for each sample.
	BrightnessCheckSeconds int `yaml:"BrightnessCheckSeconds" json:"BrightnessCheckSeconds" validate:"gt=0,lte=9223372036"`
	// Servo position (degrees) at which the heart stands vertical
	InitialServoPosition int `yaml:"InitialServoPosition" json:"InitialServoPosition"`
}

var validate = validator.New()

// MaxIntervalSeconds is the longest interval that still fits a
// time.Duration. It is also the bound of the lte tags above.
const MaxIntervalSeconds = math.MaxInt64 / int64(time.Second)

func NewSettings(remoteMessageLocation string, fetchIntervalSeconds, lightValueThreshold, brightnessCheckSeconds, initialServoPosition int) Settings {
	return Settings{
		remoteMessageLocation:  remoteMessageLocation,
		fetchIntervalSeconds:   fetchIntervalSeconds,
		lightValueThreshold:    lightValueThreshold,
		brightnessCheckSeconds: brightnessCheckSeconds,
		initialServoPosition:   initialServoPosition,
	}
}

// DefaultSettings returns the factory settings of a Lovebox.
func DefaultSettings() Settings {
	return NewSettings("", 30, 14, 60, 90)
}

func (s LoveboxConfig) Settings() Settings {
	return NewSettings(s.RemoteMessageLocation, s.FetchIntervalSeconds, s.LightValueThreshold, s.BrightnessCheckSeconds, s.InitialServoPosition)
}

// Validate rejects intervals that would make a collaborator loop
// without pause or overflow a time.Duration. All other values are
// tuning and accepted as is.
func (s LoveboxConfig) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "lte" {
			errs = append(errs, fmt.Errorf("%w: Lovebox.%s must not exceed %d, got %v", ErrInvalidConfig, fe.Field(), MaxIntervalSeconds, fe.Value()))
			continue
		}
		errs = append(errs, fmt.Errorf("%w: Lovebox.%s must be greater than 0, got %v", ErrInvalidConfig, fe.Field(), fe.Value()))
	}
	return errors.Join(errs...)
}

func (s Settings) Validate() error {
	return s.LoveboxConfig().Validate()
}

// LoveboxConfig returns the file representation of s.
func (s Settings) LoveboxConfig() LoveboxConfig {
	return LoveboxConfig{
		RemoteMessageLocation:  s.remoteMessageLocation,
		FetchIntervalSeconds:   s.fetchIntervalSeconds,
		LightValueThreshold:    s.lightValueThreshold,
		BrightnessCheckSeconds: s.brightnessCheckSeconds,
		InitialServoPosition:   s.initialServoPosition,
	}
}

func (s Settings) RemoteMessageLocation() string { return s.remoteMessageLocation }
func (s Settings) FetchIntervalSeconds() int     { return s.fetchIntervalSeconds }
func (s Settings) LightValueThreshold() int      { return s.lightValueThreshold }
func (s Settings) BrightnessCheckSeconds() int   { return s.brightnessCheckSeconds }
func (s Settings) InitialServoPosition() int     { return s.initialServoPosition }

// FetchEnabled is false when no remote message location is configured.
func (s Settings) FetchEnabled() bool {
	return strings.TrimSpace(s.remoteMessageLocation) != ""
}

func (s Settings) FetchInterval() time.Duration {
	return time.Duration(s.fetchIntervalSeconds) * time.Second
}

func (s Settings) BrightnessCheckInterval() time.Duration {
	return time.Duration(s.brightnessCheckSeconds) * time.Second
}

// MessageURL resolves the remote message location against host. A
// location that already carries a scheme is returned unchanged.
func (s Settings) MessageURL(host string) string {
	loc := strings.TrimSpace(s.remoteMessageLocation)
	if loc == "" || strings.Contains(loc, "://") {
		return loc
	}
	return strings.TrimSuffix(host, "/") + "/" + strings.TrimPrefix(loc, "/")
}

func (s Settings) String() string {
	return fmt.Sprintf("url=%q fetch=%ds threshold=%d brightness=%ds servo=%d",
		s.remoteMessageLocation, s.fetchIntervalSeconds, s.lightValueThreshold, s.brightnessCheckSeconds, s.initialServoPosition)
}
