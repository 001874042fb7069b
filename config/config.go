package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const CONFILE = "config.yml"

type Config struct {
	RealHW     bool   `yaml:"-"`
	Configfile string `yaml:"-"`

	Lovebox  LoveboxConfig  `yaml:"Lovebox"`
	Fetch    FetchConfig    `yaml:"Fetch"`
	Hardware HardwareConfig `yaml:"Hardware"`
	Web      WebConfig      `yaml:"Web"`
	Logging  LoggingConfig  `yaml:"Logging"`
}

type FetchConfig struct {
	// Prefix for a RemoteMessageLocation given as a path only
	Host    string        `yaml:"Host" validate:"required"`
	Timeout time.Duration `yaml:"Timeout" validate:"gt=0"`
}

type HardwareConfig struct {
	SPIFrequency int               `yaml:"SPIFrequency" validate:"gt=0"`
	LightSensor  LightSensorConfig `yaml:"LightSensor"`
	Screen       ScreenConfig      `yaml:"Screen"`
	Servo        ServoConfig       `yaml:"Servo"`
}

type LightSensorConfig struct {
	// Channel of the MCP3008 the photoresistor is wired to
	AdcChannel byte `yaml:"AdcChannel" validate:"lte=7"`
	// Time to wait after switching the screen off before sampling
	SettleDelay time.Duration `yaml:"SettleDelay" validate:"gte=0"`
	// Number of readings kept for status reporting
	HistorySize int `yaml:"HistorySize" validate:"gt=0"`
}

type ScreenConfig struct {
	PowerGPIO int `yaml:"PowerGPIO" validate:"gte=0,lte=27"`
}

type ServoConfig struct {
	PwmGPIO  int           `yaml:"PwmGPIO" validate:"oneof=12 13 18 19"`
	MinPulse time.Duration `yaml:"MinPulse" validate:"gt=0"`
	MaxPulse time.Duration `yaml:"MaxPulse" validate:"gtfield=MinPulse"`
}

type WebConfig struct {
	Enabled bool   `yaml:"Enabled"`
	Listen  string `yaml:"Listen" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	TUI LogConfig `yaml:"TUI"`
	HW  LogConfig `yaml:"HW"`
}

type LogConfig struct {
	Level      string `yaml:"Level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format     string `yaml:"Format" validate:"omitempty,oneof=text json"`
	File       string `yaml:"File"`
	MaxSizeMB  int    `yaml:"MaxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"MaxBackups" validate:"gte=0"`
}

// Default returns a configuration that runs a Lovebox with factory
// settings on the standard wiring.
func Default() Config {
	s := DefaultSettings()
	return Config{
		Lovebox: s.LoveboxConfig(),
		Fetch: FetchConfig{
			Host:    "https://gist.githubusercontent.com",
			Timeout: 10 * time.Second,
		},
		Hardware: HardwareConfig{
			SPIFrequency: 1000000,
			LightSensor: LightSensorConfig{
				AdcChannel:  0,
				SettleDelay: 100 * time.Millisecond,
				HistorySize: 100,
			},
			Screen: ScreenConfig{PowerGPIO: 23},
			Servo: ServoConfig{
				PwmGPIO:  18,
				MinPulse: 500 * time.Microsecond,
				MaxPulse: 2500 * time.Microsecond,
			},
		},
		Web: WebConfig{Enabled: true, Listen: ":8080"},
		Logging: LoggingConfig{
			TUI: LogConfig{Level: "INFO", Format: "text"},
			HW:  LogConfig{Level: "INFO", Format: "json", MaxSizeMB: 5, MaxBackups: 3},
		},
	}
}

// Settings is the accessor for the immutable Lovebox settings. Every
// call returns an equal value.
func (c *Config) Settings() Settings {
	return c.Lovebox.Settings()
}

// Log returns the logging section for the selected platform.
func (c *Config) Log() LogConfig {
	if c.RealHW {
		return c.Logging.HW
	}
	return c.Logging.TUI
}

// Validate checks the Lovebox settings and all ambient sections.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Lovebox.Validate(); err != nil {
		errs = append(errs, err)
	}
	sections := []struct {
		name string
		val  any
	}{
		{"Fetch", c.Fetch},
		{"Hardware", c.Hardware},
		{"Web", c.Web},
		{"Logging", c.Logging},
	}
	for _, sec := range sections {
		if err := validate.Struct(sec.val); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, sec.name, err))
				continue
			}
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%w: %s: constraint %q failed for value %v",
					ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value()))
			}
		}
	}
	return errors.Join(errs...)
}

// ReadConfig decodes cfile over the defaults and validates the result.
func ReadConfig(cfile string) (*Config, error) {
	f, err := os.Open(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't open config file %s: %w", cfile, err)
	}
	defer f.Close()

	conf := Default()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: can't decode config file %s: %v", ErrInvalidConfig, cfile, err)
	}
	conf.Configfile = cfile

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Load reads cfile and marks the configuration for real or simulated
// hardware.
func Load(cfile string, realhw bool) (*Config, error) {
	conf, err := ReadConfig(cfile)
	if err != nil {
		return nil, err
	}
	conf.RealHW = realhw
	return conf, nil
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
