package config

// RuntimeConfig defines the subset of the configuration that can be
// replaced through the web API. Hardware wiring is excluded.
type RuntimeConfig struct {
	Lovebox LoveboxConfig `yaml:"Lovebox" json:"Lovebox"`
}
