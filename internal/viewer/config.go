package viewer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type BuildConfig struct {
	// Feature-size threshold of the first coalesced mipmap level.
	BaseCoalesceNs uint64 `yaml:"base_coalesce_ns"`
	// Maximum number of coalesced levels per lane.
	MaxLevels int `yaml:"max_levels"`
}

type Config struct {
	// Address the HTTP API listens on.
	Addr string `yaml:"addr"`

	Build BuildConfig `yaml:"build"`
}

func (c *Config) fillDefault() {
	if c.Addr == "" {
		c.Addr = ":9555"
	}
	if c.Build.BaseCoalesceNs == 0 {
		c.Build.BaseCoalesceNs = 1024
	}
	if c.Build.MaxLevels == 0 {
		c.Build.MaxLevels = 24
	}
}

func ParseConfig(path string) (*Config, error) {
	conf := &Config{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("viewer: reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, conf); err != nil {
			return nil, fmt.Errorf("viewer: parsing config: %w", err)
		}
	}
	conf.fillDefault()
	return conf, nil
}
