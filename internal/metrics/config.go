package metrics

import "time"

// Config defines metrics configuration.
type Config struct {
	Backend  string        `yaml:"type" validate:"regexp=^(disabled|log)?$"`
	Prefix   string        `yaml:"prefix"`
	Interval time.Duration `yaml:"interval"`
}

func (c Config) applyDefaults() Config {
	if c.Backend == "" {
		c.Backend = "disabled"
	}
	if c.Interval <= 0 {
		c.Interval = 10 * time.Second
	}
	return c
}
