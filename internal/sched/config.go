package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	TickMS     int    `yaml:"tick_ms"`     // drive-loop tick interval, ms (demo driver)
	DrainLimit int    `yaml:"drain_limit"` // max steps per Drain call
	LogLevel   string `yaml:"log_level"`   // debug, info, warn, error
	LogFormat  string `yaml:"log_format"`  // text or json
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		TickMS:     5,
		DrainLimit: 10000,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.TickMS <= 0 {
		cfg.TickMS = 5
	}
	if cfg.DrainLimit <= 0 {
		cfg.DrainLimit = 10000
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	return cfg
}
