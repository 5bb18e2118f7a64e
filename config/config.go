// Package config loads biathlon.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/biathlon/maze"
)

type Config struct {
	Costs    maze.Costs  `yaml:"costs"`
	Workers  int         `yaml:"workers"`
	LogLevel string      `yaml:"log_level"`
	Verify   bool        `yaml:"verify"`
	Trace    TraceConfig `yaml:"trace"`
}

type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Load reads path on top of Defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("biathlon.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("biathlon.yaml: %w", err)
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Costs:    maze.DefaultCosts,
		Workers:  runtime.NumCPU(),
		LogLevel: "info",
		Verify:   true,
		Trace: TraceConfig{
			Enabled: false,
			Dir:     "./traces",
		},
	}
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	def := Defaults()
	if c.Costs == (maze.Costs{}) {
		c.Costs = def.Costs
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if strings.TrimSpace(c.Trace.Dir) == "" {
		c.Trace.Dir = def.Trace.Dir
	}
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Costs.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q: %w", c.LogLevel, err))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level; Validate has already checked it.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
