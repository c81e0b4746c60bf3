// Package cliconfig resolves catqa configuration from defaults, a TOML
// file, CATQA_* environment variables, and command-line flags, in that
// order of increasing precedence.
package cliconfig

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultModel is the text model used for name correction.
const DefaultModel = "gemini-2.5-flash-lite"

// Config holds every tunable the toolkit reads at startup.
type Config struct {
	// AI cleanup
	Model          string
	APIKeys        []string
	MaxCallsPerKey int
	BatchSize      int
	RetryBase      time.Duration
	RetryMax       time.Duration

	// Validation
	Countries []string

	// URL checking
	URLTimeout time.Duration
	URLWorkers int
	URLRate    float64

	// Output
	OutDir  string
	Verbose bool
}

// DefaultConfig returns a Config with the stock settings.
func DefaultConfig() Config {
	return Config{
		Model:          DefaultModel,
		MaxCallsPerKey: 15,
		BatchSize:      30,
		RetryBase:      500 * time.Millisecond,
		RetryMax:       10 * time.Second,
		Countries:      []string{"US", "CA"},
		URLTimeout:     5 * time.Second,
		URLWorkers:     20,
		URLRate:        20,
		OutDir:         ".",
	}
}

// Validate checks the configuration and fills derived defaults. API keys
// are checked by the commands that call the AI service, not here; the
// merge/remove/checkurls pipelines run without any.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxCallsPerKey <= 0 {
		return fmt.Errorf("max calls per key must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if len(c.Countries) == 0 {
		return fmt.Errorf("at least one valid country code is required")
	}
	if c.URLTimeout <= 0 {
		return fmt.Errorf("url timeout must be positive")
	}
	if c.URLWorkers <= 0 {
		return fmt.Errorf("url workers must be positive")
	}
	if c.OutDir == "" {
		c.OutDir = "."
	}
	return nil
}

// configSetter applies values while respecting flags that were explicitly
// set on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
