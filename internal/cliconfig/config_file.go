package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly types; durations are strings.
type FileConfig struct {
	Model          string   `toml:"model"`
	APIKeys        []string `toml:"api_keys"`
	MaxCallsPerKey int      `toml:"max_calls_per_key"`
	BatchSize      int      `toml:"batch_size"`
	RetryBase      string   `toml:"retry_base"`
	RetryMax       string   `toml:"retry_max"`
	Countries      []string `toml:"valid_countries"`
	URLTimeout     string   `toml:"url_timeout"`
	URLWorkers     int      `toml:"url_workers"`
	URLRate        float64  `toml:"url_rate"`
	OutDir         string   `toml:"out_dir"`
	Verbose        *bool    `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.catqa/config.toml when the home directory is
// known, otherwise "".
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".catqa", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file values to cfg, skipping fields whose flags
// were explicitly set.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("model", fc.Model, &cfg.Model)
	s.setStrings("api-key", fc.APIKeys, &cfg.APIKeys)
	s.setInt("max-calls-per-key", fc.MaxCallsPerKey, &cfg.MaxCallsPerKey)
	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setStrings("countries", fc.Countries, &cfg.Countries)
	s.setInt("url-workers", fc.URLWorkers, &cfg.URLWorkers)
	s.setFloat("url-rate", fc.URLRate, &cfg.URLRate)
	s.setString("out-dir", fc.OutDir, &cfg.OutDir)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	if err := s.setDuration("retry-base", fc.RetryBase, &cfg.RetryBase); err != nil {
		return err
	}
	if err := s.setDuration("retry-max", fc.RetryMax, &cfg.RetryMax); err != nil {
		return err
	}
	return s.setDuration("url-timeout", fc.URLTimeout, &cfg.URLTimeout)
}

// FileExists reports whether a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
