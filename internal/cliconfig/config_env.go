package cliconfig

import (
	"fmt"
	"os"
	"strings"
)

// maxEnvKeys bounds the CATQA_API_KEY_N scan.
const maxEnvKeys = 16

// ApplyEnvConfig applies CATQA_* environment variables. File config has
// already been applied, so env values override the file; explicitly set
// flags still win via the changed map.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("model", os.Getenv("CATQA_MODEL"), &cfg.Model)
	s.setString("out-dir", os.Getenv("CATQA_OUT_DIR"), &cfg.OutDir)

	if keys := envAPIKeys(); len(keys) > 0 {
		s.setStrings("api-key", keys, &cfg.APIKeys)
	}
	if v := os.Getenv("CATQA_VALID_COUNTRIES"); v != "" {
		s.setStrings("countries", splitAndTrim(v), &cfg.Countries)
	}

	if err := s.setIntFromString("max-calls-per-key", os.Getenv("CATQA_MAX_CALLS_PER_KEY"), &cfg.MaxCallsPerKey); err != nil {
		return err
	}
	if err := s.setIntFromString("batch-size", os.Getenv("CATQA_BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("url-workers", os.Getenv("CATQA_URL_WORKERS"), &cfg.URLWorkers); err != nil {
		return err
	}
	if err := s.setFloatFromString("url-rate", os.Getenv("CATQA_URL_RATE"), &cfg.URLRate); err != nil {
		return err
	}
	if err := s.setDuration("url-timeout", os.Getenv("CATQA_URL_TIMEOUT"), &cfg.URLTimeout); err != nil {
		return err
	}
	if err := s.setDuration("retry-base", os.Getenv("CATQA_RETRY_BASE"), &cfg.RetryBase); err != nil {
		return err
	}
	if err := s.setDuration("retry-max", os.Getenv("CATQA_RETRY_MAX"), &cfg.RetryMax); err != nil {
		return err
	}

	s.setBoolFromString("verbose", os.Getenv("CATQA_VERBOSE"), &cfg.Verbose)
	return nil
}

// envAPIKeys collects credentials from CATQA_API_KEYS (comma separated) or
// the numbered CATQA_API_KEY_1..N variables. Gaps end the numbered scan.
func envAPIKeys() []string {
	if v := os.Getenv("CATQA_API_KEYS"); v != "" {
		return splitAndTrim(v)
	}

	var keys []string
	for i := 1; i <= maxEnvKeys; i++ {
		v := os.Getenv(fmt.Sprintf("CATQA_API_KEY_%d", i))
		if v == "" {
			break
		}
		keys = append(keys, v)
	}
	return keys
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
