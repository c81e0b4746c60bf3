package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, `
model = "gemini-2.5-pro"
api_keys = ["k1", "k2"]
max_calls_per_key = 10
batch_size = 25
retry_base = "250ms"
valid_countries = ["US"]
url_timeout = "8s"
url_workers = 5
url_rate = 2.5
out_dir = "/tmp/out"
verbose = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if fc.Model != "gemini-2.5-pro" || len(fc.APIKeys) != 2 || fc.URLRate != 2.5 {
		t.Errorf("parsed config = %+v", fc)
	}
	if fc.Verbose == nil || !*fc.Verbose {
		t.Error("verbose not parsed")
	}
}

func TestLoadFileConfigErrors(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
	path := writeConfig(t, `model = [not toml`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("malformed TOML should fail")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchSize = 7 // set via flag

	fc := FileConfig{
		Model:      "gemini-2.5-pro",
		APIKeys:    []string{"k1"},
		BatchSize:  50,
		URLTimeout: "9s",
	}
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{"batch-size": true}); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if len(cfg.APIKeys) != 1 {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if cfg.BatchSize != 7 {
		t.Errorf("flag value overridden: BatchSize = %d", cfg.BatchSize)
	}
	if cfg.URLTimeout != 9*time.Second {
		t.Errorf("URLTimeout = %v", cfg.URLTimeout)
	}
	// untouched fields keep their defaults
	if cfg.MaxCallsPerKey != 15 {
		t.Errorf("MaxCallsPerKey = %d", cfg.MaxCallsPerKey)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, FileConfig{RetryBase: "soon"}, nil); err == nil {
		t.Error("bad duration should fail")
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("CATQA_MODEL", "gemini-env")
	t.Setenv("CATQA_API_KEYS", "e1, e2 ,e3")
	t.Setenv("CATQA_BATCH_SIZE", "12")
	t.Setenv("CATQA_URL_TIMEOUT", "7s")
	t.Setenv("CATQA_VALID_COUNTRIES", "US,CA,MX")
	t.Setenv("CATQA_VERBOSE", "true")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{"model": true}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	if cfg.Model != DefaultModel {
		t.Errorf("flag-set model overridden: %q", cfg.Model)
	}
	if len(cfg.APIKeys) != 3 || cfg.APIKeys[1] != "e2" {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if cfg.BatchSize != 12 {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.URLTimeout != 7*time.Second {
		t.Errorf("URLTimeout = %v", cfg.URLTimeout)
	}
	if len(cfg.Countries) != 3 {
		t.Errorf("Countries = %v", cfg.Countries)
	}
	if !cfg.Verbose {
		t.Error("Verbose not applied")
	}
}

func TestEnvNumberedKeys(t *testing.T) {
	t.Setenv("CATQA_API_KEYS", "")
	t.Setenv("CATQA_API_KEY_1", "k1")
	t.Setenv("CATQA_API_KEY_2", "k2")
	// no CATQA_API_KEY_3: the scan stops here
	t.Setenv("CATQA_API_KEY_4", "k4")

	keys := envAPIKeys()
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Errorf("keys = %v", keys)
	}
}

func TestEnvBadNumberFails(t *testing.T) {
	t.Setenv("CATQA_BATCH_SIZE", "many")
	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err == nil {
		t.Error("bad integer should fail")
	}
}
