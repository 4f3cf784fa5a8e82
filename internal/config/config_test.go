package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subvox/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Recognition.Concurrency != 10 {
		t.Fatalf("unexpected default concurrency: %d", cfg.Recognition.Concurrency)
	}
	if cfg.Detection.SilencePercentile != 0.2 {
		t.Fatalf("unexpected silence percentile: %g", cfg.Detection.SilencePercentile)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detection.FrameWidth != 4096 {
		t.Fatalf("expected default frame width, got %d", cfg.Detection.FrameWidth)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[recognition]
api_key = "  secret  "
base_url = "https://speech.example.com/"
concurrency = 4

[detection]
max_region_seconds = 8.0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recognition.APIKey != "secret" {
		t.Fatalf("expected trimmed api key, got %q", cfg.Recognition.APIKey)
	}
	if cfg.Recognition.BaseURL != "https://speech.example.com" {
		t.Fatalf("expected trailing slash stripped, got %q", cfg.Recognition.BaseURL)
	}
	if cfg.Recognition.Concurrency != 4 {
		t.Fatalf("expected override concurrency 4, got %d", cfg.Recognition.Concurrency)
	}
	if cfg.Detection.MaxRegionSeconds != 8.0 {
		t.Fatalf("expected override max region, got %g", cfg.Detection.MaxRegionSeconds)
	}
	if cfg.Detection.MinRegionSeconds != 0.5 {
		t.Fatalf("expected default min region retained, got %g", cfg.Detection.MinRegionSeconds)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[detection]
silence_percentile = 1.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for silence_percentile")
	} else if !strings.Contains(err.Error(), "silence_percentile") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCatchesRegionOrdering(t *testing.T) {
	cfg := config.Default()
	cfg.Detection.MaxRegionSeconds = cfg.Detection.MinRegionSeconds
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max equals min region size")
	}
}

func TestCreateSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[recognition]") {
		t.Fatalf("sample missing recognition section: %s", data)
	}
}
