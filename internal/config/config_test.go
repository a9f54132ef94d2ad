package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"job": "chicago_crimes",
		"source": { "kind": "file", "file": { "glob": "data/*.csv" } },
		"reader": { "header_map": { "location_description": "loc_desc" } },
		"output": { "kind": "sqlite", "dsn": "out/scrub.db", "prefix": "crimes" },
		"runtime": { "workers": 4 },
		"metrics": { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" }
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Job != "chicago_crimes" {
		t.Errorf("Job = %q", cfg.Job)
	}
	if cfg.Source.Kind != "file" || cfg.Source.File.Glob != "data/*.csv" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if got := cfg.Reader.HeaderMap["location_description"]; got != "loc_desc" {
		t.Errorf("HeaderMap = %v", cfg.Reader.HeaderMap)
	}
	if cfg.Output.Kind != "sqlite" || cfg.Output.DSN != "out/scrub.db" || cfg.Output.Prefix != "crimes" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Runtime.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Runtime.Workers)
	}
	if cfg.Metrics.Backend != "pushgateway" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `{"job": "x", "sorce": {}}`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "sorce") {
		t.Fatalf("err = %v, want unknown field error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestLoadEnvOverrides verifies that deployment-sensitive settings can be
// overridden without editing the job file.
func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"job": "chicago_crimes",
		"source": { "kind": "file", "file": { "glob": "data/*.csv" } },
		"output": { "kind": "sqlite", "dsn": "out/scrub.db" }
	}`)

	t.Setenv("SCRUB_OUTPUT_KIND", "postgres")
	t.Setenv("SCRUB_OUTPUT_DSN", "postgres://scrub@db/scrub")
	t.Setenv("SCRUB_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Kind != "postgres" {
		t.Errorf("Output.Kind = %q, want env override", cfg.Output.Kind)
	}
	if cfg.Output.DSN != "postgres://scrub@db/scrub" {
		t.Errorf("Output.DSN = %q, want env override", cfg.Output.DSN)
	}
	if cfg.Runtime.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Runtime.Workers)
	}
	// Untouched fields keep file values.
	if cfg.Source.File.Glob != "data/*.csv" {
		t.Errorf("Glob = %q", cfg.Source.File.Glob)
	}
}
