// Package config defines the JSON-serializable configuration model for the
// scrub driver. A job file names the input batches, the CSV reading options,
// the output sink, and runtime knobs; field cleaning rules themselves are
// compiled into the binary and are not configurable here.
//
// Example (trimmed):
//
//	{
//	  "job":    "chicago_crimes",
//	  "source": { "kind": "file", "file": { "glob": "data/crimes_*.csv" } },
//	  "reader": { "header_map": { "location_description": "loc_desc" } },
//	  "output": { "kind": "sqlite", "dsn": "out/scrub.db", "prefix": "crimes" },
//	  "runtime": { "workers": 4 },
//	  "metrics": { "backend": "pushgateway", "pushgateway_url": "http://localhost:9091" }
//	}
//
// A handful of deployment-sensitive settings can be overridden through the
// environment (see the env tags); everything else comes from the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config is the top-level object decoded from a job file.
type Config struct {
	// Job names the run; it labels metrics and output tables.
	Job string `json:"job" env:"SCRUB_JOB"`

	Source  Source  `json:"source"`
	Reader  Reader  `json:"reader"`
	Output  Output  `json:"output"`
	Runtime Runtime `json:"runtime"`
	Metrics Metrics `json:"metrics"`
}

// Source identifies where input batches come from.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	File SourceFile `json:"file"`
	HTTP SourceHTTP `json:"http"`
}

// SourceFile configures the "file" source kind.
type SourceFile struct {
	// Glob is a filesystem glob; every match becomes one batch.
	Glob string `json:"glob" env:"SCRUB_SOURCE_GLOB"`
}

// SourceHTTP configures the "http" source kind.
type SourceHTTP struct {
	// URLs lists batch URLs inline.
	URLs []string `json:"urls"`

	// URLFile points at a text file with one URL per line ('#' comments
	// allowed). URLs and URLFile may be combined.
	URLFile string `json:"url_file"`

	// TimeoutSeconds is the per-request timeout; 0 means the client default.
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxRetries is the retry budget per request; 0 means the client default.
	MaxRetries int `json:"max_retries"`

	// Insecure disables TLS certificate verification.
	Insecure bool `json:"insecure"`
}

// Reader configures how raw CSV bytes become a table.
type Reader struct {
	// Comma is the field delimiter as a one-character string; empty means ",".
	Comma string `json:"comma"`

	// HeaderMap renames normalized headers to canonical field names.
	HeaderMap map[string]string `json:"header_map"`

	// LazyQuotes tolerates bare quotes inside unquoted fields.
	LazyQuotes bool `json:"lazy_quotes"`
}

// Output selects the sink that cleaned tables and audits are written to.
type Output struct {
	// Kind selects a registered storage backend: "sqlite", "postgres",
	// or "csvdir".
	Kind string `json:"kind" env:"SCRUB_OUTPUT_KIND"`

	// DSN is backend-specific: a file path for sqlite, a connection string
	// for postgres, a directory for csvdir.
	DSN string `json:"dsn" env:"SCRUB_OUTPUT_DSN"`

	// Prefix is prepended to every output table name. Empty means the
	// job name is used.
	Prefix string `json:"prefix"`
}

// Runtime controls concurrency.
type Runtime struct {
	// Workers is the number of batches processed concurrently; 0 means
	// one worker per CPU.
	Workers int `json:"workers" env:"SCRUB_WORKERS"`
}

// Metrics configures the optional metrics backend.
type Metrics struct {
	// Backend selects the implementation: "" (disabled) or "pushgateway".
	Backend string `json:"backend" env:"SCRUB_METRICS_BACKEND"`

	// PushgatewayURL is the base URL of the Pushgateway; required when
	// Backend is "pushgateway".
	PushgatewayURL string `json:"pushgateway_url" env:"SCRUB_PUSHGATEWAY_URL"`
}

// Load reads a job file, decodes it, and applies environment overrides.
// It does not validate; callers run Validate separately so that all issues
// can be reported at once.
func Load(path string) (Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("apply env overrides: %w", err)
	}
	return cfg, nil
}
