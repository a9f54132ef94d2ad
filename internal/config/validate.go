// This file adds a lightweight linter over decoded Config values. It performs
// static checks and returns a list of issues (errors and warnings) that
// callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "output.kind"); Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue in the slice has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of a Config. It does not mutate the
// value; callers decide whether warnings are fatal.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and output tables",
		})
	}
	issues = append(issues, validateSource(cfg.Source)...)
	issues = append(issues, validateReader(cfg.Reader)...)
	issues = append(issues, validateOutput(cfg.Output)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
		return issues
	}

	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Glob) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.glob",
				Message:  "file source requires a non-empty glob",
			})
		}
	case "http":
		if len(s.HTTP.URLs) == 0 && strings.TrimSpace(s.HTTP.URLFile) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http",
				Message:  "http source requires urls or url_file",
			})
		}
		if s.HTTP.TimeoutSeconds < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.timeout_seconds",
				Message:  "timeout_seconds must not be negative",
			})
		}
		if s.HTTP.MaxRetries < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.max_retries",
				Message:  "max_retries must not be negative",
			})
		}
		if s.HTTP.Insecure {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.http.insecure",
				Message:  "TLS verification is disabled",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; expected \"file\" or \"http\"", s.Kind),
		})
	}

	return issues
}

func validateReader(r Reader) []Issue {
	var issues []Issue

	if n := len([]rune(r.Comma)); n > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "reader.comma",
			Message:  fmt.Sprintf("comma must be a single character, got %q", r.Comma),
		})
	}
	for from, to := range r.HeaderMap {
		if strings.TrimSpace(to) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "reader.header_map",
				Message:  fmt.Sprintf("header %q maps to an empty name", from),
			})
		}
	}

	return issues
}

func validateOutput(o Output) []Issue {
	var issues []Issue

	if strings.TrimSpace(o.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  "output.kind must not be empty",
		})
		return issues
	}

	// Unknown kinds are warnings: backends register themselves, so a kind
	// this package has not heard of may still exist.
	known := map[string]struct{}{
		"sqlite":   {},
		"postgres": {},
		"csvdir":   {},
	}
	if _, ok := known[o.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.kind",
			Message:  fmt.Sprintf("unknown output kind %q; ensure a matching backend is registered", o.Kind),
		})
	}

	if strings.TrimSpace(o.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.dsn",
			Message:  "output.dsn must not be empty",
		})
	}

	return issues
}

func validateRuntime(r Runtime) []Issue {
	var issues []Issue

	if r.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.workers",
			Message:  "workers must not be negative",
		})
	}

	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none":
		// Metrics disabled.
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires a non-empty pushgateway_url",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; expected \"pushgateway\" or empty", m.Backend),
		})
	}

	return issues
}
