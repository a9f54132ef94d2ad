package engine

import "fmt"

// ConfigError reports a field spec that cannot be run against the batch at
// hand: a missing column, mutually exclusive options, or a generated-column
// collision. It is raised before any row is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine: field %q: %s", e.Field, e.Reason)
}

// GeneratorError wraps a failure inside a generated-column derivation. A
// partially written derived column would corrupt the output table, so this is
// batch-fatal and never recovered by the engine.
type GeneratorError struct {
	Field     string
	Generator string
	Err       error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("engine: field %q: generator %s: %v", e.Field, e.Generator, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }
