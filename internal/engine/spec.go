// Package engine implements the per-field validation/transform core: a
// declarative FieldSpec model, the field processor that executes one spec
// against one column, the write-once reject ledger, the two-pass hard/soft
// orchestrator, and the audit-table builder.
//
// The engine is synchronous and owns no I/O. It consumes an in-memory
// table.Table and produces cleaned tables plus reject-index sets; reading and
// writing batches is the driver's concern.
package engine

import "regexp"

// Rewrite is one pre-process step: a regex search/replace applied to every
// surviving value before validation.
type Rewrite struct {
	Pattern *regexp.Regexp
	With    string
}

// Validator decides per-value validity over the surviving values of a column.
// Implementations are Pattern (full-string regex match) and Predicate
// (whole-column boolean mask). A nil Validator means "always valid".
type Validator interface {
	// mask returns one bool per input value; true means valid.
	mask(vals []string) []bool
}

// Pattern validates by full-string regex match. A partial match is invalid:
// the entire value must conform.
type Pattern struct {
	RE *regexp.Regexp
}

func (p Pattern) mask(vals []string) []bool {
	out := make([]bool, len(vals))
	for i, v := range vals {
		if loc := p.RE.FindStringIndex(v); loc != nil && loc[0] == 0 && loc[1] == len(v) {
			out[i] = true
		}
	}
	return out
}

// Predicate validates with a caller-supplied whole-column function. The
// returned mask is aligned index-for-index with the input; if the function
// returns a short mask the missing entries default to invalid.
type Predicate struct {
	Name string
	Func func(vals []string) []bool
}

func (p Predicate) mask(vals []string) []bool {
	got := p.Func(vals)
	out := make([]bool, len(vals))
	copy(out, got)
	return out
}

// PostStep is one post-process step applied to already-valid values, in listed
// order. Implementations are Replace (regex search/replace) and Transform
// (whole-column function). A Transform may null individual values; a nulled
// value is reclassified as rejected.
type PostStep interface {
	// run maps the current valid values to their replacements; nil means the
	// value did not survive this step.
	run(vals []string) []*string
}

// Replace is a cosmetic regex search/replace. Unlike Pattern validation it is
// a search, not a full match.
type Replace struct {
	Pattern *regexp.Regexp
	With    string
}

func (r Replace) run(vals []string) []*string {
	out := make([]*string, len(vals))
	for i, v := range vals {
		s := r.Pattern.ReplaceAllString(v, r.With)
		out[i] = &s
	}
	return out
}

// Transform applies a whole-column function. Name labels the step in errors.
type Transform struct {
	Name string
	Func func(vals []string) []*string
}

func (t Transform) run(vals []string) []*string { return t.Func(vals) }

// FieldSpec declares how one column is cleaned. Every rule is optional; an
// absent rule is a no-op, never an error. Specs carry no behavior of their
// own and are safe to share across batches.
type FieldSpec struct {
	// Name is the column to process.
	Name string

	// OtherNulls lists literal values treated as null in addition to the
	// empty string and true nulls.
	OtherNulls []string

	// PreProcess rewrites run before validation, in order, each over the
	// full surviving set.
	PreProcess []Rewrite

	// DateField delegates validation to the known-date-format parser.
	// Mutually exclusive with Validation.
	DateField bool

	// Validation is nil (always valid), a Pattern, or a Predicate.
	Validation Validator

	// PostProcess steps run only on values that passed validation.
	PostProcess []PostStep

	// ValidValues, when non-empty, is a closed vocabulary applied after
	// post-processing; values outside it are reclassified as invalid.
	ValidValues []string

	// Generators derive new columns from the final valid values.
	Generators []Generator

	// DropField removes the original column from the output, leaving only
	// derived columns.
	DropField bool
}

// shadowSuffix names the companion column holding pre-cleaning originals for
// rejected values.
const shadowSuffix = "_orig"

// ShadowName returns the name of the spec's shadow column.
func (s FieldSpec) ShadowName() string { return s.Name + shadowSuffix }
