package engine

import (
	"strings"

	"scrub/internal/table"
)

// Runner executes the two-pass reject classification over a batch: hard specs
// (identity fields whose failure invalidates the whole row) run against the
// full table, the union of their rejects is removed once, then soft specs
// (content fields whose failure nulls only the value) run against the
// filtered table. Specs run in declared order within a pass, so generated
// columns may depend on columns added by earlier specs.
type Runner struct {
	Hard []FieldSpec
	Soft []FieldSpec
}

// Result carries the outputs of a completed run. Filtered retains the shadow
// and generated columns; use CleanTable for the downstream view.
type Result struct {
	// Filtered is the hard-filtered, soft-processed table.
	Filtered *table.Table
	// HardLedger and SoftLedger map field names to rejected row indices
	// against the original table's stable indexing.
	HardLedger *Ledger
	SoftLedger *Ledger
}

// CleanTable returns the filtered table restricted to columns without the
// shadow suffix, for downstream use.
func (r *Result) CleanTable() (*table.Table, error) {
	var keep []string
	for _, n := range r.Filtered.Names() {
		if !strings.HasSuffix(n, shadowSuffix) {
			keep = append(keep, n)
		}
	}
	return r.Filtered.Project(keep)
}

// Run validates the spec collection against tbl and then executes both
// passes. The input table is not modified; processing happens on a clone.
func (r *Runner) Run(tbl *table.Table) (*Result, error) {
	if err := r.validate(tbl); err != nil {
		return nil, err
	}

	work := tbl.Clone()

	hard := NewLedger()
	for _, spec := range r.Hard {
		if err := Process(work, spec, hard, true); err != nil {
			return nil, err
		}
	}

	// One combined filter: every hard field is evaluated against the
	// unfiltered table first, then the union is removed once. Filtering
	// incrementally would change what later hard fields see.
	work = work.Without(hard.Union())

	soft := NewLedger()
	for _, spec := range r.Soft {
		if err := Process(work, spec, soft, false); err != nil {
			return nil, err
		}
	}

	return &Result{Filtered: work, HardLedger: hard, SoftLedger: soft}, nil
}

// validate surfaces configuration problems before any row is touched: specs
// naming absent columns, date fields carrying an explicit validator,
// duplicate specs, and generated-column name collisions.
func (r *Runner) validate(tbl *table.Table) error {
	taken := map[string]struct{}{}
	for _, n := range tbl.Names() {
		taken[n] = struct{}{}
	}

	seen := map[string]struct{}{}
	for _, spec := range append(append([]FieldSpec(nil), r.Hard...), r.Soft...) {
		if spec.Name == "" {
			return &ConfigError{Field: spec.Name, Reason: "empty field name"}
		}
		if !tbl.Has(spec.Name) {
			return &ConfigError{Field: spec.Name, Reason: "column not present in table"}
		}
		if _, dup := seen[spec.Name]; dup {
			return &ConfigError{Field: spec.Name, Reason: "field appears in more than one spec"}
		}
		seen[spec.Name] = struct{}{}

		if spec.DateField && spec.Validation != nil {
			return &ConfigError{Field: spec.Name, Reason: "date_field is mutually exclusive with an explicit validation"}
		}

		if _, dup := taken[spec.ShadowName()]; dup {
			return &ConfigError{Field: spec.Name, Reason: "shadow column " + spec.ShadowName() + " collides with an existing column"}
		}
		taken[spec.ShadowName()] = struct{}{}

		for _, g := range spec.Generators {
			for _, out := range g.Outputs() {
				if out == "" {
					return &ConfigError{Field: spec.Name, Reason: "generator " + g.Name() + " declares an empty output column"}
				}
				if _, dup := taken[out]; dup {
					return &ConfigError{Field: spec.Name, Reason: "generator " + g.Name() + " output column " + out + " collides"}
				}
				taken[out] = struct{}{}
			}
		}
	}
	return nil
}
