package engine

import (
	"scrub/internal/table"
)

// Process executes one field spec against its column, mutating tbl in place:
// the cleaned column replaces the original (unless DropField), a shadow
// "<name>_orig" column receives the pre-cleaning value for every rejected
// row, and generators append derived columns. Reject indices are recorded
// into led under the field's name.
//
// required controls whether rows filtered out as null (truly null, empty, or
// an OtherNulls literal) count as rejects: the hard pass demands a value, the
// soft pass does not. Nullness is never a rejection event on its own.
//
// The steps run in a fixed order: null filtering, pre-process rewrites,
// validation, post-process on the valid subset, valid-values filtering,
// generated columns, reject recording, output assembly.
func Process(tbl *table.Table, spec FieldSpec, led *Ledger, required bool) error {
	col := tbl.Column(spec.Name)
	if col == nil {
		return &ConfigError{Field: spec.Name, Reason: "column not present in table"}
	}
	index := tbl.Index()

	otherNull := make(map[string]struct{}, len(spec.OtherNulls))
	for _, v := range spec.OtherNulls {
		otherNull[v] = struct{}{}
	}

	// Null filtering. pos/vals/orig are parallel over the surviving values;
	// nulled collects the stable indices of everything filtered out here.
	var (
		pos    []int
		vals   []string
		orig   []string
		nulled = map[int]struct{}{}
	)
	for p, cell := range col {
		if cell == nil || *cell == "" {
			nulled[index[p]] = struct{}{}
			continue
		}
		if _, isNull := otherNull[*cell]; isNull {
			nulled[index[p]] = struct{}{}
			continue
		}
		pos = append(pos, p)
		vals = append(vals, *cell)
		orig = append(orig, *cell)
	}

	// Fully null column: null the field and its shadow, record nothing, stop.
	// Emptiness is not a rejection, even for required fields.
	if len(pos) == 0 {
		if err := tbl.SetColumn(spec.Name, make(table.Column, tbl.Len())); err != nil {
			return err
		}
		if err := tbl.SetColumn(spec.ShadowName(), make(table.Column, tbl.Len())); err != nil {
			return err
		}
		return led.Record(spec.Name, nil)
	}

	// Pre-process rewrites, each over the full surviving set.
	for _, rw := range spec.PreProcess {
		for i := range vals {
			vals[i] = rw.Pattern.ReplaceAllString(vals[i], rw.With)
		}
	}

	// Validation. Date fields rewrite valid values into the canonical layout.
	valid := make([]bool, len(vals))
	switch {
	case spec.DateField:
		for i, v := range vals {
			if t, ok := parseDate(v); ok {
				vals[i] = t.Format(canonicalDateLayout)
				valid[i] = true
			}
		}
	case spec.Validation != nil:
		valid = spec.Validation.mask(vals)
	default:
		for i := range valid {
			valid[i] = true
		}
	}

	// Narrow to the valid working set. widx maps working slots back into the
	// surviving arrays so later stages can flip validity.
	var widx []int
	for i, ok := range valid {
		if ok {
			widx = append(widx, i)
		}
	}
	wvals := make([]string, len(widx))
	for j, i := range widx {
		wvals[j] = vals[i]
	}

	// Post-process, only over the valid working set. A step yielding null for
	// a value reclassifies that value as invalid.
	for _, step := range spec.PostProcess {
		res := step.run(wvals)
		var nIdx []int
		var nVals []string
		for j, i := range widx {
			if j < len(res) && res[j] != nil {
				nIdx = append(nIdx, i)
				nVals = append(nVals, *res[j])
			} else {
				valid[i] = false
			}
		}
		widx, wvals = nIdx, nVals
	}

	// Closed-vocabulary filter; failures update the validity mask rather than
	// forming a separate rejection stage.
	if len(spec.ValidValues) > 0 {
		vocab := make(map[string]struct{}, len(spec.ValidValues))
		for _, v := range spec.ValidValues {
			vocab[v] = struct{}{}
		}
		var nIdx []int
		var nVals []string
		for j, i := range widx {
			if _, ok := vocab[wvals[j]]; ok {
				nIdx = append(nIdx, i)
				nVals = append(nVals, wvals[j])
			} else {
				valid[i] = false
			}
		}
		widx, wvals = nIdx, nVals
	}

	// Generated columns, over the final valid, processed values. Generator
	// failures are batch-fatal: a half-written derived column is corruption.
	if len(spec.Generators) > 0 {
		wpos := make([]int, len(widx))
		for j, i := range widx {
			wpos[j] = pos[i]
		}
		for _, g := range spec.Generators {
			if err := g.Apply(tbl, wpos, wvals); err != nil {
				return &GeneratorError{Field: spec.Name, Generator: g.Name(), Err: err}
			}
		}
	}

	// Reject recording: surviving values whose validity ended up false, plus
	// (for required fields) everything filtered out as null.
	rejects := map[int]struct{}{}
	for i, ok := range valid {
		if !ok {
			rejects[index[pos[i]]] = struct{}{}
		}
	}
	if required {
		for ix := range nulled {
			rejects[ix] = struct{}{}
		}
	}
	if err := led.Record(spec.Name, rejects); err != nil {
		return err
	}

	// Output assembly: shadow column keeps pre-cleaning originals for exactly
	// the rows that failed; the cleaned column holds the processed valid
	// values, null elsewhere.
	shadow := make(table.Column, tbl.Len())
	for i, ok := range valid {
		if !ok {
			shadow[pos[i]] = &orig[i]
		}
	}
	if err := tbl.SetColumn(spec.ShadowName(), shadow); err != nil {
		return err
	}

	if spec.DropField {
		tbl.DropColumn(spec.Name)
		return nil
	}
	cleaned := make(table.Column, tbl.Len())
	for j, i := range widx {
		cleaned[pos[i]] = &wvals[j]
	}
	return tbl.SetColumn(spec.Name, cleaned)
}
