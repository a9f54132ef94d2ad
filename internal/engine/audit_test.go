package engine

import (
	"reflect"
	"testing"

	"scrub/internal/table"
)

/*
TestBuildAudits drives the full flow on a small batch and checks both audit
tables: rows restricted to the ledger unions in ascending index order, a
constant batch_id column prepended, and offending_fields holding the sorted
";"-joined field names responsible for each row.
*/
func TestBuildAudits(t *testing.T) {
	tbl := table.New(4)
	if err := tbl.SetColumn("id", colOf("1", "x", "y", "4")); err != nil {
		t.Fatal(err)
	}
	if err := tbl.SetColumn("case", colOf("ok", "ok", "??", "ok")); err != nil {
		t.Fatal(err)
	}
	if err := tbl.SetColumn("note", colOf("good", "-", "-", "!bad!")); err != nil {
		t.Fatal(err)
	}

	letters := Predicate{Name: "letters", Func: func(vals []string) []bool {
		out := make([]bool, len(vals))
		for i, v := range vals {
			ok := v != ""
			for _, r := range v {
				if (r < 'a' || r > 'z') && r != '-' {
					ok = false
					break
				}
			}
			out[i] = ok
		}
		return out
	}}

	r := &Runner{
		Hard: []FieldSpec{
			{Name: "id", Validation: digitsOnly},
			{Name: "case", Validation: letters},
		},
		Soft: []FieldSpec{{Name: "note", Validation: letters}},
	}
	res, err := r.Run(tbl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	hardAudit, softAudit, err := BuildAudits(tbl, res.Filtered, res.HardLedger, res.SoftLedger, "batch_007.csv")
	if err != nil {
		t.Fatalf("BuildAudits: %v", err)
	}

	// Hard audit: rows 1 (id) and 2 (id and case), ascending, labeled with the
	// sorted offending field list, original (pre-cleaning) values intact.
	if got, want := hardAudit.Index(), []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("hard audit index = %v, want %v", got, want)
	}
	if got, want := hardAudit.Names()[:2], []string{"batch_id", "offending_fields"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("hard audit leading columns = %v, want %v", got, want)
	}
	if got, want := cells(hardAudit.Column("batch_id")), []any{"batch_007.csv", "batch_007.csv"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("batch_id = %v, want %v", got, want)
	}
	if got, want := cells(hardAudit.Column("offending_fields")), []any{"id", "case;id"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("offending_fields = %v, want %v", got, want)
	}
	if got := *hardAudit.Column("id")[0]; got != "x" {
		t.Fatalf("hard audit id[0] = %q, want the raw value", got)
	}

	// Soft audit: row 3 only, drawn from the processed filtered table so the
	// shadow column travels with it.
	if got, want := softAudit.Index(), []int{3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("soft audit index = %v, want %v", got, want)
	}
	if got := *softAudit.Column("offending_fields")[0]; got != "note" {
		t.Fatalf("offending_fields = %q, want %q", got, "note")
	}
	if softAudit.Column("note")[0] != nil {
		t.Fatalf("soft audit note should be nulled")
	}
	if got := *softAudit.Column("note_orig")[0]; got != "!bad!" {
		t.Fatalf("note_orig = %q, want %q", got, "!bad!")
	}
}
