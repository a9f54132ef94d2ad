package table

import (
	"reflect"
	"testing"
)

func colOf(vals ...any) Column {
	out := make(Column, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s := v.(string)
		out[i] = &s
	}
	return out
}

func cells(c Column) []any {
	out := make([]any, len(c))
	for i, p := range c {
		if p != nil {
			out[i] = *p
		}
	}
	return out
}

func TestSetColumnAndOrder(t *testing.T) {
	tbl := New(3)
	if err := tbl.SetColumn("a", colOf("1", "2", "3")); err != nil {
		t.Fatalf("SetColumn a: %v", err)
	}
	if err := tbl.SetColumn("b", colOf(nil, "x", nil)); err != nil {
		t.Fatalf("SetColumn b: %v", err)
	}
	if got, want := tbl.Names(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	// Replacing keeps position.
	if err := tbl.SetColumn("a", colOf("9", "8", "7")); err != nil {
		t.Fatalf("replace a: %v", err)
	}
	if got, want := tbl.Names(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names after replace = %v, want %v", got, want)
	}
	// Length mismatch is an error.
	if err := tbl.SetColumn("c", colOf("only")); err == nil {
		t.Fatalf("SetColumn with bad length: want error")
	}
}

func TestPrependColumn(t *testing.T) {
	tbl := New(2)
	if err := tbl.SetColumn("a", colOf("1", "2")); err != nil {
		t.Fatal(err)
	}
	if err := tbl.PrependColumn("id", colOf("x", "y")); err != nil {
		t.Fatalf("PrependColumn: %v", err)
	}
	if got, want := tbl.Names(), []string{"id", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	if err := tbl.PrependColumn("a", colOf("x", "y")); err == nil {
		t.Fatalf("prepend of existing column: want error")
	}
}

/*
TestWithoutKeepsStableIndices verifies the filtering contract the reject
bookkeeping depends on: removing rows never renumbers the survivors, so an
index recorded against the full batch remains valid after hard filtering.
*/
func TestWithoutKeepsStableIndices(t *testing.T) {
	tbl := New(4)
	if err := tbl.SetColumn("v", colOf("a", "b", "c", "d")); err != nil {
		t.Fatal(err)
	}

	got := tbl.Without(map[int]struct{}{1: {}, 3: {}})
	if want := []int{0, 2}; !reflect.DeepEqual(got.Index(), want) {
		t.Fatalf("Index = %v, want %v", got.Index(), want)
	}
	if want := []any{"a", "c"}; !reflect.DeepEqual(cells(got.Column("v")), want) {
		t.Fatalf("v = %v, want %v", cells(got.Column("v")), want)
	}
	// The source table is untouched.
	if tbl.Len() != 4 {
		t.Fatalf("source len = %d, want 4", tbl.Len())
	}
}

func TestRestrictToAscendingOrder(t *testing.T) {
	tbl := New(5)
	if err := tbl.SetColumn("v", colOf("a", "b", "c", "d", "e")); err != nil {
		t.Fatal(err)
	}
	got := tbl.RestrictTo(map[int]struct{}{4: {}, 0: {}, 2: {}})
	if want := []int{0, 2, 4}; !reflect.DeepEqual(got.Index(), want) {
		t.Fatalf("Index = %v, want %v", got.Index(), want)
	}
	if want := []any{"a", "c", "e"}; !reflect.DeepEqual(cells(got.Column("v")), want) {
		t.Fatalf("v = %v, want %v", cells(got.Column("v")), want)
	}
	// Indices absent from the table are ignored.
	if got := tbl.RestrictTo(map[int]struct{}{99: {}}); got.Len() != 0 {
		t.Fatalf("RestrictTo unknown index: len = %d, want 0", got.Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := New(2)
	if err := tbl.SetColumn("v", colOf("a", "b")); err != nil {
		t.Fatal(err)
	}
	cp := tbl.Clone()
	if err := cp.SetColumn("v", colOf(nil, nil)); err != nil {
		t.Fatal(err)
	}
	cp.DropColumn("v")
	if !tbl.Has("v") || tbl.Column("v")[0] == nil {
		t.Fatalf("mutating the clone changed the source")
	}
}

func TestProject(t *testing.T) {
	tbl := New(1)
	for _, n := range []string{"a", "b", "c"} {
		if err := tbl.SetColumn(n, colOf(n)); err != nil {
			t.Fatal(err)
		}
	}
	p, err := tbl.Project([]string{"c", "a"})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if want := []string{"c", "a"}; !reflect.DeepEqual(p.Names(), want) {
		t.Fatalf("Names = %v, want %v", p.Names(), want)
	}
	if _, err := tbl.Project([]string{"nope"}); err == nil {
		t.Fatalf("Project unknown column: want error")
	}
}
