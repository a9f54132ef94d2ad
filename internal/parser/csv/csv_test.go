package csv

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"scrub/internal/table"
)

func cells(c table.Column) []any {
	out := make([]any, len(c))
	for i, p := range c {
		if p != nil {
			out[i] = *p
		}
	}
	return out
}

func TestReadTable(t *testing.T) {
	in := "\uFEFFCase Number,Zip  Codes\nab1234,60601\n,6060\nxy9999,\n"
	tbl, err := ReadTable(strings.NewReader(in), Options{NormalizeHeaders: true})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if got, want := tbl.Names(), []string{"case_number", "zip_codes"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	if got, want := cells(tbl.Column("case_number")), []any{"ab1234", nil, "xy9999"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("case_number = %v, want %v", got, want)
	}
	if got, want := cells(tbl.Column("zip_codes")), []any{"60601", "6060", nil}; !reflect.DeepEqual(got, want) {
		t.Fatalf("zip_codes = %v, want %v", got, want)
	}
}

func TestReadTableCollapseSpace(t *testing.T) {
	in := "a\n  THE   BIG    HOUSE \n"
	tbl, err := ReadTable(strings.NewReader(in), Options{CollapseSpace: true})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if got := *tbl.Column("a")[0]; got != "THE BIG HOUSE" {
		t.Fatalf("a = %q, want collapsed value", got)
	}
	// A whitespace-only cell collapses to null.
	tbl, err = ReadTable(strings.NewReader("a\n   \n"), Options{CollapseSpace: true})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Column("a")[0] != nil {
		t.Fatalf("blank cell should become null")
	}
}

func TestReadTableShortAndWideRows(t *testing.T) {
	// Short rows pad with nulls.
	tbl, err := ReadTable(strings.NewReader("a,b\nx\n"), Options{})
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if tbl.Column("b")[0] != nil {
		t.Fatalf("missing trailing cell should be null")
	}
	// Wide rows are an error.
	if _, err := ReadTable(strings.NewReader("a,b\n1,2,3\n"), Options{}); err == nil {
		t.Fatalf("wide row: want error")
	}
}

func TestReadTableHeaderMap(t *testing.T) {
	opt := Options{
		NormalizeHeaders: true,
		HeaderMap:        map[string]string{"kratky_text": "short_text"},
	}
	tbl, err := ReadTable(strings.NewReader("Krátký text\nv\n"), opt)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	// Accent stripped by normalization, then mapped to the canonical name.
	if !tbl.Has("short_text") {
		t.Fatalf("Names = %v, want short_text", tbl.Names())
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Case Number", "case_number"},
		{"  ZIP  Codes ", "zip_codes"},
		{"Krátký text", "kratky_text"},
		{"X-Coordinate.1", "x_coordinate_1"},
		{"???", "col"},
	}
	for _, tc := range cases {
		if got := NormalizeHeader(tc.in); got != tc.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteTableRoundTrip(t *testing.T) {
	in := "a,b\n1,x\n2,\n"
	tbl, err := ReadTable(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteTable(&buf, tbl, WriteOptions{}); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if got := buf.String(); got != in {
		t.Fatalf("WriteTable = %q, want %q", got, in)
	}
}

func TestWriteTableIndexLabel(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("a\nr0\nr1\nr2\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Drop the middle row; the written index keeps the original numbering.
	sub := tbl.Without(map[int]struct{}{1: {}})
	var buf bytes.Buffer
	if err := WriteTable(&buf, sub, WriteOptions{IndexLabel: "file_index"}); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	want := "file_index,a\n0,r0\n2,r2\n"
	if got := buf.String(); got != want {
		t.Fatalf("WriteTable = %q, want %q", got, want)
	}
}
