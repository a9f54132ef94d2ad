// Package table implements the in-memory columnar batch representation used by
// the scrubbing engine. A Table is an ordered collection of named columns of
// nullable strings sharing one stable integer row index. Filtering a table
// never renumbers rows: the index of a surviving row stays the same, so reject
// bookkeeping recorded against the full batch can be joined back later.
package table

import (
	"fmt"
	"sort"
)

// Column is one column of nullable string cells; nil means NULL.
type Column []*string

// Table is an ordered set of equally sized named columns. The zero value is
// not usable; construct with New.
type Table struct {
	names []string
	cols  map[string]Column
	index []int // stable row indices, ascending within any given table
}

// New returns an empty table with capacity for n rows, indexed 0..n-1.
func New(n int) *Table {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return &Table{cols: map[string]Column{}, index: idx}
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Names returns the column names in declaration order. The returned slice is
// owned by the table; callers must not modify it.
func (t *Table) Names() []string { return t.names }

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the named column, or nil if absent. The slice is shared with
// the table; mutating cells mutates the table.
func (t *Table) Column(name string) Column { return t.cols[name] }

// Index returns the stable row indices of this table's rows. For a freshly
// read batch this is 0..Len()-1; after filtering it is the surviving subset.
func (t *Table) Index() []int { return t.index }

// SetColumn replaces an existing column or appends a new one at the end.
// The column length must match the table's row count.
func (t *Table) SetColumn(name string, col Column) error {
	if len(col) != t.Len() {
		return fmt.Errorf("table: column %q has %d cells, table has %d rows", name, len(col), t.Len())
	}
	if _, ok := t.cols[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cols[name] = col
	return nil
}

// PrependColumn inserts a new column at position 0. It is an error if the
// column already exists.
func (t *Table) PrependColumn(name string, col Column) error {
	if len(col) != t.Len() {
		return fmt.Errorf("table: column %q has %d cells, table has %d rows", name, len(col), t.Len())
	}
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("table: column %q already exists", name)
	}
	t.names = append([]string{name}, t.names...)
	t.cols[name] = col
	return nil
}

// DropColumn removes a column; dropping an absent column is a no-op.
func (t *Table) DropColumn(name string) {
	if _, ok := t.cols[name]; !ok {
		return
	}
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
}

// Project returns a new table containing only the named columns, in the given
// order, sharing cell storage with the receiver.
func (t *Table) Project(names []string) (*Table, error) {
	out := &Table{cols: make(map[string]Column, len(names)), index: t.index}
	for _, n := range names {
		col, ok := t.cols[n]
		if !ok {
			return nil, fmt.Errorf("table: no column %q", n)
		}
		out.names = append(out.names, n)
		out.cols[n] = col
	}
	return out, nil
}

// Clone returns a deep copy: new column slices, new index slice. Cell string
// pointers are shared (cells are treated as immutable values).
func (t *Table) Clone() *Table {
	out := &Table{
		names: append([]string(nil), t.names...),
		cols:  make(map[string]Column, len(t.cols)),
		index: append([]int(nil), t.index...),
	}
	for n, col := range t.cols {
		out.cols[n] = append(Column(nil), col...)
	}
	return out
}

// Without returns a new table with every row whose stable index appears in
// drop removed. Remaining rows keep their original indices and order.
func (t *Table) Without(drop map[int]struct{}) *Table {
	keep := make([]int, 0, t.Len())
	for pos, ix := range t.index {
		if _, gone := drop[ix]; !gone {
			keep = append(keep, pos)
		}
	}
	return t.selectPositions(keep)
}

// RestrictTo returns a new table holding only rows whose stable index appears
// in want, in ascending index order.
func (t *Table) RestrictTo(want map[int]struct{}) *Table {
	keep := make([]int, 0, len(want))
	for pos, ix := range t.index {
		if _, ok := want[ix]; ok {
			keep = append(keep, pos)
		}
	}
	sort.Slice(keep, func(a, b int) bool { return t.index[keep[a]] < t.index[keep[b]] })
	return t.selectPositions(keep)
}

// selectPositions builds a new table from row positions within the receiver.
func (t *Table) selectPositions(pos []int) *Table {
	out := &Table{
		names: append([]string(nil), t.names...),
		cols:  make(map[string]Column, len(t.cols)),
		index: make([]int, len(pos)),
	}
	for i, p := range pos {
		out.index[i] = t.index[p]
	}
	for n, col := range t.cols {
		nc := make(Column, len(pos))
		for i, p := range pos {
			nc[i] = col[p]
		}
		out.cols[n] = nc
	}
	return out
}

// Str is a convenience for building columns of literal cells.
func Str(s string) *string { return &s }
