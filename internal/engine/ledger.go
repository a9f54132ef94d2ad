package engine

import "fmt"

// Ledger accumulates per-field reject-index sets across one pass of a single
// batch. Entries are write-once: recording the same field twice means a
// caller re-processed a column, which is a bug, not data.
//
// The ledger is a plain value owned by the pass orchestrator and passed by
// reference into the field processor; there is no process-wide reject state,
// so independent batches can run concurrently.
type Ledger struct {
	order []string
	sets  map[string]map[int]struct{}
}

// FieldCount is one row of a ledger summary.
type FieldCount struct {
	Field string
	Count int
}

// Summary reports per-field reject counts plus the row-level union size.
type Summary struct {
	PerField []FieldCount // in recorded order
	// UnionCount is the number of distinct rows rejected by at least one field.
	UnionCount int
	// TotalFieldRejects is the sum over fields (a row rejected by two fields
	// counts twice).
	TotalFieldRejects int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{sets: map[string]map[int]struct{}{}}
}

// Record stores the reject set for a field. The set is copied; the caller may
// reuse its map.
func (l *Ledger) Record(field string, rows map[int]struct{}) error {
	if _, dup := l.sets[field]; dup {
		return fmt.Errorf("engine: ledger: field %q already recorded", field)
	}
	set := make(map[int]struct{}, len(rows))
	for ix := range rows {
		set[ix] = struct{}{}
	}
	l.order = append(l.order, field)
	l.sets[field] = set
	return nil
}

// Fields returns the recorded field names in recording order.
func (l *Ledger) Fields() []string { return l.order }

// Rejects returns the reject set recorded for a field (nil if none). The
// returned map is shared; callers must not modify it.
func (l *Ledger) Rejects(field string) map[int]struct{} { return l.sets[field] }

// Union returns the set of rows rejected by at least one field. Set union is
// idempotent and order-independent.
func (l *Ledger) Union() map[int]struct{} {
	u := map[int]struct{}{}
	for _, set := range l.sets {
		for ix := range set {
			u[ix] = struct{}{}
		}
	}
	return u
}

// Summarize reports per-field counts and the union count.
func (l *Ledger) Summarize() Summary {
	s := Summary{UnionCount: len(l.Union())}
	for _, f := range l.order {
		n := len(l.sets[f])
		s.PerField = append(s.PerField, FieldCount{Field: f, Count: n})
		s.TotalFieldRejects += n
	}
	return s
}
