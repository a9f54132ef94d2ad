package engine

import (
	"sort"
	"strings"

	"scrub/internal/table"
)

// BuildAudits joins the reject ledgers back to their source tables and labels
// the resulting rows for operator review. The hard audit draws rows from the
// original, unprocessed table; the soft audit draws from the filtered,
// processed table so the shadow columns travel with it. Both tables carry a
// prepended batch_id and a ";"-joined, sorted offending_fields column, and
// their rows are in ascending row-index order for reproducible output.
func BuildAudits(original, filtered *table.Table, hard, soft *Ledger, batchID string) (*table.Table, *table.Table, error) {
	hardAudit, err := buildAudit(original, hard, batchID)
	if err != nil {
		return nil, nil, err
	}
	softAudit, err := buildAudit(filtered, soft, batchID)
	if err != nil {
		return nil, nil, err
	}
	return hardAudit, softAudit, nil
}

func buildAudit(src *table.Table, led *Ledger, batchID string) (*table.Table, error) {
	out := src.RestrictTo(led.Union())

	fields := append([]string(nil), led.Fields()...)
	sort.Strings(fields)

	offending := make(table.Column, out.Len())
	for i, ix := range out.Index() {
		var bad []string
		for _, f := range fields {
			if _, hit := led.Rejects(f)[ix]; hit {
				bad = append(bad, f)
			}
		}
		s := strings.Join(bad, ";")
		offending[i] = &s
	}
	if err := out.PrependColumn("offending_fields", offending); err != nil {
		return nil, err
	}

	ids := make(table.Column, out.Len())
	for i := range ids {
		ids[i] = &batchID
	}
	if err := out.PrependColumn("batch_id", ids); err != nil {
		return nil, err
	}
	return out, nil
}
