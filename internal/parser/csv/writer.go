package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"scrub/internal/table"
)

// WriteOptions configures writing.
type WriteOptions struct {
	// IndexLabel, when non-empty, prepends a column with the stable row index
	// of each row under this name. Audit tables use "file_index" so operators
	// can locate the offending line in the source batch.
	IndexLabel string

	// Comma is the field delimiter; ',' when zero.
	Comma rune
}

// WriteTable renders the table as CSV with a header row. Nulls become empty
// cells.
func WriteTable(w io.Writer, tbl *table.Table, opt WriteOptions) error {
	cw := csv.NewWriter(w)
	if opt.Comma != 0 {
		cw.Comma = opt.Comma
	}

	header := tbl.Names()
	if opt.IndexLabel != "" {
		header = append([]string{opt.IndexLabel}, header...)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	names := tbl.Names()
	row := make([]string, len(header))
	for i, ix := range tbl.Index() {
		row = row[:0]
		if opt.IndexLabel != "" {
			row = append(row, strconv.Itoa(ix))
		}
		for _, n := range names {
			cell := tbl.Column(n)[i]
			if cell == nil {
				row = append(row, "")
			} else {
				row = append(row, *cell)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row %d: %w", ix, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
