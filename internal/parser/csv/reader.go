// Package csv adapts batch CSV files to and from the in-memory columnar
// table. It owns the messy edges of real-world exports: UTF-8 BOMs, header
// localization/casing, excess whitespace, and ragged rows. The scrubbing
// engine itself never sees CSV.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"scrub/internal/table"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures reading. All fields are optional; zero values get
// sensible defaults.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// NormalizeHeaders lowercases headers, strips accents, and rewrites
	// separators to underscores so column names are stable identifiers.
	NormalizeHeaders bool

	// CollapseSpace trims cell values and collapses inner whitespace runs to
	// a single space.
	CollapseSpace bool

	// HeaderMap maps (post-normalization) source header names to canonical
	// column names.
	HeaderMap map[string]string

	// LazyQuotes relaxes quote handling for exports with unescaped quotes.
	LazyQuotes bool
}

// ReadTable parses CSV from r into a columnar table. The first row is always
// the header. Empty cells become nulls. Rows narrower than the header are
// padded with nulls; wider rows are an error.
func ReadTable(r io.Reader, opt Options) (*table.Table, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = opt.LazyQuotes
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header := make([]string, len(hdr))
	copy(header, hdr)
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i, h := range header {
		if opt.NormalizeHeaders {
			h = NormalizeHeader(h)
		} else {
			h = strings.TrimSpace(h)
		}
		if mapped, ok := opt.HeaderMap[h]; ok && mapped != "" {
			h = mapped
		}
		header[i] = h
	}

	var rows [][]*string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("csv: line %d: %d fields, header has %d", line, len(rec), len(header))
		}
		row := make([]*string, len(header))
		for i, cell := range rec {
			if opt.CollapseSpace {
				cell = collapseSpace(cell)
			}
			if cell == "" {
				continue
			}
			c := cell
			row[i] = &c
		}
		rows = append(rows, row)
	}

	tbl := table.New(len(rows))
	for i, name := range header {
		col := make(table.Column, len(rows))
		for j, row := range rows {
			col[j] = row[i]
		}
		if err := tbl.SetColumn(name, col); err != nil {
			return nil, fmt.Errorf("csv: column %q: %w", name, err)
		}
	}
	return tbl, nil
}

// NormalizeHeader converts arbitrary header text into a lowercase ASCII
// identifier:
//  1. lowercase
//  2. strip accents (NFD → remove Mn → NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot runs to one underscore
//  4. fallback to "col" if nothing remains
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "col"
	}
	return out
}

// collapseSpace trims the cell and collapses inner whitespace runs to one
// space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
