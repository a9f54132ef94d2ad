package engine

import (
	"fmt"
	"regexp"
	"strconv"

	"scrub/internal/table"
)

// Generator derives new columns from the final valid, processed values of a
// field. Variants are a closed set so the engine can check at configuration
// time that required inputs exist and output names don't collide.
//
// Apply receives the row positions (within the working table) of the valid
// values and must write complete columns: cells at other positions stay null.
// Generators never mutate the column under processing.
type Generator interface {
	// Name labels the generator in errors.
	Name() string
	// Outputs lists the columns the generator will add.
	Outputs() []string
	// Apply writes the derived columns into tbl.
	Apply(tbl *table.Table, pos []int, vals []string) error
}

// DateParts splits a validated date column (canonical layout) into year and
// month columns.
type DateParts struct {
	YearColumn  string // default "year"
	MonthColumn string // default "month"
}

func (g DateParts) Name() string { return "date_parts" }

func (g DateParts) Outputs() []string { return []string{g.yearCol(), g.monthCol()} }

func (g DateParts) yearCol() string {
	if g.YearColumn == "" {
		return "year"
	}
	return g.YearColumn
}

func (g DateParts) monthCol() string {
	if g.MonthColumn == "" {
		return "month"
	}
	return g.MonthColumn
}

func (g DateParts) Apply(tbl *table.Table, pos []int, vals []string) error {
	years := make(table.Column, tbl.Len())
	months := make(table.Column, tbl.Len())
	for i, p := range pos {
		t, err := parseCanonical(vals[i])
		if err != nil {
			return fmt.Errorf("parse %q: %w", vals[i], err)
		}
		y := strconv.Itoa(t.Year())
		m := strconv.Itoa(int(t.Month()))
		years[p] = &y
		months[p] = &m
	}
	if err := tbl.SetColumn(g.yearCol(), years); err != nil {
		return err
	}
	return tbl.SetColumn(g.monthCol(), months)
}

// LatLonSplit extracts latitude and longitude capture groups from a validated
// "(lat, lon)" location column.
type LatLonSplit struct {
	Pattern   *regexp.Regexp // must capture lat in group 1, lon in group 2
	LatColumn string         // default "latitude"
	LonColumn string         // default "longitude"
}

func (g LatLonSplit) Name() string { return "lat_lon_split" }

func (g LatLonSplit) Outputs() []string { return []string{g.latCol(), g.lonCol()} }

func (g LatLonSplit) latCol() string {
	if g.LatColumn == "" {
		return "latitude"
	}
	return g.LatColumn
}

func (g LatLonSplit) lonCol() string {
	if g.LonColumn == "" {
		return "longitude"
	}
	return g.LonColumn
}

func (g LatLonSplit) Apply(tbl *table.Table, pos []int, vals []string) error {
	if g.Pattern == nil {
		return fmt.Errorf("pattern is required")
	}
	lats := make(table.Column, tbl.Len())
	lons := make(table.Column, tbl.Len())
	for i, p := range pos {
		m := g.Pattern.FindStringSubmatch(vals[i])
		if len(m) < 3 {
			continue // leave null when the groups don't line up
		}
		lat, lon := m[1], m[2]
		lats[p] = &lat
		lons[p] = &lon
	}
	if err := tbl.SetColumn(g.latCol(), lats); err != nil {
		return err
	}
	return tbl.SetColumn(g.lonCol(), lons)
}

// AddressSplit extracts the house-number block and street name from a
// validated block column, e.g. "013XX W 3RD AVE" -> "013XX", "W 3RD AVE".
type AddressSplit struct {
	Pattern      *regexp.Regexp // must capture number in group 1, street in group 2
	NumColumn    string         // default "house_num"
	StreetColumn string         // default "street_addr"
}

func (g AddressSplit) Name() string { return "address_split" }

func (g AddressSplit) Outputs() []string { return []string{g.numCol(), g.streetCol()} }

func (g AddressSplit) numCol() string {
	if g.NumColumn == "" {
		return "house_num"
	}
	return g.NumColumn
}

func (g AddressSplit) streetCol() string {
	if g.StreetColumn == "" {
		return "street_addr"
	}
	return g.StreetColumn
}

func (g AddressSplit) Apply(tbl *table.Table, pos []int, vals []string) error {
	if g.Pattern == nil {
		return fmt.Errorf("pattern is required")
	}
	nums := make(table.Column, tbl.Len())
	streets := make(table.Column, tbl.Len())
	for i, p := range pos {
		m := g.Pattern.FindStringSubmatch(vals[i])
		if len(m) < 3 {
			continue
		}
		num, street := m[1], m[2]
		nums[p] = &num
		streets[p] = &street
	}
	if err := tbl.SetColumn(g.numCol(), nums); err != nil {
		return err
	}
	return tbl.SetColumn(g.streetCol(), streets)
}

// ZipFive normalizes zip codes after validation: 4-digit values gain a
// leading zero, 5-digit values pass through, anything else becomes null and
// is reclassified as a reject.
func ZipFive() PostStep {
	return Transform{
		Name: "zip_five",
		Func: func(vals []string) []*string {
			out := make([]*string, len(vals))
			for i, v := range vals {
				switch len(v) {
				case 4:
					s := "0" + v
					out[i] = &s
				case 5:
					s := v
					out[i] = &s
				}
			}
			return out
		},
	}
}
