package engine

import "time"

// knownDateLayouts are tried in order; the first successful parse wins. Order
// by distribution of formats in the data if more than one is in play, since
// date parsing sits on the hot path.
var knownDateLayouts = []string{
	"01/02/2006 03:04:05 PM",
}

// canonicalDateLayout is how validated dates are re-emitted in the cleaned
// column.
const canonicalDateLayout = "2006-01-02 15:04:05"

// parseDate tries each known layout against s.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range knownDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCanonical parses a value already rewritten into the canonical layout.
func parseCanonical(s string) (time.Time, error) {
	return time.Parse(canonicalDateLayout, s)
}
