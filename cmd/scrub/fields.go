package main

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scrub/internal/engine"
)

// Validation and extraction patterns for the Chicago crime extract. The
// address patterns double as extractors: blockRE capture group 1 is the
// house-number block and group 2 the street, locationRE captures lat and lon.
var (
	twoLettersRE = regexp.MustCompile(`(?i)^[a-z]{2}$`)
	// e.g. "013XX W 3RD AVE": a masked house number, then a street location.
	blockRE = regexp.MustCompile(`(?i)^(\d{1,4}X{1,4}) ((?:[a-z\d] ?){1,20}){1,5}$`)
	// IUCR is some 4-length alphanumeric code.
	iucrRE        = regexp.MustCompile(`(?i)^[a-z\d]{4}$`)
	primaryTypeRE = regexp.MustCompile(`(?i)^(?:[a-z\-]{1,20}(?: |$)){1,5}$`)
	// Up to seven groups of letters, numbers, or [-/:,.()$].
	descriptionRE  = regexp.MustCompile(`(?i)^(?:[a-z\-/:,.()\d$}]{1,25}(?: |$)){1,7}$`)
	locationDescRE = regexp.MustCompile(`(?i)^(?:[a-z\-/.,()]{1,20}(?: |$)){1,7}$`)
	locationRE     = regexp.MustCompile(`^\((-?\d+\.\d+), ?(-?\d+\.\d+)\)$`)
	// Zip codes are 4 or 5 digits; 4-digit values lost a leading zero upstream.
	zipRE = regexp.MustCompile(`^\d{4,5}$`)
)

// keepColumns is the projection applied to each batch before cleaning, in
// output order. Anything else the extract carries is dropped up front.
var keepColumns = []string{
	"id", "case_number", "date", "block", "iucr", "primary_type", "description",
	"location_description", "arrest", "domestic", "beat", "district", "ward",
	"community_area", "location", "zip_codes",
}

// digitsOnly accepts non-empty all-ASCII-digit values, such as row ids and
// the beat/district/ward/community_area codes.
func digitsOnly(vals []string) []bool {
	out := make([]bool, len(vals))
	for i, v := range vals {
		ok := len(v) > 0
		for j := 0; ok && j < len(v); j++ {
			if v[j] < '0' || v[j] > '9' {
				ok = false
			}
		}
		out[i] = ok
	}
	return out
}

// twoLetterPrefix accepts values whose first two characters are letters, the
// shape of case numbers like "HY411648".
func twoLetterPrefix(vals []string) []bool {
	out := make([]bool, len(vals))
	for i, v := range vals {
		out[i] = len(v) >= 2 && twoLettersRE.MatchString(v[:2])
	}
	return out
}

// matchMaxLen combines a full-string pattern with a length cap.
func matchMaxLen(re *regexp.Regexp, max int) func(vals []string) []bool {
	return func(vals []string) []bool {
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i] = len(v) <= max && re.MatchString(v)
		}
		return out
	}
}

// titleCase capitalizes the first letter of each word, e.g.
// "CRIMINAL DAMAGE" -> "Criminal Damage".
func titleCase() engine.PostStep {
	return engine.Transform{
		Name: "title_case",
		Func: func(vals []string) []*string {
			// Casers carry transform state, so build one per column run
			// rather than sharing across batch workers.
			caser := cases.Title(language.Und)
			out := make([]*string, len(vals))
			for i, v := range vals {
				s := caser.String(v)
				out[i] = &s
			}
			return out
		},
	}
}

// newRunner declares the cleaning rules for one batch. Hard fields identify
// the record; a failure there drops the whole row. Soft fields are content;
// a failure nulls the value and keeps the row.
func newRunner() *engine.Runner {
	tf := []string{"true", "false"}

	return &engine.Runner{
		Hard: []engine.FieldSpec{
			{
				Name:       "id",
				Validation: engine.Predicate{Name: "digits", Func: digitsOnly},
			},
			{
				Name:       "case_number",
				Validation: engine.Predicate{Name: "two_letter_prefix", Func: twoLetterPrefix},
			},
			{
				Name:       "date",
				DateField:  true,
				OtherNulls: []string{"0000-00-00"},
				Generators: []engine.Generator{engine.DateParts{}},
			},
		},
		Soft: []engine.FieldSpec{
			{
				Name:       "block",
				Validation: engine.Pattern{RE: blockRE},
				Generators: []engine.Generator{engine.AddressSplit{Pattern: blockRE}},
			},
			{
				Name:       "iucr",
				Validation: engine.Pattern{RE: iucrRE},
			},
			{
				Name:        "primary_type",
				Validation:  engine.Pattern{RE: primaryTypeRE},
				PostProcess: []engine.PostStep{titleCase()},
			},
			{
				Name:        "description",
				Validation:  engine.Predicate{Name: "description", Func: matchMaxLen(descriptionRE, 50)},
				PostProcess: []engine.PostStep{titleCase()},
			},
			{
				Name:        "location_description",
				Validation:  engine.Predicate{Name: "location_description", Func: matchMaxLen(locationDescRE, 50)},
				PostProcess: []engine.PostStep{titleCase()},
			},
			{
				Name:        "arrest",
				ValidValues: tf,
			},
			{
				Name:        "domestic",
				ValidValues: tf,
			},
			{
				Name:       "beat",
				Validation: engine.Predicate{Name: "digits", Func: digitsOnly},
			},
			{
				Name:       "district",
				Validation: engine.Predicate{Name: "digits", Func: digitsOnly},
			},
			{
				Name:       "ward",
				Validation: engine.Predicate{Name: "digits", Func: digitsOnly},
			},
			{
				Name:       "community_area",
				Validation: engine.Predicate{Name: "digits", Func: digitsOnly},
			},
			{
				Name:       "location",
				Validation: engine.Pattern{RE: locationRE},
				Generators: []engine.Generator{engine.LatLonSplit{Pattern: locationRE}},
			},
			{
				Name:        "zip_codes",
				Validation:  engine.Pattern{RE: zipRE},
				PostProcess: []engine.PostStep{engine.ZipFive()},
			},
		},
	}
}
