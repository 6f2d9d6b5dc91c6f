package advanced

import (
	"regexp"

	"colstats/domain/field"
)

// ScanMode labels how a Gregorian specialization was detected. Infer
// applies the same range rule and string-pattern check in both modes
// to whatever sample strings the caller passes; the mode only selects
// the result's suffix (see gregorianSuffix).
type ScanMode int

const (
	FastScan ScanMode = iota
	ComprehensiveScan
)

var (
	yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearRe      = regexp.MustCompile(`^\d{4}$`)
	monthDayRe  = regexp.MustCompile(`^--\d{2}-\d{2}$`)
	dayRe       = regexp.MustCompile(`^---\d{2}$`)
	monthRe     = regexp.MustCompile(`^--\d{2}$`)
)

// integerRanges orders the narrowest-to-widest XSD integer subtypes
// by their bounded range, checked in order so the first matching
// (narrowest) type wins.
var integerRanges = []struct {
	name     string
	min, max int64
}{
	{"unsignedByte", 0, 255},
	{"unsignedShort", 0, 65535},
	{"unsignedInt", 0, 4294967295},
	{"unsignedLong", 0, 1<<63 - 1},
	{"positiveInteger", 1, 1<<63 - 1},
	{"nonNegativeInteger", 0, 1<<63 - 1},
	{"byte", -128, 127},
	{"short", -32768, 32767},
	{"int", -2147483648, 2147483647},
	{"negativeInteger", -1 << 63, -1},
	{"nonPositiveInteger", -1 << 63, 0},
	{"long", -1 << 63, 1<<63 - 1},
	{"integer", -1 << 63, 1<<63 - 1},
}

// Infer derives the most specific W3C XSD type name from the column's
// inferred lattice type, its numeric extremes, and (for the Gregorian
// specializations) sample string values at the configured scan depth.
func Infer(typ field.Type, min, max float64, sampleStrings []string, mode ScanMode) string {
	switch typ {
	case field.Null:
		return ""
	case field.Boolean:
		return "boolean"
	case field.Date:
		return "date"
	case field.DateTime:
		return "dateTime"
	case field.Float:
		return "decimal"
	case field.String:
		return "string"
	case field.Integer:
		if g, ok := gregorianFromRange(min, max); ok {
			return g + gregorianSuffix(mode)
		}
		if g, ok := gregorianFromStrings(sampleStrings); ok {
			return g + gregorianSuffix(mode)
		}
		return narrowestInteger(int64(min), int64(max))
	default:
		return "string"
	}
}

// gregorianSuffix marks a Gregorian specialization as uncertain: "??"
// under a fast scan and "?" under a comprehensive scan (both modes
// apply the range rule and the string-pattern check, and the result is
// still a narrowing from the lattice's plain Integer), so that an integer
// column of years resolves to "gYear??"/"gYear?" rather than a bare
// "gYear".
func gregorianSuffix(mode ScanMode) string {
	if mode == ComprehensiveScan {
		return "?"
	}
	return "??"
}

// gregorianFromRange implements the §4.7 fast-path rule: an integer
// column whose full observed range lies within [1000, 3000] resolves
// to gYear without any regex work.
func gregorianFromRange(min, max float64) (string, bool) {
	if min >= 1000 && max <= 3000 {
		return "gYear", true
	}
	return "", false
}

// gregorianFromStrings checks string-form samples against the
// Gregorian specialization patterns; every sample must match the same
// pattern for it to win. The caller selects which samples to pass
// (cmd/colstats passes up to the first 20 distinct values in sorted
// order, the same in either scan mode) and Infer applies the
// scan-mode suffix to the result.
func gregorianFromStrings(samples []string) (string, bool) {
	if len(samples) == 0 {
		return "", false
	}
	patterns := []struct {
		name string
		re   *regexp.Regexp
	}{
		{"gYearMonth", yearMonthRe},
		{"gYear", yearRe},
		{"gMonthDay", monthDayRe},
		{"gDay", dayRe},
		{"gMonth", monthRe},
	}
	for _, p := range patterns {
		allMatch := true
		for _, s := range samples {
			if !p.re.MatchString(s) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return p.name, true
		}
	}
	return "", false
}

func narrowestInteger(min, max int64) string {
	for _, r := range integerRanges {
		if min >= r.min && max <= r.max {
			return r.name
		}
	}
	return "integer"
}
