// Package engine implements the single-pass type inferencer and
// per-column streaming accumulator, and finalizes accumulated state
// into an ordered stats record.
package engine

import (
	"strconv"
	"time"
	"unicode/utf8"

	"colstats/domain/field"
	"colstats/internal/config"
)

// These layout lists are tried in order for calendar parsing. Day-first and
// month-first preference only changes which of the ambiguous
// "01/02/2024"-style layouts is tried first; unambiguous layouts
// (ISO 8601, RFC3339) are always tried first regardless of
// preference.
var (
	unambiguousLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	monthFirstLayouts = []string{"01/02/2006", "01/02/2006 15:04:05"}
	dayFirstLayouts   = []string{"02/01/2006", "02/01/2006 15:04:05"}
)

// Classify implements the §4.1 type-inference contract: given a raw
// byte sample and the column's current lattice type, it returns the
// sample's own variant plus parsed numeric forms, without mutating
// the column type itself (callers merge it via field.Merge).
func Classify(raw []byte, currentType field.Type, dateInferenceEnabled bool, pref config.DatePreference) field.Sample {
	if len(raw) == 0 {
		return field.Empty
	}
	if currentType == field.String {
		return field.Sample{Type: field.String}
	}

	s := string(raw)

	if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
		if iv == 0 || s[0] != '0' {
			return field.Sample{Type: field.Integer, IntVal: iv, FloatVal: float64(iv)}
		}
		// Leading-zero non-zero integer text ("00123") preserves
		// identifier semantics (postal codes) rather than narrowing.
		return field.Sample{Type: field.String}
	}

	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		return field.Sample{Type: field.Float, FloatVal: fv}
	}

	if !dateInferenceEnabled {
		return field.Sample{Type: field.String}
	}

	if !utf8.ValidString(s) {
		return field.Sample{Type: field.String}
	}

	if t, ok := parseCalendar(s, pref); ok {
		ms := t.UnixMilli()
		typ := field.DateTime
		if ms%86400000 == 0 {
			typ = field.Date
		}
		return field.Sample{Type: typ, MillisVal: ms}
	}

	return field.Sample{Type: field.String}
}

// ParseDateMillis parses a raw date/datetime string into the same
// epoch-millisecond representation Classify assigns a Date/DateTime
// sample, for callers (the outlier and bivariate passes) that need to
// re-derive a numeric value from a column already typed as temporal.
func ParseDateMillis(s string, pref config.DatePreference) (int64, bool) {
	t, ok := parseCalendar(s, pref)
	if !ok {
		return 0, false
	}
	return t.UnixMilli(), true
}

func parseCalendar(s string, pref config.DatePreference) (time.Time, bool) {
	for _, layout := range unambiguousLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	ordered := monthFirstLayouts
	if pref == config.DayFirst {
		ordered = dayFirstLayouts
	}
	for _, layout := range ordered {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	// Fall back to trying the non-preferred ordering too, since many
	// inputs are unambiguous (e.g. day > 12) regardless of preference.
	fallback := dayFirstLayouts
	if pref == config.DayFirst {
		fallback = monthFirstLayouts
	}
	for _, layout := range fallback {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
