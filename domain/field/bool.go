package field

import "strings"

// BoolPattern is a pair of literal strings that, compared
// case-insensitively, represent the canonical true/false spellings for
// boolean narrowing (e.g. "true"/"false", "1"/"0", "yes"/"no"). Columns
// are only narrowed to Boolean post-hoc, once cardinality is exactly
// two and both distinct values match one side of some configured
// pattern.
type BoolPattern struct {
	True  string
	False string
}

// DefaultBoolPatterns mirrors the common textual encodings of a binary
// flag column; callers may replace this list from configuration.
var DefaultBoolPatterns = []BoolPattern{
	{True: "true", False: "false"},
	{True: "1", False: "0"},
	{True: "yes", False: "no"},
	{True: "t", False: "f"},
	{True: "y", False: "n"},
}

// MatchesBoolean reports whether the two distinct observed values of a
// cardinality-2 column satisfy any configured pattern, in either
// order.
func MatchesBoolean(a, b string, patterns []BoolPattern) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	for _, p := range patterns {
		pt, pf := strings.ToLower(p.True), strings.ToLower(p.False)
		if (la == pt && lb == pf) || (la == pf && lb == pt) {
			return true
		}
	}
	return false
}

// ParseBoolPattern parses a "true:false" configuration string into a
// BoolPattern, returning false when the pattern is malformed (the
// caller surfaces that as a usage error).
func ParseBoolPattern(spec string) (BoolPattern, bool) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return BoolPattern{}, false
	}
	return BoolPattern{True: parts[0], False: parts[1]}, true
}
