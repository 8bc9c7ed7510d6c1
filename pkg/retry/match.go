package retry

import (
	"regexp"
	"strings"
)

// Match-mode prefixes recognized by MatchesExpected. Precedence is
// prefix-based and mutually exclusive; the first matching prefix wins.
const (
	matchPrefixRegex     = "regex:"
	matchPrefixEquals    = "equals:"
	matchPrefixIContains = "icontains:"
)

// MatchesExpected reports whether an actual text or attribute value
// satisfies the expected value under its match mode:
//
//   - blank expected value: actual must be non-blank
//   - "regex:<pattern>": trimmed actual must match the pattern, which
//     carries its own anchors
//   - "equals:<value>": trimmed actual must equal the trimmed value
//   - "icontains:<value>": actual must contain the trimmed value, case-folded
//   - anything else: actual must be non-blank and contain the expected
//     value as a case-sensitive substring
func MatchesExpected(actual, expected string) bool {
	if strings.TrimSpace(expected) == "" {
		return strings.TrimSpace(actual) != ""
	}

	switch {
	case strings.HasPrefix(expected, matchPrefixRegex):
		pattern := strings.TrimSpace(strings.TrimPrefix(expected, matchPrefixRegex))
		if strings.TrimSpace(actual) == "" {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(strings.TrimSpace(actual))

	case strings.HasPrefix(expected, matchPrefixEquals):
		want := strings.TrimSpace(strings.TrimPrefix(expected, matchPrefixEquals))
		return strings.TrimSpace(actual) == want

	case strings.HasPrefix(expected, matchPrefixIContains):
		want := strings.TrimSpace(strings.TrimPrefix(expected, matchPrefixIContains))
		return strings.Contains(strings.ToLower(actual), strings.ToLower(want))
	}

	return strings.TrimSpace(actual) != "" && strings.Contains(actual, expected)
}
