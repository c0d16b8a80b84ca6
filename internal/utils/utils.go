package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// LeadingInt parses the run of decimal digits at the start of s.
// "12u" gives 12, "5, \"\"..., 10)" gives 5.
func LeadingInt(s string) (int, bool) {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}

// ParseNonNegative parses s as a whole non-negative integer, as printed for
// a successful return value.
func ParseNonNegative(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

// ParsePid parses a task tag field such as "1234]" or "1234:".
func ParsePid(s string) (int, bool) {
	s = strings.TrimRightFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	return ParseNonNegative(s)
}

// QuotedArg returns the content of the first double-quoted string in s.
// Escaped quotes are kept as printed.
func QuotedArg(s string) (string, bool) {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return "", false
	}
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return s[start+1 : i], true
		}
	}

	return "", false
}

// TrimTiming strips the angle brackets around a call duration like "<0.000021>".
func TrimTiming(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}
