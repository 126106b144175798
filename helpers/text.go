package helpers

import (
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(`\s+`)

// Trim removes leading and trailing spaces and tabs.
// Other whitespace (newlines) is left alone.
func Trim(s string) string {
	return strings.Trim(s, " \t")
}

// StripDelimiters removes every occurrence of each character in set.
func StripDelimiters(s, set string) string {
	if s == "" || set == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(set, r) {
			return -1
		}
		return r
	}, s)
}

// CollapseWhitespace replaces runs of whitespace, including newlines, with a
// single space and trims the result.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// TruncateText shortens s to at most maxLen runes, ending in "..." and
// breaking at a word boundary when one falls in the second half.
func TruncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}
