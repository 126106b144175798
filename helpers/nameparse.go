package helpers

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// suffixes are generational and professional name suffixes. A bare "V" is
// left out because it is far more often an initial ("Smith, V").
var suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "PhD", "Ph.D.", "MD", "M.D.", "Esq.", "Esq"}

// NormalizeName converts a personal name to the canonical "First Last" form
// used as the identity key for authors.
//
// A name containing a comma is read in one of the BibTeX inverted forms:
//
//	"Last, First"          -> "First Last"
//	"Last, Suffix, First"  -> "First Last Suffix"
//	"Last, First, Suffix"  -> "First Last Suffix"
//	"First Last, Suffix"   -> "First Last Suffix"
//
// A name without a comma is assumed to already be in "First Last" order and
// comes back unchanged. The result never contains a comma, so normalizing a
// canonical name is a no-op. It is in Unicode NFC so that precomposed and
// combining spellings of the same name compare equal.
func NormalizeName(name string) string {
	if !IsInvertedName(name) {
		return norm.NFC.String(name)
	}

	var parts []string
	for _, p := range strings.Split(name, ",") {
		if p = Trim(p); p != "" {
			parts = append(parts, p)
		}
	}

	var family, given, suffix string
	switch n := len(parts); {
	case n == 0:
		return ""
	case n == 1:
		family = parts[0]
	case n == 2 && isSuffix(parts[1]):
		given, suffix = parts[0], parts[1]
	case n == 2:
		family, given = parts[0], parts[1]
	case isSuffix(parts[n-1]) && !isSuffix(parts[1]):
		family, suffix = parts[0], parts[n-1]
		given = strings.Join(parts[1:n-1], " ")
	default:
		family, suffix = parts[0], parts[1]
		given = strings.Join(parts[2:], " ")
	}

	return norm.NFC.String(joinNonEmpty(given, family, suffix))
}

func isSuffix(word string) bool {
	for _, s := range suffixes {
		if strings.EqualFold(word, s) {
			return true
		}
	}
	return false
}

func joinNonEmpty(words ...string) string {
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

// IsInvertedName checks if a name appears to be in "Last, First" format.
func IsInvertedName(name string) bool {
	return strings.Contains(name, ",")
}

// FormatNameInverted formats a canonical "First Last" name as "Last, First",
// or "Last, First, Suffix" when the name ends in a suffix. The family name is
// taken to be the final word before any suffix.
func FormatNameInverted(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || IsInvertedName(name) {
		return name
	}
	parts := strings.Fields(name)

	var suffix string
	if len(parts) > 2 && isSuffix(parts[len(parts)-1]) {
		suffix = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 1 {
		return parts[0]
	}

	inverted := parts[len(parts)-1] + ", " + strings.Join(parts[:len(parts)-1], " ")
	if suffix != "" {
		inverted += ", " + suffix
	}
	return inverted
}

// SplitAuthors splits a BibTeX name list on the conjunction "and".
// The conjunction is matched as a whole word in any case, and only outside
// braces, so "{Barnes and Noble}" stays one name. Whitespace inside each
// name is collapsed.
func SplitAuthors(field string) []string {
	var (
		names []string
		cur   []string
		depth int
	)

	flush := func() {
		if len(cur) > 0 {
			names = append(names, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}

	for _, word := range strings.Fields(field) {
		if depth == 0 && strings.EqualFold(word, "and") {
			flush()
			continue
		}
		cur = append(cur, word)
		depth += strings.Count(word, "{") - strings.Count(word, "}")
		if depth < 0 {
			depth = 0
		}
	}
	flush()

	return names
}
