package hub

import (
	"regexp"
	"strings"
)

var doiRegex = regexp.MustCompile(`^10\.\d{4,}/[^\s]+$`)

// doiPrefixes are resolver and scheme prefixes seen in front of bare DOIs.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// BareDOI strips any resolver URL or "doi:" prefix from a DOI.
func BareDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, p := range doiPrefixes {
		if strings.HasPrefix(lower, p) {
			return doi[len(p):]
		}
	}
	return doi
}

// IsValidDOI checks that a DOI, once stripped of prefixes, has the
// "10.<registrant>/<suffix>" shape.
func IsValidDOI(doi string) bool {
	return doiRegex.MatchString(BareDOI(doi))
}

// DOIURI returns the DOI as a resolvable URI, or "" for an empty DOI.
func DOIURI(doi string) string {
	bare := BareDOI(doi)
	if bare == "" {
		return ""
	}
	return "https://doi.org/" + bare
}
