package hub

import (
	"sort"

	"github.com/lehigh-university-libraries/bibaffil/helpers"
)

// Affiliations is a read-only person → affiliation lookup.
// Names are stored under their canonical form so that a roster written as
// "Smith, Alice" matches a citation author "Alice Smith".
type Affiliations struct {
	byName map[string]string
}

// NewAffiliations builds a lookup from roster names to affiliations.
// When two roster names normalize to the same person, the one that sorts
// first wins.
func NewAffiliations(roster map[string]string) *Affiliations {
	a := &Affiliations{
		byName: make(map[string]string, len(roster)),
	}
	names := make([]string, 0, len(roster))
	for name := range roster {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a.add(name, roster[name])
	}
	return a
}

// NewAffiliationsFromPairs builds a lookup from ordered (name, affiliation)
// pairs, keeping the first affiliation seen for each person.
func NewAffiliationsFromPairs(pairs [][2]string) *Affiliations {
	a := &Affiliations{
		byName: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		a.add(p[0], p[1])
	}
	return a
}

func (a *Affiliations) add(name, affiliation string) {
	key := helpers.NormalizeName(helpers.Trim(name))
	if key == "" {
		return
	}
	if _, exists := a.byName[key]; exists {
		return
	}
	a.byName[key] = helpers.Trim(affiliation)
}

// Lookup returns the affiliation recorded for a person, in either name order.
func (a *Affiliations) Lookup(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	aff, ok := a.byName[helpers.NormalizeName(helpers.Trim(name))]
	return aff, ok
}

// Len returns the number of people in the lookup.
func (a *Affiliations) Len() int {
	if a == nil {
		return 0
	}
	return len(a.byName)
}

// HasQualifyingAuthor reports whether at least one author on the entry is
// affiliated with target. Matching is exact and case-sensitive; authors
// missing from the lookup have no affiliation.
func HasQualifyingAuthor(e *Entry, a *Affiliations, target string) bool {
	for _, author := range e.Authors {
		if aff, ok := a.Lookup(author); ok && aff == target {
			return true
		}
	}
	return false
}

// QualifyingAuthors returns the entry's authors affiliated with target.
func QualifyingAuthors(e *Entry, a *Affiliations, target string) []string {
	var out []string
	for _, author := range e.Authors {
		if aff, ok := a.Lookup(author); ok && aff == target {
			out = append(out, author)
		}
	}
	return out
}
