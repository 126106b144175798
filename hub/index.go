package hub

import (
	"sort"

	"github.com/lehigh-university-libraries/bibaffil/helpers"
)

// AuthorIndex maps canonical author names to the entries they appear on,
// in insertion order.
type AuthorIndex struct {
	buckets map[string][]*Entry
}

// NewAuthorIndex creates an empty index.
func NewAuthorIndex() *AuthorIndex {
	return &AuthorIndex{
		buckets: make(map[string][]*Entry),
	}
}

// Insert appends the entry to the bucket of every author listed on it.
// Entry author lists are de-duplicated by the parser, so each insertion adds
// the entry once per author.
func (x *AuthorIndex) Insert(e *Entry) {
	for _, author := range e.Authors {
		x.buckets[author] = append(x.buckets[author], e)
	}
}

// Lookup returns the entries for an author, oldest insertion first.
// The query may be written "Last, First" or "First Last".
// The returned slice must not be modified.
func (x *AuthorIndex) Lookup(name string) []*Entry {
	return x.buckets[helpers.NormalizeName(helpers.Trim(name))]
}

// AverageCoAuthorCount returns the mean number of co-authors across the
// author's entries. An author with no entries yields *NoSuchAuthorError.
func (x *AuthorIndex) AverageCoAuthorCount(name string) (float64, error) {
	entries := x.Lookup(name)
	if len(entries) == 0 {
		return 0, &NoSuchAuthorError{Query: name}
	}

	total := 0
	for _, e := range entries {
		total += e.CoAuthorCount()
	}
	return float64(total) / float64(len(entries)), nil
}

// Authors returns every indexed canonical name in sorted order.
func (x *AuthorIndex) Authors() []string {
	names := make([]string, 0, len(x.buckets))
	for name := range x.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct authors.
func (x *AuthorIndex) Len() int {
	return len(x.buckets)
}
