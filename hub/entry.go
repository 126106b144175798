// Package hub holds the bibliography entry model and the structures built
// from parsed entries: the author index and the affiliation lookup.
package hub

import (
	"sort"

	"google.golang.org/protobuf/types/known/structpb"
)

// Entry is one validated bibliography record.
// Parsers create entries; everything downstream treats them as read-only.
type Entry struct {
	// Key is the citation key (e.g., "smith2020")
	Key string

	// Type is the lowercased entry type (e.g., "article", "inproceedings")
	Type string

	Title string
	Venue string

	// Authors holds canonical "First Last" names in source order, without
	// duplicates. Never empty for a parsed entry.
	Authors []string

	Year int

	// DOI is optional and kept as written in the source.
	DOI string

	// Line is the 1-based source line of the record's "@" marker
	Line int

	// Extra holds every field the parser did not map to a typed field
	Extra *structpb.Struct
}

// CoAuthorCount returns the number of authors on the entry besides one.
func (e *Entry) CoAuthorCount() int {
	if len(e.Authors) == 0 {
		return 0
	}
	return len(e.Authors) - 1
}

// SetExtra sets an extra field value on the entry.
func SetExtra(e *Entry, key string, value any) {
	if e.Extra == nil {
		e.Extra = &structpb.Struct{
			Fields: make(map[string]*structpb.Value),
		}
	}
	v, err := structpb.NewValue(value)
	if err == nil {
		e.Extra.Fields[key] = v
	}
}

// GetExtra retrieves an extra field value.
func GetExtra(e *Entry, key string) (any, bool) {
	if e.Extra == nil || e.Extra.Fields == nil {
		return nil, false
	}
	v, ok := e.Extra.Fields[key]
	if !ok {
		return nil, false
	}
	return v.AsInterface(), true
}

// GetExtraString retrieves an extra field as a string.
func GetExtraString(e *Entry, key string) string {
	v, ok := GetExtra(e, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// ExtraKeys returns the names of the extra fields in sorted order.
func ExtraKeys(e *Entry) []string {
	if e.Extra == nil {
		return nil
	}
	keys := make([]string, 0, len(e.Extra.Fields))
	for k := range e.Extra.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
