// Package report builds and renders query results for the CLI.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibaffil/helpers"
	"github.com/lehigh-university-libraries/bibaffil/hub"
)

// Output formats.
const (
	Text = "text"
	JSON = "json"
	YAML = "yaml"
)

// EntrySummary is the rendered form of one entry.
type EntrySummary struct {
	Key     string         `yaml:"key,omitempty"`
	Type    string         `yaml:"type,omitempty"`
	Title   string         `yaml:"title"`
	Venue   string         `yaml:"venue,omitempty"`
	Authors []string       `yaml:"authors"`
	Year    int            `yaml:"year"`
	DOI     string         `yaml:"doi,omitempty"`
	Line    int            `yaml:"line"`
	Extra   map[string]any `yaml:"extra,omitempty"`
}

// AuthorResult is the answer to one author query.
type AuthorResult struct {
	Query            string         `yaml:"query"`
	Name             string         `yaml:"name"`
	Found            bool           `yaml:"found"`
	Entries          []EntrySummary `yaml:"entries"`
	AverageCoAuthors float64        `yaml:"average_co_authors"`
}

// Match is an entry with the authors that qualified it.
type Match struct {
	Entry   EntrySummary `yaml:"entry"`
	Authors []string     `yaml:"qualifying_authors"`
}

// AffiliationResult splits a collection by institutional affiliation.
type AffiliationResult struct {
	Affiliation  string         `yaml:"affiliation"`
	Total        int            `yaml:"total"`
	Matching     []Match        `yaml:"matching"`
	Unaffiliated []EntrySummary `yaml:"unaffiliated"`
}

// Summarize converts an entry to its rendered form.
func Summarize(e *hub.Entry) EntrySummary {
	s := EntrySummary{
		Key:     e.Key,
		Type:    e.Type,
		Title:   e.Title,
		Venue:   e.Venue,
		Authors: append([]string(nil), e.Authors...),
		Year:    e.Year,
		DOI:     e.DOI,
		Line:    e.Line,
	}
	if keys := hub.ExtraKeys(e); len(keys) > 0 {
		s.Extra = make(map[string]any, len(keys))
		for _, k := range keys {
			s.Extra[k], _ = hub.GetExtra(e, k)
		}
	}
	return s
}

// NewAuthorResult looks an author up in the index. An unknown author gives a
// result with Found false, never an error.
func NewAuthorResult(idx *hub.AuthorIndex, query string) (AuthorResult, error) {
	res := AuthorResult{
		Query:   query,
		Entries: []EntrySummary{},
	}

	avg, err := idx.AverageCoAuthorCount(query)
	var nsa *hub.NoSuchAuthorError
	switch {
	case errors.As(err, &nsa):
		return res, nil
	case err != nil:
		return res, err
	}

	entries := idx.Lookup(query)
	res.Found = true
	res.Name = helpers.NormalizeName(helpers.Trim(query))
	res.AverageCoAuthors = avg
	for _, e := range entries {
		res.Entries = append(res.Entries, Summarize(e))
	}
	return res, nil
}

// NewAffiliationResult checks every entry in the collection against target.
func NewAffiliationResult(c *hub.Collection, aff *hub.Affiliations, target string) AffiliationResult {
	res := AffiliationResult{
		Affiliation:  target,
		Total:        c.Len(),
		Matching:     []Match{},
		Unaffiliated: []EntrySummary{},
	}

	matching, other := c.Affiliated(aff, target)
	for _, e := range matching {
		res.Matching = append(res.Matching, Match{
			Entry:   Summarize(e),
			Authors: hub.QualifyingAuthors(e, aff, target),
		})
	}
	for _, e := range other {
		res.Unaffiliated = append(res.Unaffiliated, Summarize(e))
	}
	return res
}

// WriteAuthors renders author results in the given format.
func WriteAuthors(w io.Writer, format string, results []AuthorResult) error {
	switch format {
	case Text, "":
		for i, r := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := writeAuthorText(w, r); err != nil {
				return err
			}
		}
		return nil
	case JSON:
		items := make([]any, 0, len(results))
		for _, r := range results {
			items = append(items, authorMap(r))
		}
		return writeJSON(w, map[string]any{"results": items})
	case YAML:
		return writeYAML(w, map[string]any{"results": results})
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteAffiliation renders an affiliation result in the given format.
func WriteAffiliation(w io.Writer, format string, r AffiliationResult) error {
	switch format {
	case Text, "":
		return writeAffiliationText(w, r)
	case JSON:
		return writeJSON(w, affiliationMap(r))
	case YAML:
		return writeYAML(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeAuthorText(w io.Writer, r AuthorResult) error {
	var b strings.Builder
	if !r.Found {
		fmt.Fprintf(&b, "No publications found for author: %s\n", r.Query)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Publications by %s:\n", r.Query)
	for _, e := range r.Entries {
		b.WriteString("- ")
		b.WriteString(entryLine(e))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Average co-authors per paper: %.2f\n", r.AverageCoAuthors)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAffiliationText(w io.Writer, r AffiliationResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Entries with an author affiliated with %s: %d of %d\n", r.Affiliation, len(r.Matching), r.Total)
	for _, m := range r.Matching {
		fmt.Fprintf(&b, "- %s\n    affiliated: %s\n", entryLine(m.Entry), strings.Join(m.Authors, "; "))
	}
	if len(r.Unaffiliated) > 0 {
		fmt.Fprintf(&b, "\nEntries without an author affiliated with %s: %d\n", r.Affiliation, len(r.Unaffiliated))
		for _, e := range r.Unaffiliated {
			fmt.Fprintf(&b, "- %s\n", entryLine(e))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// entryLine renders "Title (Year) in Venue | DOI: x".
func entryLine(e EntrySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)", e.Title, e.Year)
	if e.Venue != "" {
		fmt.Fprintf(&b, " in %s", e.Venue)
	}
	if e.DOI != "" {
		fmt.Fprintf(&b, " | DOI: %s", e.DOI)
	}
	return b.String()
}

// writeJSON renders a generic value tree through structpb so the output
// follows protobuf JSON conventions.
func writeJSON(w io.Writer, v map[string]any) error {
	st, err := structpb.NewStruct(v)
	if err != nil {
		return fmt.Errorf("building JSON report: %w", err)
	}
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling JSON report: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML report: %w", err)
	}
	return enc.Close()
}

func entryMap(e EntrySummary) map[string]any {
	m := map[string]any{
		"key":     e.Key,
		"type":    e.Type,
		"title":   e.Title,
		"venue":   e.Venue,
		"authors": stringsToAny(e.Authors),
		"year":    e.Year,
		"line":    e.Line,
	}
	if e.DOI != "" {
		m["doi"] = e.DOI
		m["doi_uri"] = hub.DOIURI(e.DOI)
	}
	if len(e.Extra) > 0 {
		m["extra"] = e.Extra
	}
	return m
}

func authorMap(r AuthorResult) map[string]any {
	entries := make([]any, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, entryMap(e))
	}
	m := map[string]any{
		"query":   r.Query,
		"found":   r.Found,
		"entries": entries,
	}
	if r.Found {
		m["name"] = r.Name
		m["average_co_authors"] = r.AverageCoAuthors
	}
	return m
}

func affiliationMap(r AffiliationResult) map[string]any {
	matching := make([]any, 0, len(r.Matching))
	for _, mt := range r.Matching {
		matching = append(matching, map[string]any{
			"entry":              entryMap(mt.Entry),
			"qualifying_authors": stringsToAny(mt.Authors),
		})
	}
	other := make([]any, 0, len(r.Unaffiliated))
	for _, e := range r.Unaffiliated {
		other = append(other, entryMap(e))
	}
	return map[string]any{
		"affiliation":  r.Affiliation,
		"total":        r.Total,
		"matching":     matching,
		"unaffiliated": other,
	}
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
