package bibtex

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/bibaffil/format"
	"github.com/lehigh-university-libraries/bibaffil/helpers"
	"github.com/lehigh-university-libraries/bibaffil/hub"
)

// requiredFields are checked in this order; the first missing one is reported.
var requiredFields = []string{"author", "title", "year"}

// venueFields are tried in order for the publication venue.
var venueFields = []string{"venue", "journal", "booktitle", "publisher", "school", "institution"}

// nonEntryTypes are BibTeX blocks that carry no bibliographic record.
var nonEntryTypes = map[string]bool{
	"comment":  true,
	"string":   true,
	"preamble": true,
}

// Parse reads BibTeX and returns the entries that passed validation.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Entry, error) {
	if opts == nil {
		opts = format.NewParseOptions()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading BibTeX: %w", err)
	}

	return ParseString(string(data), opts)
}

// ParseString parses BibTeX text. Unless opts.Strict is set, every record
// that fails validation is reported in the returned error (one
// *hub.RecordError per record, joined) and parsing continues.
func ParseString(text string, opts *format.ParseOptions) ([]*hub.Entry, error) {
	if opts == nil {
		opts = format.NewParseOptions()
	}

	var (
		entries []*hub.Entry
		errs    []error
	)

	for _, block := range ExtractRecords(text) {
		entry, key, err := parseBlock(block)
		if err != nil {
			recErr := &hub.RecordError{Line: block.Line, Key: key, Err: err}
			if opts.Strict {
				return entries, recErr
			}
			slog.Warn("skipping record", "source", opts.SourceName, "line", block.Line, "key", key, "err", err)
			errs = append(errs, recErr)
			continue
		}
		if entry == nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, errors.Join(errs...)
}

// ParseEntry parses one record block into a validated entry.
// Blocks that carry no record (@comment, @string, @preamble) return a nil
// entry and a nil error.
func ParseEntry(b Block) (*hub.Entry, error) {
	entry, _, err := parseBlock(b)
	return entry, err
}

func parseBlock(b Block) (*hub.Entry, string, error) {
	s := newScanner(b.Text)

	h, err := s.readHeader()
	if err != nil {
		return nil, "", err
	}
	if nonEntryTypes[h.Type] {
		slog.Debug("skipping non-entry block", "type", h.Type, "line", b.Line)
		return nil, h.Key, nil
	}

	fields, err := s.readFields()
	if err != nil {
		return nil, h.Key, err
	}

	values := make(map[string]string, len(fields))
	for _, fd := range fields {
		values[fd.Name] = fd.Value
	}
	for _, name := range requiredFields {
		if _, ok := values[name]; !ok {
			return nil, h.Key, &hub.MalformedEntryError{Field: name}
		}
	}

	entry := &hub.Entry{
		Key:   h.Key,
		Type:  h.Type,
		Title: helpers.CollapseWhitespace(values["title"]),
		DOI:   strings.TrimSpace(values["doi"]),
		Line:  b.Line,
	}

	var venueField string
	for _, name := range venueFields {
		if v, ok := values[name]; ok {
			entry.Venue = helpers.CollapseWhitespace(v)
			venueField = name
			break
		}
	}

	entry.Authors = parseAuthors(values["author"], b.Line)
	if len(entry.Authors) == 0 {
		return nil, h.Key, &hub.MalformedEntryError{Field: "author", Reason: "no author names"}
	}

	entry.Year, err = parseYear(values["year"])
	if err != nil {
		return nil, h.Key, err
	}

	for _, fd := range fields {
		if fd.Name == venueField || isMappedField(fd.Name) {
			continue
		}
		hub.SetExtra(entry, fd.Name, helpers.CollapseWhitespace(fd.Value))
	}

	return entry, h.Key, nil
}

// parseAuthors splits an author value into canonical names, keeping the
// first occurrence of each name. A trailing "and others" marks a truncated
// list and is not an author.
func parseAuthors(value string, line int) []string {
	var (
		authors []string
		seen    = make(map[string]bool)
	)
	raws := helpers.SplitAuthors(value)
	if n := len(raws); n > 1 && strings.EqualFold(raws[n-1], "others") {
		slog.Debug("dropping \"and others\"", "line", line)
		raws = raws[:n-1]
	}
	for _, raw := range raws {
		name := helpers.NormalizeName(helpers.Trim(helpers.StripDelimiters(raw, "{}")))
		if name == "" {
			continue
		}
		slog.Debug("normalized author", "raw", raw, "name", name, "line", line)
		if seen[name] {
			continue
		}
		seen[name] = true
		authors = append(authors, name)
	}
	return authors
}

// parseYear accepts only positive decimal integers once surrounding
// whitespace, "=", and braces are trimmed.
func parseYear(value string) (int, error) {
	raw := strings.Trim(value, " \t\r\n={}")
	if !helpers.IsDigits(raw) {
		return 0, &hub.InvalidYearError{Raw: raw}
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, &hub.InvalidYearError{Raw: raw}
	}
	return year, nil
}

func isMappedField(name string) bool {
	switch name {
	case "author", "title", "year", "doi":
		return true
	}
	return false
}
