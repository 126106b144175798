// Package roster loads the person → affiliation roster used to decide which
// bibliography entries belong to an institution.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/bibaffil/hub"
)

// Options controls how roster rows are read.
type Options struct {
	// Header skips the first row
	Header bool

	// NameColumn and AffiliationColumn are zero-based column positions
	NameColumn        int
	AffiliationColumn int
}

// DefaultOptions returns options for a "name,affiliation" file with a header row.
func DefaultOptions() Options {
	return Options{
		Header:            true,
		NameColumn:        0,
		AffiliationColumn: 1,
	}
}

// Read parses roster CSV into ordered (name, affiliation) pairs.
// Rows too short to hold both columns, and rows with an empty name, are
// skipped. Extra columns are ignored.
func Read(r io.Reader, opts Options) ([][2]string, error) {
	if opts.NameColumn < 0 || opts.AffiliationColumn < 0 {
		return nil, fmt.Errorf("invalid roster columns: name=%d affiliation=%d", opts.NameColumn, opts.AffiliationColumn)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing roster CSV: %w", err)
	}

	if opts.Header && len(rows) > 0 {
		rows = rows[1:]
	}

	need := max(opts.NameColumn, opts.AffiliationColumn) + 1
	pairs := make([][2]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < need {
			continue
		}
		name := strings.TrimSpace(row[opts.NameColumn])
		if name == "" {
			continue
		}
		pairs = append(pairs, [2]string{name, strings.TrimSpace(row[opts.AffiliationColumn])})
	}

	return pairs, nil
}

// Load reads a roster into an affiliation lookup.
func Load(r io.Reader, opts Options) (*hub.Affiliations, error) {
	pairs, err := Read(r, opts)
	if err != nil {
		return nil, err
	}
	return hub.NewAffiliationsFromPairs(pairs), nil
}

// LoadFile reads a roster file into an affiliation lookup.
func LoadFile(path string, opts Options) (aff *hub.Affiliations, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &hub.FileUnreadableError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing roster file: %w", cerr)
		}
	}()

	aff, err = Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("loading roster %s: %w", path, err)
	}
	return aff, nil
}
