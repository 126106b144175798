// Package format defines the interface for bibliography format plugins.
package format

import (
	"io"

	"github.com/lehigh-university-libraries/bibaffil/hub"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "bibtex")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can parse input into entries.
type Parser interface {
	Format

	// Parse reads input and returns the entries that passed validation.
	// Record-level failures are returned as the error alongside the good
	// entries unless opts.Strict is set.
	Parse(r io.Reader, opts *ParseOptions) ([]*hub.Entry, error)
}

// Checker is a format that can validate raw input structure before parsing.
type Checker interface {
	Format

	// Check runs the format's structural checks over the whole input.
	Check(data []byte, opts *CheckOptions) []error
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// Strict stops at the first record that fails validation
	Strict bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// CheckOptions selects which structural checks to run.
type CheckOptions struct {
	Braces      bool
	LineEndings bool
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{}
}

// NewCheckOptions creates CheckOptions with every check enabled.
func NewCheckOptions() *CheckOptions {
	return &CheckOptions{
		Braces:      true,
		LineEndings: true,
	}
}
