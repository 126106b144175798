package hub

import (
	"fmt"
)

// FileUnreadableError reports an input file that could not be opened or read.
type FileUnreadableError struct {
	Path string
	Err  error
}

func (e *FileUnreadableError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileUnreadableError) Unwrap() error {
	return e.Err
}

// MalformedEntryError reports a record missing a required field.
type MalformedEntryError struct {
	Field  string // Name of the missing or unusable field (e.g., "author")
	Reason string // Optional detail; empty means the field is missing
}

func (e *MalformedEntryError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed entry: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed entry: missing %s field", e.Field)
}

// InvalidYearError reports a year value that is not a positive decimal integer.
type InvalidYearError struct {
	Raw string
}

func (e *InvalidYearError) Error() string {
	return fmt.Sprintf("invalid year %q", e.Raw)
}

// UnbalancedBracesError reports the position where brace balance was lost:
// either an unmatched "}" or the last "{" left open at end of input.
type UnbalancedBracesError struct {
	Line   int
	Column int
	Open   bool // true when a "{" was never closed
}

func (e *UnbalancedBracesError) Error() string {
	if e.Open {
		return fmt.Sprintf("unbalanced braces: unclosed '{' at line %d, column %d", e.Line, e.Column)
	}
	return fmt.Sprintf("unbalanced braces: unmatched '}' at line %d, column %d", e.Line, e.Column)
}

// InvalidLineEndingError reports the first line that ends with neither ","
// nor "}}". Violations counts every offending line in the file.
type InvalidLineEndingError struct {
	Line       int
	Violations int
}

func (e *InvalidLineEndingError) Error() string {
	if e.Violations > 1 {
		return fmt.Sprintf("line %d does not end with ',' or '}}' (%d lines in total)", e.Line, e.Violations)
	}
	return fmt.Sprintf("line %d does not end with ',' or '}}'", e.Line)
}

// NoSuchAuthorError reports an author query with no indexed entries.
type NoSuchAuthorError struct {
	Query string
}

func (e *NoSuchAuthorError) Error() string {
	return fmt.Sprintf("no publications found for author %q", e.Query)
}

// RecordError ties a record-level failure to its position in the source file.
type RecordError struct {
	Line int    // Line of the record's "@" marker
	Key  string // Citation key, when one could be read
	Err  error
}

func (e *RecordError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("record %q at line %d: %v", e.Key, e.Line, e.Err)
	}
	return fmt.Sprintf("record at line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
