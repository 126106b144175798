package hub

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError represents a validation finding with context.
type ValidationError struct {
	Key     string // Citation key of the entry
	Field   string // Field name (e.g., "doi")
	Code    string // Finding code (e.g., "invalid_format")
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s: %s", e.Key, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the findings for a set of entries.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns a combined error message, or nil if valid.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// ValidationOptions configures entry linting. Parsed entries already carry
// the required fields; these checks look at their content.
type ValidationOptions struct {
	// RequireKey reports entries without a citation key as errors
	RequireKey bool
	// RequireVenue warns about entries with no venue field
	RequireVenue bool
	// ValidateDOI warns about DOIs that do not look like "10.NNNN/suffix"
	ValidateDOI bool
	// MinYear and MaxYear bound plausible years; zero disables a bound
	MinYear int
	MaxYear int
}

// DefaultValidationOptions returns standard validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		RequireKey:   true,
		RequireVenue: false,
		ValidateDOI:  true,
		MinYear:      1800,
		MaxYear:      time.Now().Year() + 1,
	}
}

// Validate lints entries according to the given options. Duplicate citation
// keys are always errors.
func Validate(entries []*Entry, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{}
	seen := make(map[string]int)

	for _, e := range entries {
		if e.Key == "" {
			if opts.RequireKey {
				result.Errors = append(result.Errors, ValidationError{
					Field:   "key",
					Code:    "required",
					Message: fmt.Sprintf("entry at line %d has no citation key", e.Line),
				})
			}
		} else if first, dup := seen[e.Key]; dup {
			result.Errors = append(result.Errors, ValidationError{
				Key:     e.Key,
				Field:   "key",
				Code:    "duplicate",
				Message: fmt.Sprintf("line %d reuses the key first defined at line %d", e.Line, first),
			})
		} else {
			seen[e.Key] = e.Line
		}

		result.Warnings = append(result.Warnings, validateEntry(e, opts)...)
	}

	return result
}

func validateEntry(e *Entry, opts ValidationOptions) []ValidationError {
	var warnings []ValidationError

	if opts.RequireVenue && e.Venue == "" {
		warnings = append(warnings, ValidationError{
			Key:     e.Key,
			Field:   "venue",
			Code:    "missing",
			Message: "no venue, journal, or booktitle",
		})
	}

	if opts.ValidateDOI && e.DOI != "" && !IsValidDOI(e.DOI) {
		warnings = append(warnings, ValidationError{
			Key:     e.Key,
			Field:   "doi",
			Code:    "invalid_format",
			Message: fmt.Sprintf("%q is not a DOI", e.DOI),
		})
	}

	if (opts.MinYear > 0 && e.Year < opts.MinYear) || (opts.MaxYear > 0 && e.Year > opts.MaxYear) {
		warnings = append(warnings, ValidationError{
			Key:     e.Key,
			Field:   "year",
			Code:    "out_of_range",
			Message: fmt.Sprintf("year %d is outside %d-%d", e.Year, opts.MinYear, opts.MaxYear),
		})
	}

	for _, k := range ExtraKeys(e) {
		if strings.Contains(k, " ") {
			warnings = append(warnings, ValidationError{
				Key:     e.Key,
				Field:   k,
				Code:    "invalid_key",
				Message: "field names should not contain spaces",
			})
		}
	}

	return warnings
}

// DuplicateTitles groups the keys of entries whose titles match once case
// and spacing are ignored. Only groups of two or more are returned, ordered
// by their first key.
func DuplicateTitles(entries []*Entry) [][]string {
	byTitle := make(map[string][]string)
	for _, e := range entries {
		t := strings.ToLower(strings.Join(strings.Fields(e.Title), " "))
		if t == "" {
			continue
		}
		byTitle[t] = append(byTitle[t], e.Key)
	}

	var groups [][]string
	for _, keys := range byTitle {
		if len(keys) < 2 {
			continue
		}
		sort.Strings(keys)
		groups = append(groups, keys)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return groups
}
