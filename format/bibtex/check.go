package bibtex

import (
	"strings"

	"github.com/lehigh-university-libraries/bibaffil/format"
	"github.com/lehigh-university-libraries/bibaffil/helpers"
	"github.com/lehigh-university-libraries/bibaffil/hub"
)

// Check runs the structural checks selected in opts over raw file contents.
func (f *Format) Check(data []byte, opts *format.CheckOptions) []error {
	if opts == nil {
		opts = format.NewCheckOptions()
	}

	text := string(data)
	var errs []error
	if opts.Braces {
		if err := CheckBraces(text); err != nil {
			errs = append(errs, err)
		}
	}
	if opts.LineEndings {
		if err := CheckLineEndings(text); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// BracesBalanced reports whether every "{" in text has a matching "}".
func BracesBalanced(text string) bool {
	return CheckBraces(text) == nil
}

// CheckBraces scans text for brace balance. It returns
// *hub.UnbalancedBracesError at the first unmatched "}", or at the last "{"
// still open at end of input.
func CheckBraces(text string) error {
	type pos struct{ line, col int }

	var (
		stack []pos
		line  = 1
		col   = 0
	)
	for _, r := range text {
		col++
		switch r {
		case '\n':
			line++
			col = 0
		case '{':
			stack = append(stack, pos{line, col})
		case '}':
			if len(stack) == 0 {
				return &hub.UnbalancedBracesError{Line: line, Column: col}
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return &hub.UnbalancedBracesError{Line: top.line, Column: top.col, Open: true}
	}
	return nil
}

// LineEndingsValid reports whether every non-blank line ends with "," or "}}".
func LineEndingsValid(text string) bool {
	return CheckLineEndings(text) == nil
}

// CheckLineEndings checks that every non-blank line, trimmed of spaces and
// tabs, ends with "," or "}}". It returns *hub.InvalidLineEndingError naming
// the first offending line and the total number of offending lines.
func CheckLineEndings(text string) error {
	var result *hub.InvalidLineEndingError

	for i, line := range strings.Split(text, "\n") {
		line = helpers.Trim(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, "}}") || strings.HasSuffix(line, ",") {
			continue
		}
		if result == nil {
			result = &hub.InvalidLineEndingError{Line: i + 1}
		}
		result.Violations++
	}

	if result == nil {
		return nil
	}
	return result
}
