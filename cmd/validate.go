package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibaffil/format"
	"github.com/lehigh-university-libraries/bibaffil/helpers"
	"github.com/lehigh-university-libraries/bibaffil/hub"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate <bib-file>",
	Short: "Check a bibliography without querying it",
	Long: `Validate a BibTeX file.

Runs the brace balance and line ending checks, then parses every record
and reports each one that fails validation. Parsed entries are then
linted: duplicate citation keys fail validation, while malformed DOIs,
implausible years, and likely duplicate titles are reported as warnings.
Unlike the query commands,
every check runs regardless of the configured check modes.

Exits non-zero if any problem is found.

Examples:
  bibaffil validate publist.bib
  bibaffil validate publist.bib --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show detailed information")
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputName := args[0]
	out := cmd.OutOrStdout()

	data, err := readInputFile(inputName)
	if err != nil {
		return err
	}

	f, err := detectFormat(inputName, data)
	if err != nil {
		return err
	}
	parser, err := format.GetParser(f.Name())
	if err != nil {
		return err
	}

	var problems []error
	if checker, err := format.GetChecker(f.Name()); err == nil {
		problems = append(problems, checker.Check(data, format.NewCheckOptions())...)
	}

	entries, err := parser.Parse(bytes.NewReader(data), &format.ParseOptions{SourceName: inputName})
	if err != nil {
		problems = append(problems, unjoin(err)...)
	}

	lint := hub.Validate(entries, hub.DefaultValidationOptions())

	for _, p := range problems {
		fmt.Fprintf(out, "✗ %v\n", p)
	}
	for _, e := range lint.Errors {
		fmt.Fprintf(out, "✗ %v\n", e)
	}
	for _, w := range lint.Warnings {
		fmt.Fprintf(out, "! %v\n", w)
	}
	for _, keys := range hub.DuplicateTitles(entries) {
		fmt.Fprintf(out, "! possible duplicates: %s\n", strings.Join(keys, ", "))
	}

	var failed []error
	if len(problems) > 0 {
		failed = append(failed, fmt.Errorf("%d problem(s) in %s", len(problems), inputName))
	}
	if err := lint.Error(); err != nil {
		failed = append(failed, err)
	}
	if len(failed) > 0 {
		return errors.Join(failed...)
	}

	fmt.Fprintf(out, "✓ Valid: parsed %d records from %s\n", len(entries), inputName)

	if validateVerbose {
		fmt.Fprintln(out, "\nRecord summary:")
		for i, e := range entries {
			fmt.Fprintf(out, "\n  Record %d (%s, line %d):\n", i+1, e.Key, e.Line)
			fmt.Fprintf(out, "    Title: %s\n", helpers.TruncateText(e.Title, 60))
			names := make([]string, len(e.Authors))
			for j, a := range e.Authors {
				names[j] = helpers.FormatNameInverted(a)
			}
			fmt.Fprintf(out, "    Authors: %s\n", helpers.TruncateText(strings.Join(names, "; "), 60))
			fmt.Fprintf(out, "    Year: %d\n", e.Year)
			if e.Venue != "" {
				fmt.Fprintf(out, "    Venue: %s\n", helpers.TruncateText(e.Venue, 60))
			}
			if e.DOI != "" && !hub.IsValidDOI(e.DOI) {
				fmt.Fprintf(out, "    DOI (unrecognized): %s\n", e.DOI)
			}
			if keys := hub.ExtraKeys(e); len(keys) > 0 {
				fmt.Fprintf(out, "    Other fields: %d\n", len(keys))
			}
		}
	}

	return nil
}

// unjoin flattens an errors.Join result into its parts.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
