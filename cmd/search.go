package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibaffil/report"
)

var searchCmd = &cobra.Command{
	Use:   "search <bib-file> <author>...",
	Short: "List an author's publications",
	Long: `List the publications of one or more authors and the average number
of co-authors per paper.

Names may be given as "Last, First" or "First Last"; both forms find the
same author. An author with no publications is reported, not treated as
an error.

Examples:
  bibaffil search publist.bib "Smith, Alice"
  bibaffil search publist.bib "Alice Smith" "Bob Jones" -o json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c, err := loadCollection(args[0], cfg)
	if err != nil {
		return err
	}

	results := make([]report.AuthorResult, 0, len(args)-1)
	for _, query := range args[1:] {
		r, err := report.NewAuthorResult(c.Index, query)
		if err != nil {
			return fmt.Errorf("searching for %q: %w", query, err)
		}
		results = append(results, r)
	}

	return report.WriteAuthors(cmd.OutOrStdout(), cfg.Output, results)
}
