package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibaffil/report"
	"github.com/lehigh-university-libraries/bibaffil/roster"
)

var (
	affiliatedRoster     string
	affiliatedTarget     string
	affiliatedNoHeader   bool
	affiliatedRequireAll bool
)

var affiliatedCmd = &cobra.Command{
	Use:   "affiliated <bib-file>",
	Short: "List entries with an author from an institution",
	Long: `Split a bibliography into entries with at least one author affiliated
with the target institution and entries without one.

The roster is a CSV file of name and affiliation columns. Roster names
may be written in either "Last, First" or "First Last" order. The
affiliation comparison is exact and case-sensitive.

Roster path, columns, and target affiliation default to the values in
the config file.

Examples:
  bibaffil affiliated publist.bib --roster faculty.csv
  bibaffil affiliated publist.bib -r faculty.csv -a IIIT-Delhi -o yaml
  bibaffil affiliated publist.bib --config bibaffil.yaml --require-all`,
	Args: cobra.ExactArgs(1),
	RunE: runAffiliated,
}

func init() {
	affiliatedCmd.Flags().StringVarP(&affiliatedRoster, "roster", "r", "", "Roster CSV file (default: roster.path from config)")
	affiliatedCmd.Flags().StringVarP(&affiliatedTarget, "affiliation", "a", "", "Target affiliation (default: affiliation from config)")
	affiliatedCmd.Flags().BoolVar(&affiliatedNoHeader, "no-header", false, "Roster has no header row")
	affiliatedCmd.Flags().BoolVar(&affiliatedRequireAll, "require-all", false, "Exit non-zero if any entry has no affiliated author")
}

func runAffiliated(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rosterPath := cfg.Roster.Path
	if affiliatedRoster != "" {
		rosterPath = affiliatedRoster
	}
	if rosterPath == "" {
		return fmt.Errorf("no roster given: use --roster or set roster.path in the config file")
	}

	target := cfg.Affiliation
	if affiliatedTarget != "" {
		target = affiliatedTarget
	}
	if target == "" {
		return fmt.Errorf("no target affiliation: use --affiliation or set affiliation in the config file")
	}

	opts := roster.Options{
		Header:            cfg.Roster.Header && !affiliatedNoHeader,
		NameColumn:        cfg.Roster.NameColumn,
		AffiliationColumn: cfg.Roster.AffiliationColumn,
	}
	aff, err := roster.LoadFile(rosterPath, opts)
	if err != nil {
		return err
	}
	slog.Debug("loaded roster", "file", rosterPath, "people", aff.Len())

	c, err := loadCollection(args[0], cfg)
	if err != nil {
		return err
	}

	res := report.NewAffiliationResult(c, aff, target)
	if err := report.WriteAffiliation(cmd.OutOrStdout(), cfg.Output, res); err != nil {
		return err
	}

	if affiliatedRequireAll && len(res.Unaffiliated) > 0 {
		return fmt.Errorf("%d of %d entries have no author affiliated with %s", len(res.Unaffiliated), res.Total, target)
	}
	return nil
}
