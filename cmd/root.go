// Package cmd provides CLI commands for bibaffil.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibaffil/config"
)

var (
	configFile   string
	outputFormat string
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "bibaffil",
	Short: "Cross-reference BibTeX bibliographies with an affiliation roster",
	Long: `Bibaffil reads a BibTeX bibliography and answers questions about it:
which entries have an author from a given institution, and what a given
author has published.

Author names are matched in either "Last, First" or "First Last" form, in
the bibliography, the roster, and on the command line.

Examples:
  bibaffil search publist.bib "Smith, Alice" "Bob Jones"
  bibaffil affiliated publist.bib --roster faculty.csv --affiliation IIIT-Delhi
  bibaffil validate publist.bib`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputFormat
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func init() {
	setupLogger()
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(affiliatedCmd)
	rootCmd.AddCommand(validateCmd)
}
