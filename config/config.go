// Package config provides the run configuration for bibaffil.
package config

import (
	"fmt"
	"strings"
)

// CheckMode decides what a failed structural check does.
type CheckMode string

const (
	// CheckError reports the failure and stops before parsing
	CheckError CheckMode = "error"
	// CheckWarn logs the failure and parses anyway
	CheckWarn CheckMode = "warn"
	// CheckOff skips the check
	CheckOff CheckMode = "off"
)

// Config is the complete run configuration.
type Config struct {
	// Affiliation is the institution entries are checked against (e.g., "IIIT-Delhi")
	Affiliation string `yaml:"affiliation"`

	// Roster describes the person → affiliation file
	Roster RosterConfig `yaml:"roster"`

	// Checks configures the structural checks run before parsing
	Checks ChecksConfig `yaml:"checks"`

	// Parse configures the BibTeX parser
	Parse ParseConfig `yaml:"parse"`

	// Output is the report format: text, json, or yaml
	Output string `yaml:"output"`
}

// RosterConfig describes the roster CSV.
type RosterConfig struct {
	Path              string `yaml:"path"`
	Header            bool   `yaml:"header"`
	NameColumn        int    `yaml:"name_column"`
	AffiliationColumn int    `yaml:"affiliation_column"`
}

// ChecksConfig sets the mode of each structural check.
type ChecksConfig struct {
	Braces      CheckMode `yaml:"braces"`
	LineEndings CheckMode `yaml:"line_endings"`
}

// ParseConfig holds parser options.
type ParseConfig struct {
	// Strict stops at the first invalid record instead of skipping it
	Strict bool `yaml:"strict"`
}

// Validate checks that enumerated settings hold known values and puts them
// in canonical lowercase form.
func (c *Config) Validate() error {
	var err error
	if c.Checks.Braces, err = ParseCheckMode(string(c.Checks.Braces)); err != nil {
		return fmt.Errorf("checks.braces: %w", err)
	}
	if c.Checks.LineEndings, err = ParseCheckMode(string(c.Checks.LineEndings)); err != nil {
		return fmt.Errorf("checks.line_endings: %w", err)
	}

	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	switch c.Output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output: unknown format %q (want text, json, or yaml)", c.Output)
	}

	if c.Roster.NameColumn < 0 || c.Roster.AffiliationColumn < 0 {
		return fmt.Errorf("roster: columns must not be negative")
	}
	if c.Roster.NameColumn == c.Roster.AffiliationColumn {
		return fmt.Errorf("roster: name_column and affiliation_column are both %d", c.Roster.NameColumn)
	}

	return nil
}

// ParseCheckMode parses a check mode name, case-insensitively.
func ParseCheckMode(s string) (CheckMode, error) {
	switch m := CheckMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CheckError, CheckWarn, CheckOff:
		return m, nil
	}
	return "", fmt.Errorf("unknown check mode %q (want error, warn, or off)", s)
}

// Enabled reports whether the check should run at all.
func (m CheckMode) Enabled() bool {
	return m != CheckOff
}
