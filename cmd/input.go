package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/bibaffil/config"
	"github.com/lehigh-university-libraries/bibaffil/format"
	"github.com/lehigh-university-libraries/bibaffil/hub"

	// Register format plugins
	_ "github.com/lehigh-university-libraries/bibaffil/format/bibtex"
)

const (
	peekSize = 4096

	// fallbackFormat is used when neither extension nor content identifies
	// the input, so an empty file parses to zero records.
	fallbackFormat = "bibtex"
)

// readInputFile reads a whole file, closing it before returning.
func readInputFile(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &hub.FileUnreadableError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input file: %w", cerr)
		}
	}()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, &hub.FileUnreadableError{Path: path, Err: err}
	}
	return data, nil
}

// detectFormat picks the format of a file by extension, then by content,
// then falls back to BibTeX.
func detectFormat(path string, data []byte) (format.Format, error) {
	peek := data
	if len(peek) > peekSize {
		peek = peek[:peekSize]
	}
	f, err := format.DetectFormat(path, peek)
	if err == nil {
		return f, nil
	}

	slog.Debug("format not detected, assuming BibTeX", "file", path, "err", err)
	f, ok := format.Get(fallbackFormat)
	if !ok {
		return nil, fmt.Errorf("detecting format: %w", err)
	}
	return f, nil
}

// runChecks applies the configured structural checks. Checks in error mode
// fail the run; checks in warn mode are logged.
func runChecks(f format.Format, path string, data []byte, cfg *config.Config) error {
	checker, err := format.GetChecker(f.Name())
	if err != nil {
		slog.Debug("no structural checks", "format", f.Name())
		return nil
	}

	modes := []struct {
		mode config.CheckMode
		opts *format.CheckOptions
	}{
		{cfg.Checks.Braces, &format.CheckOptions{Braces: true}},
		{cfg.Checks.LineEndings, &format.CheckOptions{LineEndings: true}},
	}

	var fatal []error
	for _, m := range modes {
		if !m.mode.Enabled() {
			continue
		}
		for _, err := range checker.Check(data, m.opts) {
			if m.mode == config.CheckError {
				fatal = append(fatal, err)
				continue
			}
			slog.Warn("structural check failed", "file", path, "err", err)
		}
	}

	if len(fatal) > 0 {
		return fmt.Errorf("checking %s: %w", path, errors.Join(fatal...))
	}
	return nil
}

// loadCollection reads, checks, and parses a bibliography file.
// Records that fail validation are logged and left out unless the config
// asks for strict parsing.
func loadCollection(path string, cfg *config.Config) (*hub.Collection, error) {
	data, err := readInputFile(path)
	if err != nil {
		return nil, err
	}

	f, err := detectFormat(path, data)
	if err != nil {
		return nil, err
	}
	parser, err := format.GetParser(f.Name())
	if err != nil {
		return nil, err
	}

	if err := runChecks(f, path, data, cfg); err != nil {
		return nil, err
	}

	opts := &format.ParseOptions{
		Strict:     cfg.Parse.Strict,
		SourceName: path,
	}
	entries, err := parser.Parse(bytes.NewReader(data), opts)
	if err != nil {
		if cfg.Parse.Strict {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		slog.Warn("some records were skipped", "file", path, "parsed", len(entries))
	}

	c := hub.NewCollection()
	c.AddAll(entries)
	slog.Debug("loaded bibliography", "file", path, "entries", c.Len(), "authors", c.Index.Len())
	return c, nil
}
