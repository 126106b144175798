package bibtex

import (
	"strings"
)

// Block is the raw text of one record: the "@" line and every line up to
// the next "@" line or end of input.
type Block struct {
	Line int    // 1-based line number of the "@" marker
	Text string // Raw lines joined with "\n", marker line included
}

// ExtractRecords splits file text into record blocks. A record starts on a
// line whose first character is "@". Text before the first record is
// ignored. Windows line endings are accepted.
func ExtractRecords(text string) []Block {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")

	var (
		blocks []Block
		cur    []string
		start  int
	)

	flush := func() {
		if cur != nil {
			blocks = append(blocks, Block{Line: start, Text: strings.Join(cur, "\n")})
		}
	}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "@") {
			flush()
			cur = []string{line}
			start = i + 1
			continue
		}
		if cur != nil {
			cur = append(cur, line)
		}
	}
	flush()

	return blocks
}
