package bibtex

import (
	"strings"

	"github.com/lehigh-university-libraries/bibaffil/hub"
)

// field is one "name = value" pair read from a record.
type field struct {
	Name  string // Lowercased keyword
	Value string // Value with its outer delimiters removed
}

// header is the "@type{key," prefix of a record.
type header struct {
	Type string // Lowercased entry type
	Key  string
}

type scanState int

const (
	stateSeekKeyword scanState = iota
	stateSeekOpenBrace
	stateAccumulateValue
	stateDone
)

// scanner walks one record block. Field values are read by a small state
// machine: find a keyword, find "=" and the opening delimiter, accumulate
// the value up to its matching close, repeat until the record closes.
type scanner struct {
	src   string
	pos   int
	state scanState
	close byte // Delimiter that ends the record: '}' or ')'
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.pos++
	}
}

// readHeader consumes "@type{key," and leaves the scanner at the first field.
// A record without a citation key ("@misc{title = ...}") yields an empty Key.
func (s *scanner) readHeader() (header, error) {
	var h header

	at := strings.IndexByte(s.src, '@')
	if at < 0 {
		return h, &hub.MalformedEntryError{Field: "type", Reason: "missing '@' marker"}
	}
	s.pos = at + 1

	start := s.pos
	for !s.eof() && isIdentByte(s.peek()) {
		s.pos++
	}
	h.Type = strings.ToLower(s.src[start:s.pos])
	if h.Type == "" {
		return h, &hub.MalformedEntryError{Field: "type", Reason: "missing entry type"}
	}

	s.skipSpace()
	if s.eof() || (s.peek() != '{' && s.peek() != '(') {
		return h, &hub.MalformedEntryError{Field: "type", Reason: "missing opening brace"}
	}
	if s.peek() == '{' {
		s.close = '}'
	} else {
		s.close = ')'
	}
	s.pos++

	// The key runs to the first comma. If an "=" shows up first there is no
	// key and the text belongs to the first field.
	rest := s.src[s.pos:]
	comma := strings.IndexByte(rest, ',')
	eq := strings.IndexByte(rest, '=')
	switch {
	case comma >= 0 && (eq < 0 || comma < eq):
		h.Key = strings.TrimSpace(rest[:comma])
		s.pos += comma + 1
	case comma < 0 && eq < 0:
		// "@misc{key}" has a key and no fields
		end := strings.IndexByte(rest, s.close)
		if end < 0 {
			end = len(rest)
		}
		h.Key = strings.TrimSpace(rest[:end])
		s.pos += end
	}

	return h, nil
}

// readFields consumes the remaining fields. The first occurrence of a
// keyword wins; later duplicates are ignored.
func (s *scanner) readFields() ([]field, error) {
	var (
		fields []field
		seen   = make(map[string]bool)
		name   string
		open   byte
	)

	s.state = stateSeekKeyword
	for s.state != stateDone {
		switch s.state {
		case stateSeekKeyword:
			for !s.eof() && (isSpace(s.peek()) || s.peek() == ',') {
				s.pos++
			}
			if s.eof() || s.peek() == s.close {
				s.state = stateDone
				continue
			}
			if !isIdentByte(s.peek()) {
				// Stray character between fields
				s.pos++
				continue
			}
			start := s.pos
			for !s.eof() && isIdentByte(s.peek()) {
				s.pos++
			}
			name = strings.ToLower(s.src[start:s.pos])
			s.state = stateSeekOpenBrace

		case stateSeekOpenBrace:
			s.skipSpace()
			if s.eof() || s.peek() != '=' {
				// A bare word with no "=" is not a field
				s.state = stateSeekKeyword
				continue
			}
			s.pos++
			s.skipSpace()
			if s.eof() {
				return fields, &hub.MalformedEntryError{Field: name, Reason: "missing value"}
			}
			switch s.peek() {
			case '{', '"':
				open = s.peek()
				s.pos++
			default:
				open = 0
			}
			s.state = stateAccumulateValue

		case stateAccumulateValue:
			value, err := s.accumulate(open)
			if err != nil {
				return fields, &hub.MalformedEntryError{Field: name, Reason: err.Error()}
			}
			if !seen[name] {
				seen[name] = true
				fields = append(fields, field{Name: name, Value: value})
			}
			s.state = stateSeekKeyword
		}
	}

	return fields, nil
}

type scanError string

func (e scanError) Error() string { return string(e) }

const errUnterminated scanError = "unterminated value"

// accumulate reads a value whose opening delimiter (if any) was consumed.
// Braced values track nesting so "{The {GPU} Paper}" keeps its inner braces.
func (s *scanner) accumulate(open byte) (string, error) {
	start := s.pos
	depth := 0

	switch open {
	case '{':
		depth = 1
		for !s.eof() {
			switch s.peek() {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					value := s.src[start:s.pos]
					s.pos++
					return value, nil
				}
			}
			s.pos++
		}
		return "", errUnterminated

	case '"':
		for !s.eof() {
			switch c := s.peek(); {
			case c == '{':
				depth++
			case c == '}' && depth > 0:
				depth--
			case c == '"' && depth == 0 && s.src[s.pos-1] != '\\':
				value := s.src[start:s.pos]
				s.pos++
				return value, nil
			}
			s.pos++
		}
		return "", errUnterminated

	default:
		for !s.eof() {
			c := s.peek()
			if c == ',' || c == s.close || c == '\n' {
				break
			}
			s.pos++
		}
		return strings.TrimSpace(s.src[start:s.pos]), nil
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == ':' || c == '.' || c == '+' || c == '/':
		return true
	}
	return false
}
