package bibtex

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bibaffil/format"
	"github.com/lehigh-university-libraries/bibaffil/hub"
)

func TestParseEntrySingleLine(t *testing.T) {
	b := Block{Line: 1, Text: "@article{k1, author = {Smith, Alice and Jones, Bob}, title = {T1}, year = {2020}}"}

	entry, err := ParseEntry(b)
	if err != nil {
		t.Fatalf("ParseEntry failed: %v", err)
	}

	if entry.Key != "k1" {
		t.Errorf("Key = %q, want %q", entry.Key, "k1")
	}
	if entry.Type != "article" {
		t.Errorf("Type = %q, want %q", entry.Type, "article")
	}
	if entry.Title != "T1" {
		t.Errorf("Title = %q, want %q", entry.Title, "T1")
	}
	if entry.Year != 2020 {
		t.Errorf("Year = %d, want 2020", entry.Year)
	}
	wantAuthors := []string{"Alice Smith", "Bob Jones"}
	if !reflect.DeepEqual(entry.Authors, wantAuthors) {
		t.Errorf("Authors = %v, want %v", entry.Authors, wantAuthors)
	}
	if entry.DOI != "" {
		t.Errorf("DOI = %q, want empty", entry.DOI)
	}
}

func TestParseEntryAndOthers(t *testing.T) {
	tests := []struct {
		name   string
		author string
		want   []string
	}{
		{"trailing others dropped", "Smith, Alice and Jones, Bob and others", []string{"Alice Smith", "Bob Jones"}},
		{"capitalized", "Smith, Alice AND Others", []string{"Alice Smith"}},
		{"braced others is a name", "Smith, Alice and {others}", []string{"Alice Smith", "others"}},
		{"others mid-list is kept", "others and Smith, Alice", []string{"others", "Alice Smith"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Block{Line: 1, Text: "@misc{k, author = {" + tt.author + "}, title = {T}, year = {2020}}"}
			entry, err := ParseEntry(b)
			if err != nil {
				t.Fatalf("ParseEntry failed: %v", err)
			}
			if !reflect.DeepEqual(entry.Authors, tt.want) {
				t.Errorf("Authors = %v, want %v", entry.Authors, tt.want)
			}
			if got, want := entry.CoAuthorCount(), len(tt.want)-1; got != want {
				t.Errorf("CoAuthorCount() = %d, want %d", got, want)
			}
		})
	}
}

func TestParseEntryFields(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantTitle   string
		wantVenue   string
		wantAuthors []string
		wantYear    int
		wantDOI     string
		wantExtra   map[string]string
	}{
		{
			name: "multi-line record with closing brace line",
			text: `@Article{smith2020,
  Author = {Smith, Alice and Jones, Bob},
  Title  = {A Multi-line
            Title},
  journal = {J. Data},
  year = {2020},
  doi = {10.1234/x.1},
  pages = {1--10}
}`,
			wantTitle:   "A Multi-line Title",
			wantVenue:   "J. Data",
			wantAuthors: []string{"Alice Smith", "Bob Jones"},
			wantYear:    2020,
			wantDOI:     "10.1234/x.1",
			wantExtra:   map[string]string{"pages": "1--10"},
		},
		{
			name:        "nested braces kept in title",
			text:        "@inproceedings{k, author = {White, Carol}, title = {The {GPU} Paper}, booktitle = {Proc.}, year = {2021}}",
			wantTitle:   "The {GPU} Paper",
			wantVenue:   "Proc.",
			wantAuthors: []string{"Carol White"},
			wantYear:    2021,
		},
		{
			name:        "quoted values and bare year",
			text:        "@misc{k, author = \"Alice Smith and Bob Jones\", title = \"Quoted {Title}\", year = 2019,}",
			wantTitle:   "Quoted {Title}",
			wantAuthors: []string{"Alice Smith", "Bob Jones"},
			wantYear:    2019,
		},
		{
			name:        "duplicate authors dropped keeping first position",
			text:        "@article{k, author = {Smith, Alice and Jones, Bob and Alice Smith}, title = {T}, year = {2020}}",
			wantTitle:   "T",
			wantAuthors: []string{"Alice Smith", "Bob Jones"},
			wantYear:    2020,
		},
		{
			name:        "protective braces stripped from names",
			text:        "@article{k, author = {{van Rossum}, Guido and {World Health Organization}}, title = {T}, year = {1999}}",
			wantTitle:   "T",
			wantAuthors: []string{"Guido van Rossum", "World Health Organization"},
			wantYear:    1999,
		},
		{
			name:        "venue field wins over journal",
			text:        "@article{k, author = {A B}, title = {T}, journal = {J}, venue = {V}, year = {2000}}",
			wantTitle:   "T",
			wantVenue:   "V",
			wantAuthors: []string{"A B"},
			wantYear:    2000,
			wantExtra:   map[string]string{"journal": "J"},
		},
		{
			name:        "first occurrence of a field wins",
			text:        "@article{k, author = {A B}, title = {First}, title = {Second}, year = {2000}}",
			wantTitle:   "First",
			wantAuthors: []string{"A B"},
			wantYear:    2000,
		},
		{
			name:        "record without key",
			text:        "@misc{author = {A B}, title = {T}, year = {2000}}",
			wantTitle:   "T",
			wantAuthors: []string{"A B"},
			wantYear:    2000,
		},
		{
			name:        "parenthesized record",
			text:        "@article(k, author = {A B}, title = {T}, year = {2000})",
			wantTitle:   "T",
			wantAuthors: []string{"A B"},
			wantYear:    2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ParseEntry(Block{Line: 1, Text: tt.text})
			if err != nil {
				t.Fatalf("ParseEntry failed: %v", err)
			}
			if entry.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", entry.Title, tt.wantTitle)
			}
			if entry.Venue != tt.wantVenue {
				t.Errorf("Venue = %q, want %q", entry.Venue, tt.wantVenue)
			}
			if !reflect.DeepEqual(entry.Authors, tt.wantAuthors) {
				t.Errorf("Authors = %v, want %v", entry.Authors, tt.wantAuthors)
			}
			if entry.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", entry.Year, tt.wantYear)
			}
			if entry.DOI != tt.wantDOI {
				t.Errorf("DOI = %q, want %q", entry.DOI, tt.wantDOI)
			}
			for k, want := range tt.wantExtra {
				if got := hub.GetExtraString(entry, k); got != want {
					t.Errorf("extra %s = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestParseEntryMissingFields(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantField string
	}{
		{"missing author", "@article{k, title = {T}, year = {2020}}", "author"},
		{"missing title", "@article{k, author = {A B}, year = {2020}}", "title"},
		{"missing year", "@article{k, author = {A B}, title = {T}}", "year"},
		{"author checked first", "@article{k, note = {n}}", "author"},
		{"empty author list", "@article{k, author = { and }, title = {T}, year = {2020}}", "author"},
		{"unterminated value", "@article{k, author = {A B, title = {T}", "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry(Block{Line: 1, Text: tt.text})
			var mfe *hub.MalformedEntryError
			if !errors.As(err, &mfe) {
				t.Fatalf("err = %v, want *hub.MalformedEntryError", err)
			}
			if mfe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", mfe.Field, tt.wantField)
			}
		})
	}
}

func TestParseEntryInvalidYear(t *testing.T) {
	tests := []struct {
		year    string
		wantRaw string
	}{
		{"{20x0}", "20x0"},
		{"{ 2020a }", "2020a"},
		{"{}", ""},
		{"{0}", "0"},
		{"{-2020}", "-2020"},
		{"{99999999999999999999}", "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			text := "@article{k, author = {A B}, title = {T}, year = " + tt.year + "}"
			_, err := ParseEntry(Block{Line: 1, Text: text})
			var iye *hub.InvalidYearError
			if !errors.As(err, &iye) {
				t.Fatalf("err = %v, want *hub.InvalidYearError", err)
			}
			if iye.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", iye.Raw, tt.wantRaw)
			}
		})
	}
}

func TestParseEntrySkipsNonEntries(t *testing.T) {
	for _, text := range []string{
		`@string{jdp = "Journal of Data Plumbing"}`,
		`@comment{anything at all}`,
		`@preamble{"\newcommand{\noop}[1]{}"}`,
	} {
		entry, err := ParseEntry(Block{Line: 1, Text: text})
		if err != nil || entry != nil {
			t.Errorf("ParseEntry(%q) = (%v, %v), want (nil, nil)", text, entry, err)
		}
	}
}

func TestParseFixture(t *testing.T) {
	f, err := os.Open("testdata/publist.bib")
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	defer f.Close()

	entries, err := (&Format{}).Parse(f, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	wantKeys := []string{"smith2020", "white2021", "jones2019"}
	wantLines := []int{2, 10, 18}
	for i, e := range entries {
		if e.Key != wantKeys[i] {
			t.Errorf("entry[%d].Key = %q, want %q", i, e.Key, wantKeys[i])
		}
		if e.Line != wantLines[i] {
			t.Errorf("entry[%d].Line = %d, want %d", i, e.Line, wantLines[i])
		}
	}

	if entries[0].DOI != "10.1234/jdp.2020.001" {
		t.Errorf("DOI = %q", entries[0].DOI)
	}
	if entries[2].Venue != "Arxiv" || entries[2].Year != 2019 {
		t.Errorf("entry[2] venue/year = %q/%d", entries[2].Venue, entries[2].Year)
	}
	if got := hub.GetExtraString(entries[2], "url"); got != "https://example.org/solo" {
		t.Errorf("url extra = %q", got)
	}

	c := hub.NewCollection()
	c.AddAll(entries)
	avg, err := c.Index.AverageCoAuthorCount("Smith, Alice")
	if err != nil {
		t.Fatalf("AverageCoAuthorCount failed: %v", err)
	}
	if avg != 1.5 {
		t.Errorf("average co-authors for Alice Smith = %v, want 1.5", avg)
	}
}

func TestParseCollectsRecordErrors(t *testing.T) {
	text := strings.Join([]string{
		"@article{good1, author = {A B}, title = {T}, year = {2020}}",
		"@article{noauthor, title = {T}, year = {2020}}",
		"@article{badyear, author = {A B}, title = {T}, year = {20x0}}",
		"@article{good2, author = {C D}, title = {T}, year = {2021}}",
	}, "\n")

	entries, err := ParseString(text, format.NewParseOptions())
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if err == nil {
		t.Fatal("expected joined record errors")
	}

	var mfe *hub.MalformedEntryError
	if !errors.As(err, &mfe) || mfe.Field != "author" {
		t.Errorf("joined error does not carry MalformedEntryError(author): %v", err)
	}
	var iye *hub.InvalidYearError
	if !errors.As(err, &iye) || iye.Raw != "20x0" {
		t.Errorf("joined error does not carry InvalidYearError(20x0): %v", err)
	}
	var re *hub.RecordError
	if !errors.As(err, &re) || re.Key != "noauthor" || re.Line != 2 {
		t.Errorf("first RecordError = %+v, want key noauthor at line 2", re)
	}
}

func TestParseStrictStopsAtFirstError(t *testing.T) {
	text := "@article{bad, title = {T}, year = {2020}}\n@article{good, author = {A B}, title = {T}, year = {2020}}"

	entries, err := ParseString(text, &format.ParseOptions{Strict: true})
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
	var re *hub.RecordError
	if !errors.As(err, &re) || re.Key != "bad" {
		t.Fatalf("err = %v, want RecordError for key bad", err)
	}
}
