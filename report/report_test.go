package report

import (
	"bytes"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibaffil/hub"
)

func testCollection() *hub.Collection {
	a := &hub.Entry{Key: "k1", Type: "article", Title: "T1", Venue: "J1", Authors: []string{"Alice Smith", "Bob Jones"}, Year: 2020, DOI: "10.1234/x", Line: 1}
	hub.SetExtra(a, "pages", "1--10")
	b := &hub.Entry{Key: "k2", Type: "misc", Title: "T2", Authors: []string{"Bob Jones"}, Year: 2021, Line: 7}

	c := hub.NewCollection()
	c.AddAll([]*hub.Entry{a, b})
	return c
}

func TestNewAuthorResult(t *testing.T) {
	c := testCollection()

	res, err := NewAuthorResult(c.Index, "Jones, Bob")
	if err != nil {
		t.Fatalf("NewAuthorResult failed: %v", err)
	}
	if !res.Found || res.Name != "Bob Jones" {
		t.Errorf("Found/Name = %v/%q", res.Found, res.Name)
	}
	if len(res.Entries) != 2 || res.Entries[0].Key != "k1" || res.Entries[1].Key != "k2" {
		t.Errorf("Entries = %+v", res.Entries)
	}
	if res.AverageCoAuthors != 0.5 {
		t.Errorf("AverageCoAuthors = %v, want 0.5", res.AverageCoAuthors)
	}
	if res.Entries[0].Extra["pages"] != "1--10" {
		t.Errorf("Extra = %v", res.Entries[0].Extra)
	}

	res, err = NewAuthorResult(c.Index, "Nobody")
	if err != nil {
		t.Fatalf("NewAuthorResult for unknown author returned error: %v", err)
	}
	if res.Found || len(res.Entries) != 0 {
		t.Errorf("unknown author result = %+v", res)
	}
}

func TestWriteAuthorsText(t *testing.T) {
	c := testCollection()
	found, _ := NewAuthorResult(c.Index, "Smith, Alice")
	missing, _ := NewAuthorResult(c.Index, "Carol White")

	var buf bytes.Buffer
	if err := WriteAuthors(&buf, Text, []AuthorResult{found, missing}); err != nil {
		t.Fatalf("WriteAuthors failed: %v", err)
	}

	want := "Publications by Smith, Alice:\n" +
		"- T1 (2020) in J1 | DOI: 10.1234/x\n" +
		"Average co-authors per paper: 1.00\n" +
		"\n" +
		"No publications found for author: Carol White\n"
	if got := buf.String(); got != want {
		t.Errorf("text output =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteAuthorsJSON(t *testing.T) {
	c := testCollection()
	found, _ := NewAuthorResult(c.Index, "Bob Jones")

	var buf bytes.Buffer
	if err := WriteAuthors(&buf, JSON, []AuthorResult{found}); err != nil {
		t.Fatalf("WriteAuthors failed: %v", err)
	}

	var st structpb.Struct
	if err := protojson.Unmarshal(buf.Bytes(), &st); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	results := st.Fields["results"].GetListValue().GetValues()
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0].GetStructValue().GetFields()
	if r["name"].GetStringValue() != "Bob Jones" {
		t.Errorf("name = %v", r["name"])
	}
	if r["average_co_authors"].GetNumberValue() != 0.5 {
		t.Errorf("average_co_authors = %v", r["average_co_authors"])
	}
	first := r["entries"].GetListValue().GetValues()[0].GetStructValue().GetFields()
	if first["doi_uri"].GetStringValue() != "https://doi.org/10.1234/x" {
		t.Errorf("doi_uri = %v", first["doi_uri"])
	}
	if first["year"].GetNumberValue() != 2020 {
		t.Errorf("year = %v", first["year"])
	}
}

func TestWriteAffiliation(t *testing.T) {
	c := testCollection()
	aff := hub.NewAffiliations(map[string]string{"Smith, Alice": "IIIT-Delhi"})
	res := NewAffiliationResult(c, aff, "IIIT-Delhi")

	if res.Total != 2 || len(res.Matching) != 1 || len(res.Unaffiliated) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if got := res.Matching[0].Authors; len(got) != 1 || got[0] != "Alice Smith" {
		t.Errorf("qualifying authors = %v", got)
	}

	var text bytes.Buffer
	if err := WriteAffiliation(&text, Text, res); err != nil {
		t.Fatalf("WriteAffiliation text failed: %v", err)
	}
	for _, want := range []string{
		"Entries with an author affiliated with IIIT-Delhi: 1 of 2",
		"affiliated: Alice Smith",
		"Entries without an author affiliated with IIIT-Delhi: 1",
		"- T2 (2021)",
	} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, text.String())
		}
	}

	var out bytes.Buffer
	if err := WriteAffiliation(&out, YAML, res); err != nil {
		t.Fatalf("WriteAffiliation yaml failed: %v", err)
	}
	var decoded AffiliationResult
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Affiliation != "IIIT-Delhi" || len(decoded.Matching) != 1 || decoded.Matching[0].Entry.Key != "k1" {
		t.Errorf("decoded = %+v", decoded)
	}

	var js bytes.Buffer
	if err := WriteAffiliation(&js, JSON, res); err != nil {
		t.Fatalf("WriteAffiliation json failed: %v", err)
	}
	var st structpb.Struct
	if err := protojson.Unmarshal(js.Bytes(), &st); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if st.Fields["total"].GetNumberValue() != 2 {
		t.Errorf("total = %v", st.Fields["total"])
	}
}

func TestUnknownFormat(t *testing.T) {
	if err := WriteAuthors(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := WriteAffiliation(&bytes.Buffer{}, "xml", AffiliationResult{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
