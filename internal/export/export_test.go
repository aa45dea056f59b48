package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"iter"
	"slices"
	"strings"
	"testing"

	"github.com/matsen/pubex/internal/publication"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func records(recs ...*publication.Record) iter.Seq[*publication.Record] {
	return slices.Values(recs)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatDict, false},
		{"dict", FormatDict, false},
		{" JSONL ", FormatJSONL, false},
		{"yaml", FormatYAML, false},
		{"xml", FormatXML, false},
		{"BibTeX", FormatBibTeX, false},
		{"xlsx", FormatXLSX, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, Format("csv"), records(conferenceRecord()))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Write() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestWrite_AllFormats(t *testing.T) {
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			n, err := Write(&buf, f, records(conferenceRecord(), journalRecord()))
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if n != 2 {
				t.Errorf("Write() = %d records, want 2", n)
			}
			if buf.Len() == 0 {
				t.Error("Write() produced no output")
			}
		})
	}
}

func TestWrite_Empty(t *testing.T) {
	for _, f := range []Format{FormatDict, FormatJSONL, FormatBibTeX} {
		var buf bytes.Buffer
		n, err := Write(&buf, f, records())
		if err != nil || n != 0 {
			t.Errorf("Write(%s) = %d, %v", f, n, err)
		}
		if buf.Len() != 0 {
			t.Errorf("Write(%s) of nothing = %q", f, buf.String())
		}
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, FormatJSONL, records(conferenceRecord(), journalRecord())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], `{"authors":["J. Dupont","K. Martin"],"title":`) {
		t.Errorf("line 1 = %s", lines[0])
	}

	var rec publication.Record
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rec.Type() != "Journal" {
		t.Errorf("type = %q, want Journal", rec.Type())
	}
}

func TestWriteDict_Indented(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, FormatDict, records(conferenceRecord())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"authors\": [") {
		t.Errorf("dict output not indented:\n%s", buf.String())
	}
}

func TestWriteYAML_Documents(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, FormatYAML, records(conferenceRecord(), journalRecord())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	dec := yaml.NewDecoder(&buf)
	var docs []map[string]any
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			break
		}
		docs = append(docs, doc)
	}
	if len(docs) != 2 {
		t.Fatalf("decoded %d documents, want 2", len(docs))
	}
	if docs[1]["journal_title"] != "Journal of Testing vol" {
		t.Errorf("journal_title = %v", docs[1]["journal_title"])
	}
}

func TestWriteXML(t *testing.T) {
	rec := journalRecord()
	rec.Set(publication.KeyTitle, "Costs & <Benefits>")

	var buf bytes.Buffer
	if _, err := Write(&buf, FormatXML, records(conferenceRecord(), rec)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, xml.Header) {
		t.Errorf("missing XML header:\n%s", out)
	}
	if !strings.Contains(out, "Costs &amp; &lt;Benefits&gt;") {
		t.Errorf("title not escaped:\n%s", out)
	}

	var doc struct {
		Publications []struct {
			Type    string   `xml:"type,attr"`
			Authors []string `xml:"authors>author"`
			Title   string   `xml:"title"`
			Sigle   string   `xml:"sigle"`
			Volume  string   `xml:"volume"`
		} `xml:"publication"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("xml.Unmarshal() error = %v", err)
	}
	if len(doc.Publications) != 2 {
		t.Fatalf("got %d publications, want 2", len(doc.Publications))
	}

	conf := doc.Publications[0]
	if conf.Type != "Conference" || conf.Sigle != "ICS" {
		t.Errorf("first publication = %+v", conf)
	}
	if !slices.Equal(conf.Authors, []string{"J. Dupont", "K. Martin"}) {
		t.Errorf("authors = %v", conf.Authors)
	}
	if doc.Publications[1].Title != "Costs & <Benefits>" || doc.Publications[1].Volume != "5" {
		t.Errorf("second publication = %+v", doc.Publications[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, FormatXLSX, records(conferenceRecord(), journalRecord())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !slices.Equal(rows[0][:3], []string{"type", "authors", "title"}) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Conference" || rows[1][1] != "J. Dupont; K. Martin" {
		t.Errorf("row 2 = %v", rows[1])
	}
}
