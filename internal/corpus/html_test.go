package corpus

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestIsHTML(t *testing.T) {
	tests := map[string]bool{
		"refs.html":  true,
		"refs.HTM":   true,
		"refs.xhtml": true,
		"refs.txt":   false,
		"html":       false,
	}
	for name, want := range tests {
		if got := IsHTML(name); got != want {
			t.Errorf("IsHTML(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestOpen_HTML(t *testing.T) {
	dir := t.TempDir()
	page := `<html><body>
<h1>Publications</h1>
<ol>
  <li>J. Dupont and K. Martin. Title of the Paper.
      International Conférence on Systems (ICS), 12 june 2020</li>
  <li><p>A. Author. Some title. Journal of Testing vol. 5</p></li>
  <li>   </li>
</ol>
<p>A. Bob. Title. Revue Scientifique N°12, ISSN 1234-5678</p>
</body></html>`
	path := writeFile(t, dir, "pubs.html", page)

	got := slices.Collect(Open(path, nil))

	want := []string{
		"J. Dupont and K. Martin. Title of the Paper. International Conférence on Systems (ICS), 12 june 2020",
		"A. Author. Some title. Journal of Testing vol. 5",
		"A. Bob. Title. Revue Scientifique N°12, ISSN 1234-5678",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Open() lines =\n%q\nwant\n%q", got, want)
	}
}

func TestOpen_HTMLStopsEarly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pubs.html", "<ul><li>one</li><li>two</li><li>three</li></ul>")

	var got []string
	for line := range Open(path, nil) {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"one", "two"}) {
		t.Errorf("lines = %q", got)
	}
}

func TestOpen_MissingHTML(t *testing.T) {
	var logs bytes.Buffer
	got := slices.Collect(Open("/nonexistent/pubs.html", testLogger(&logs)))

	if len(got) != 0 {
		t.Errorf("Open() of a missing file yielded %q", got)
	}
	if !strings.Contains(logs.String(), "corpus.open.failed") || !strings.Contains(logs.String(), "/nonexistent/pubs.html") {
		t.Errorf("expected an open failure diagnostic naming the file:\n%s", logs.String())
	}
}

func TestIsDocument(t *testing.T) {
	tests := map[string]bool{
		"refs.docx": true,
		"refs.DOC":  true,
		"refs.odt":  true,
		"refs.rtf":  true,
		"refs.pdf":  false,
		"refs.txt":  false,
	}
	for name, want := range tests {
		if got := IsDocument(name); got != want {
			t.Errorf("IsDocument(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestOpen_MissingDocument(t *testing.T) {
	var logs bytes.Buffer
	got := slices.Collect(Open("/nonexistent/pubs.docx", testLogger(&logs)))

	if len(got) != 0 {
		t.Errorf("Open() of a missing document yielded %q", got)
	}
	if !strings.Contains(logs.String(), "corpus.open.failed") {
		t.Errorf("expected an open failure diagnostic:\n%s", logs.String())
	}
}

func TestYieldText(t *testing.T) {
	var got []string
	more := yieldText("  first \n\n second\r\n", func(s string) bool {
		got = append(got, s)
		return true
	})
	if !more || !slices.Equal(got, []string{"first", "second"}) {
		t.Errorf("yieldText() = %q, %v", got, more)
	}
}
