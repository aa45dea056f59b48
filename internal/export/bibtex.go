package export

import (
	"fmt"
	"io"
	"iter"
	"regexp"
	"strings"

	"github.com/matsen/pubex/internal/publication"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// ToBibTeX converts a record to a BibTeX entry with the given citation key.
func ToBibTeX(rec *publication.Record, key string) string {
	entryType := determineEntryType(rec)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))

	// Authors
	if len(rec.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", escapeLatex(strings.Join(rec.Authors, " and "))))
	}

	if title, ok := rec.Get(publication.KeyTitle); ok {
		b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(title)))
	}

	// Venue
	if venue := rec.Venue(); venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(venue)))
	}

	if year := extractYear(rec); year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", year))
	}

	optional := []struct{ field, key string }{
		{"volume", publication.KeyVolume},
		{"number", publication.KeyIssue},
		{"number", publication.KeyNum},
		{"pages", publication.KeyPages},
		{"issn", publication.KeyISSN},
		{"note", publication.KeySigle},
	}
	seen := map[string]bool{}
	for _, o := range optional {
		v, ok := rec.Get(o.key)
		if !ok || seen[o.field] {
			continue
		}
		seen[o.field] = true
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", o.field, escapeLatex(v)))
	}

	b.WriteString("}\n")

	return b.String()
}

// CitationKey builds a key from the first author's surname, the year and the
// record's position n in the stream, so keys stay unique without remembering
// earlier ones.
func CitationKey(rec *publication.Record, n int) string {
	base := "anon"
	if len(rec.Authors) > 0 {
		surname := ""
		if fields := strings.Fields(rec.Authors[0]); len(fields) > 0 {
			surname = fields[len(fields)-1]
		}
		surname = strings.Map(func(r rune) rune {
			if r == '.' || r == ',' || r == '{' || r == '}' {
				return -1
			}
			return r
		}, surname)
		if surname != "" {
			base = surname
		}
	}
	return fmt.Sprintf("%s%s-%d", base, extractYear(rec), n)
}

func writeBibTeX(w io.Writer, records iter.Seq[*publication.Record]) (int, error) {
	n := 0
	for rec := range records {
		if n > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return n, err
			}
		}
		if _, err := io.WriteString(w, ToBibTeX(rec, CitationKey(rec, n+1))); err != nil {
			return n, fmt.Errorf("writing entry %d: %w", n+1, err)
		}
		n++
	}
	return n, nil
}

// determineEntryType returns the BibTeX entry type for a record.
func determineEntryType(rec *publication.Record) string {
	if rec.Type() == publication.Conference.Name() {
		return "inproceedings"
	}
	venue := strings.ToLower(rec.Venue())
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}
	return "article"
}

// extractYear returns the last four-digit number of the date field.
func extractYear(rec *publication.Record) string {
	date, ok := rec.Get(publication.KeyDate)
	if !ok {
		return ""
	}
	years := yearPattern.FindAllString(date, -1)
	if len(years) == 0 {
		return ""
	}
	return years[len(years)-1]
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
