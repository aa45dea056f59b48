package publication

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// NormalizeAuthorSeparators turns "et", "and" and ";" joins between authors
// into commas: "J. Smith and K. Doe" becomes "J. Smith , K. Doe". The rewrite
// is repeated until nothing is left to join, since a match consumes the next
// author's initial and would otherwise leave every second join in place.
func NormalizeAuthorSeparators(text string) string {
	for {
		next := authorSeparatorRe.ReplaceAllString(text, "${1}, ${2}")
		if next == text {
			return text
		}
		text = next
	}
}

// FindAuthors returns every author name in text: an initial followed by
// word and space characters, ending on a word boundary.
func FindAuthors(text string) []string {
	authors := []string{}
	for pos := 0; pos < len(text); {
		loc := authorRe.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		// The initial must start a word.
		if start > 0 {
			if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
				pos = start + 1
				continue
			}
		}

		// Backtrack to the last word character; at least one must follow the dot.
		match := text[start:end]
		name := strings.TrimRightFunc(match, isNotWordRune)
		if len(name) <= strings.IndexByte(match, '.')+1 {
			pos = start + 1
			continue
		}

		authors = append(authors, name)
		pos = start + len(name)
	}
	return authors
}

// ExtractAuthors normalizes author separators, records the author list and
// returns the rewritten text for the following steps.
func ExtractAuthors(text string, rec *Record) string {
	text = NormalizeAuthorSeparators(text)
	rec.Authors = FindAuthors(text)
	return text
}

// ExtractTitle records the text between the author list and the next
// punctuation mark. Without an author list there is no title.
func ExtractTitle(text string, rec *Record) string {
	if title, ok := submatch(titleRe, text); ok {
		rec.Set(KeyTitle, title)
	}
	return text
}

// ExtractDate records the first date-like span ("12 june 2020", "2019-3 4",
// "(2018") with punctuation removed.
func ExtractDate(text string, rec *Record) string {
	date := dateStrictRe.FindString(text)
	if date == "" {
		date = dateLooseRe.FindString(text)
	}
	if date != "" {
		rec.Set(KeyDate, dateStripRe.ReplaceAllString(strings.TrimSpace(date), ""))
	}
	return text
}

// ExtractSigle moves a parenthesized acronym out of the field stored under
// key into the sigle field.
func ExtractSigle(rec *Record, key string) {
	value, ok := rec.Get(key)
	if !ok {
		return
	}
	sigle, ok := submatch(sigleRe, value)
	if !ok {
		return
	}
	rec.Set(KeySigle, sigle)
	rec.Set(key, strings.TrimSpace(sigleRe.ReplaceAllString(value, "")))
}

// venueTitleStep records capture group of re under key, then moves its sigle
// out.
func venueTitleStep(re *regexp.Regexp, group int, key string) Step {
	return func(text string, rec *Record) string {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return text
		}
		rec.Set(key, strings.TrimSpace(m[group]))
		ExtractSigle(rec, key)
		return text
	}
}

// ExtractVolume records the volume number.
func ExtractVolume(text string, rec *Record) string {
	if vol, ok := submatch(volumeRe, text); ok {
		rec.Set(KeyVolume, vol)
	}
	return text
}

// ExtractIssue records the issue number.
func ExtractIssue(text string, rec *Record) string {
	if issue, ok := submatch(issueRe, text); ok {
		rec.Set(KeyIssue, issue)
	}
	return text
}

// ExtractPages records the page range.
func ExtractPages(text string, rec *Record) string {
	if pages, ok := submatch(pagesRe, text); ok {
		rec.Set(KeyPages, strings.TrimSpace(pages))
	}
	return text
}
