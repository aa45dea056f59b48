package publication

import (
	"regexp"
	"unicode"
)

// Character classes with Unicode semantics. Go's \w, \s, \d and \b are
// ASCII only, which would cut names like "Dupré" short. Digits are written
// \p{Nd} in the patterns below for the same reason.
const (
	wordChars  = `\p{L}\p{N}_`
	spaceChars = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`
	space      = `[` + spaceChars + `]`
)

// authorInitial is a capital initial, optionally hyphenated ("J.-P." style
// initials are split), followed by a dot.
const authorInitial = `[A-Z](?:-[A-Z])?\.`

// authorPrefix matches the author list that opens a citation: one or more
// "initial name," groups.
const authorPrefix = `(?:` + authorInitial + `[` + wordChars + spaceChars + `]+[,.]` + space + `*)+`

// months matches French and English month names.
const months = `janvier|january|f[eé]vrier|february|mars|march` +
	`|april|avril|mai|may|june|juin|juillet|july` +
	`|aout|august|septemb(?:er|re)|octob(?:er|re)` +
	`|novemb(?:er|re)|d[eé]cemb(?:re|er)`

var (
	authorSeparatorRe = regexp.MustCompile(`([A-Z]\.[` + wordChars + ` ]*?)(?:et|;|and)` + space + `+([A-Z])`)
	authorRe          = regexp.MustCompile(authorInitial + `[` + wordChars + spaceChars + `]+`)
	titleRe           = regexp.MustCompile(authorPrefix + `(.*?)[,;.]`)

	dateStrictRe = regexp.MustCompile(`(?i)\p{Nd}{1,4}(?:-\p{Nd}{1,2})?` + space + `(?:` + months + `)?` + space + `\p{Nd}{1,4}(?:-\p{Nd}{1,2})?`)
	dateLooseRe  = regexp.MustCompile(`(?i)(?:` + months + `)?[` + spaceChars + `/(]\p{Nd}{4}`)
	dateStripRe  = regexp.MustCompile(`[^` + wordChars + spaceChars + `-]`)

	sigleRe = regexp.MustCompile(`\(.*?([A-Z]+).*?\)`)

	volumeRe = regexp.MustCompile(`(?i)vol(?:ume)?\.?` + space + `*(\p{Nd}+)`)
	issueRe  = regexp.MustCompile(`(?i)issue\.?` + space + `*(\p{Nd}+)`)
	pagesRe  = regexp.MustCompile(`(?i)pp?\.?` + space + `*(\p{Nd}+(?:[^\p{Nd}]+\p{Nd}+))`)
)

// venueTitleRe builds the pattern for a venue title containing keyword: the
// title starts after the author list and the paper title.
func venueTitleRe(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + authorPrefix + `.*?[,;.])(.*?` + keyword + `.*?)[.,;]`)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func isNotWordRune(r rune) bool {
	return !isWordRune(r)
}

// submatch returns the first capture group of re in s.
func submatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
