package publication

import "regexp"

var revueRules = []Rule{
	{Pattern: space + `+revue`, Flags: IgnoreCase},
	{Pattern: space + `+ISSN`, Flags: DefaultFlags},
}

var (
	revueTitleRe = venueTitleRe("revue")
	issnRe       = regexp.MustCompile(`(?i)ISSN[^\p{Nd}]*(\p{Nd}{4}-\p{Nd}{4})`)
	numRe        = regexp.MustCompile(`(?i)N°?(?:um[eé]ro)?[^\p{Nd}]+(\p{Nd}+)`)
)

var revueSteps = []Step{
	venueTitleStep(revueTitleRe, 1, KeyRevueTitle),
	ExtractISSN,
	ExtractNum,
	ExtractVolume,
	ExtractPages,
}

// ExtractISSN records the first ISSN.
func ExtractISSN(text string, rec *Record) string {
	if issn, ok := submatch(issnRe, text); ok {
		rec.Set(KeyISSN, issn)
	}
	return text
}

// ExtractNum records the issue number of a revue ("N°12", "numéro 3").
// The N is matched case-insensitively, so the first n followed by digits
// further on wins.
func ExtractNum(text string, rec *Record) string {
	if num, ok := submatch(numRe, text); ok {
		rec.Set(KeyNum, num)
	}
	return text
}
