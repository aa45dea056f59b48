package publication

import "regexp"

var conferenceRules = []Rule{
	{Pattern: `.*?` + space + `+conf[eé]rence.*?`, Flags: IgnoreCase},
}

var confTitleRe = regexp.MustCompile(`(?i)(?:International)?` + space + `conf[eé]rence.*?[,.]`)

// The whole match is the title, closing punctuation included.
var conferenceSteps = []Step{
	venueTitleStep(confTitleRe, 0, KeyConfTitle),
}
