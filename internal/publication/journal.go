package publication

var journalRules = []Rule{
	{Pattern: `.*` + space + `+journal.*?`, Flags: IgnoreCase},
	{Pattern: `.*[(` + spaceChars + `]IJ[A-Z]+.*`, Flags: DefaultFlags},
}

var journalTitleRe = venueTitleRe("journal")

var journalSteps = []Step{
	venueTitleStep(journalTitleRe, 1, KeyJournalTitle),
	ExtractVolume,
	ExtractIssue,
	ExtractPages,
}
