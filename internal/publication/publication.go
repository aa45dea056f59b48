// Package publication defines publication types, extracted records, and the
// regex passes that turn a free-text citation into a record.
package publication

import (
	"regexp"
	"strings"
)

// Flags are the match options attached to a recognition rule.
type Flags int

// DefaultFlags compiles a rule with the engine's default matching mode.
const DefaultFlags Flags = -1

const (
	IgnoreCase Flags = 1 << iota // (?i)
	Multiline                    // (?m)
	DotAll                       // (?s)
)

// Rule is a recognition pattern owned by a publication type.
type Rule struct {
	Pattern string
	Flags   Flags
}

// Compile compiles the rule, translating its flags into inline flags.
func (r Rule) Compile() (*regexp.Regexp, error) {
	return regexp.Compile(r.Flags.prefix() + r.Pattern)
}

func (f Flags) prefix() string {
	if f == DefaultFlags || f == 0 {
		return ""
	}
	s := ""
	if f&IgnoreCase != 0 {
		s += "i"
	}
	if f&Multiline != 0 {
		s += "m"
	}
	if f&DotAll != 0 {
		s += "s"
	}
	if s == "" {
		return ""
	}
	return "(?" + s + ")"
}

// Type is a publication medium: it knows how to recognize its citations and
// how to extract their fields.
type Type interface {
	Name() string
	Rules() []Rule
	Extract(citation string) *Record
}

// Step is one extraction pass. It reads the working citation text, may add
// fields to rec, and returns the text later steps should see.
type Step func(text string, rec *Record) string

// kind is the Type implementation shared by every medium.
type kind struct {
	name  string
	rules []Rule
	steps []Step
}

func (k *kind) Name() string  { return k.name }
func (k *kind) Rules() []Rule { return k.rules }
func (k *kind) String() string {
	return k.name
}

// Extract runs the common steps, tags the record with the type name, then runs
// the type's own steps.
func (k *kind) Extract(citation string) *Record {
	rec := NewRecord()
	text := citation
	for _, step := range commonSteps {
		text = step(text, rec)
	}
	rec.Set(KeyType, k.name)
	for _, step := range k.steps {
		text = step(text, rec)
	}
	return rec
}

var commonSteps = []Step{ExtractAuthors, ExtractTitle, ExtractDate}

// Conference, Journal and Revue are the supported publication types.
var (
	Conference Type = &kind{name: "Conference", rules: conferenceRules, steps: conferenceSteps}
	Journal    Type = &kind{name: "Journal", rules: journalRules, steps: journalSteps}
	Revue      Type = &kind{name: "Revue", rules: revueRules, steps: revueSteps}
)

// Types returns the publication types in registration order. The order is
// the classifier's tie-break.
func Types() []Type {
	return []Type{Conference, Journal, Revue}
}

// Lookup returns the type with the given name, ignoring case.
func Lookup(name string) (Type, bool) {
	for _, t := range Types() {
		if strings.EqualFold(t.Name(), name) {
			return t, true
		}
	}
	return nil, false
}
