// Package classifier assigns publication types to raw citation lines.
package classifier

import (
	"fmt"
	"iter"
	"regexp"

	"github.com/matsen/pubex/internal/publication"
)

// Rule is a compiled recognition rule and the type that owns it.
type Rule struct {
	Pattern string
	Flags   publication.Flags
	Type    publication.Type
	re      *regexp.Regexp
}

// Classifier tests rules in registration order: types in the order given to
// New, each type's rules in its own order. The first match wins.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over types. It fails if a rule does not compile.
func New(types ...publication.Type) (*Classifier, error) {
	c := &Classifier{}
	for _, t := range types {
		for _, r := range t.Rules() {
			re, err := r.Compile()
			if err != nil {
				return nil, fmt.Errorf("compiling %s rule %q: %w", t.Name(), r.Pattern, err)
			}
			c.rules = append(c.rules, Rule{Pattern: r.Pattern, Flags: r.Flags, Type: t, re: re})
		}
	}
	return c, nil
}

// Default returns a classifier over publication.Types().
func Default() *Classifier {
	c, err := New(publication.Types()...)
	if err != nil {
		panic(err) // built-in rules are compiled by tests
	}
	return c
}

// Rules returns the rule table in matching order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify returns the type of the first rule matching anywhere in line.
func (c *Classifier) Classify(line string) (publication.Type, bool) {
	for _, r := range c.rules {
		if r.re.MatchString(line) {
			return r.Type, true
		}
	}
	return nil, false
}

// Classified yields each line of lines with its type. Lines no rule matches
// are dropped.
func (c *Classifier) Classified(lines iter.Seq[string]) iter.Seq2[publication.Type, string] {
	return func(yield func(publication.Type, string) bool) {
		for line := range lines {
			t, ok := c.Classify(line)
			if !ok {
				continue
			}
			if !yield(t, line) {
				return
			}
		}
	}
}
