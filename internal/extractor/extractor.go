// Package extractor chains classification and field extraction over a
// stream of citation lines.
package extractor

import (
	"iter"

	"github.com/matsen/pubex/internal/classifier"
	"github.com/matsen/pubex/internal/publication"
)

// Extractor turns citation lines into records.
type Extractor struct {
	classifier *classifier.Classifier
}

// New returns an extractor that classifies lines with c.
func New(c *classifier.Classifier) *Extractor {
	return &Extractor{classifier: c}
}

// Records yields one record per classified line, pulling a single line at a
// time. Unclassified lines produce nothing.
func (e *Extractor) Records(lines iter.Seq[string]) iter.Seq[*publication.Record] {
	return func(yield func(*publication.Record) bool) {
		for typ, line := range e.classifier.Classified(lines) {
			if !yield(typ.Extract(line)) {
				return
			}
		}
	}
}

// Stats counts records per publication type as they pass through.
type Stats struct {
	Records int
	ByType  map[string]int
}

// Count wraps records so that every record pulled is counted in s.
func (s *Stats) Count(records iter.Seq[*publication.Record]) iter.Seq[*publication.Record] {
	return func(yield func(*publication.Record) bool) {
		for rec := range records {
			s.Records++
			if s.ByType == nil {
				s.ByType = make(map[string]int)
			}
			s.ByType[rec.Type()]++
			if !yield(rec) {
				return
			}
		}
	}
}
