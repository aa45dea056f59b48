package publication

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field keys produced by extraction.
const (
	KeyType         = "type"
	KeyAuthors      = "authors"
	KeyTitle        = "title"
	KeyDate         = "date"
	KeyConfTitle    = "conf_title"
	KeyJournalTitle = "journal_title"
	KeyRevueTitle   = "revue_title"
	KeySigle        = "sigle"
	KeyVolume       = "volume"
	KeyIssue        = "issue"
	KeyPages        = "pages"
	KeyISSN         = "issn"
	KeyNum          = "num"
)

// Keys lists every key a record can carry, in a stable display order.
var Keys = []string{
	KeyType, KeyAuthors, KeyTitle, KeyDate,
	KeyConfTitle, KeyJournalTitle, KeyRevueTitle, KeySigle,
	KeyVolume, KeyIssue, KeyPages, KeyISSN, KeyNum,
}

// Field is a single extracted string field.
type Field struct {
	Key   string
	Value string
}

// Record is the structured form of one citation. Authors is always present;
// the other fields exist only when their pattern matched, in the order they
// were first set.
type Record struct {
	Authors []string
	fields  []Field
}

// NewRecord returns an empty record with an empty author list.
func NewRecord() *Record {
	return &Record{Authors: []string{}}
}

// Set stores value under key. An existing key keeps its position.
func (r *Record) Set(key, value string) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether key was extracted.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Type returns the name of the publication type that produced the record.
func (r *Record) Type() string {
	v, _ := r.Get(KeyType)
	return v
}

// Fields returns the string fields in insertion order. The slice is a copy.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Venue returns the venue title of the record, whichever type it is.
func (r *Record) Venue() string {
	for _, key := range []string{KeyConfTitle, KeyJournalTitle, KeyRevueTitle} {
		if v, ok := r.Get(key); ok {
			return v
		}
	}
	return ""
}

// MarshalJSON writes the record as an object: authors first, then fields in
// insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	authors := r.Authors
	if authors == nil {
		authors = []string{}
	}
	data, err := json.Marshal(authors)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"authors":`)
	buf.Write(data)

	for _, f := range r.fields {
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	r.Authors = []string{}
	r.fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", tok)
		}

		if key == KeyAuthors {
			if err := dec.Decode(&r.Authors); err != nil {
				return fmt.Errorf("record: decoding authors: %w", err)
			}
			if r.Authors == nil {
				r.Authors = []string{}
			}
			continue
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: decoding %s: %w", key, err)
		}
		r.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML renders the record as an ordered mapping.
func (r *Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	authors := &yaml.Node{Kind: yaml.SequenceNode}
	for _, a := range r.Authors {
		authors.Content = append(authors.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a})
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: KeyAuthors},
		authors,
	)

	for _, f := range r.fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Value},
		)
	}
	return node, nil
}
