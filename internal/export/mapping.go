package export

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/matsen/pubex/internal/publication"
	"gopkg.in/yaml.v3"
)

// writeDict writes each record as an indented JSON object.
func writeDict(w io.Writer, records iter.Seq[*publication.Record]) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return encodeEach(records, enc.Encode)
}

// writeJSONL writes one compact JSON object per line.
func writeJSONL(w io.Writer, records iter.Seq[*publication.Record]) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return encodeEach(records, enc.Encode)
}

// writeYAML writes one YAML document per record.
func writeYAML(w io.Writer, records iter.Seq[*publication.Record]) (int, error) {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	n, err := encodeEach(records, enc.Encode)
	if err != nil {
		return n, err
	}
	if err := enc.Close(); err != nil {
		return n, fmt.Errorf("closing yaml stream: %w", err)
	}
	return n, nil
}

func encodeEach(records iter.Seq[*publication.Record], encode func(any) error) (int, error) {
	n := 0
	for rec := range records {
		if err := encode(rec); err != nil {
			return n, fmt.Errorf("encoding record %d: %w", n+1, err)
		}
		n++
	}
	return n, nil
}
