// Package export renders extracted records in the supported output formats.
// Every writer serializes one record before pulling the next.
package export

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/matsen/pubex/internal/publication"
)

// Format names an output format.
type Format string

const (
	FormatDict   Format = "dict"   // indented JSON objects, one after another
	FormatJSONL  Format = "jsonl"  // one compact JSON object per line
	FormatYAML   Format = "yaml"   // one YAML document per record
	FormatXML    Format = "xml"    // <publications> tree
	FormatBibTeX Format = "bibtex" // @article / @inproceedings entries
	FormatXLSX   Format = "xlsx"   // spreadsheet, one row per record
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatDict

// ErrUnsupportedFormat is returned for a format name that has no writer.
var ErrUnsupportedFormat = errors.New("unsupported output format")

type writeFunc func(io.Writer, iter.Seq[*publication.Record]) (int, error)

var writers = map[Format]writeFunc{
	FormatDict:   writeDict,
	FormatJSONL:  writeJSONL,
	FormatYAML:   writeYAML,
	FormatXML:    writeXML,
	FormatBibTeX: writeBibTeX,
	FormatXLSX:   writeXLSX,
}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatDict, FormatJSONL, FormatYAML, FormatXML, FormatBibTeX, FormatXLSX}
}

// FormatNames returns the supported format names joined for help text.
func FormatNames() string {
	names := make([]string, 0, len(writers))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// ParseFormat validates a format name. The empty string selects DefaultFormat.
func ParseFormat(s string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return DefaultFormat, nil
	}
	if _, ok := writers[name]; !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnsupportedFormat, s, FormatNames())
	}
	return name, nil
}

// Write renders records to w in format and returns how many were written.
func Write(w io.Writer, format Format, records iter.Seq[*publication.Record]) (int, error) {
	write, ok := writers[format]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return write(w, records)
}
