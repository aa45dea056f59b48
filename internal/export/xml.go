package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"iter"

	"github.com/matsen/pubex/internal/publication"
)

var (
	publicationsTag = xml.StartElement{Name: xml.Name{Local: "publications"}}
	authorsTag      = xml.StartElement{Name: xml.Name{Local: "authors"}}
	authorTag       = xml.StartElement{Name: xml.Name{Local: "author"}}
)

// writeXML writes the <publications> tree. The type becomes an attribute of
// each <publication>, authors a nested list, every other field an element
// named after its key.
func writeXML(w io.Writer, records iter.Seq[*publication.Record]) (int, error) {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return 0, err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.EncodeToken(publicationsTag); err != nil {
		return 0, err
	}

	n := 0
	for rec := range records {
		if err := encodePublication(enc, rec); err != nil {
			return n, fmt.Errorf("encoding record %d: %w", n+1, err)
		}
		// Flush per record so the document is never held in memory.
		if err := enc.Flush(); err != nil {
			return n, err
		}
		n++
	}

	if err := enc.EncodeToken(publicationsTag.End()); err != nil {
		return n, err
	}
	if err := enc.Flush(); err != nil {
		return n, err
	}
	_, err := io.WriteString(w, "\n")
	return n, err
}

func encodePublication(enc *xml.Encoder, rec *publication.Record) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "publication"},
		Attr: []xml.Attr{{Name: xml.Name{Local: publication.KeyType}, Value: rec.Type()}},
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if err := enc.EncodeToken(authorsTag); err != nil {
		return err
	}
	for _, a := range rec.Authors {
		if err := enc.EncodeElement(a, authorTag); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(authorsTag.End()); err != nil {
		return err
	}

	for _, f := range rec.Fields() {
		if f.Key == publication.KeyType {
			continue
		}
		if err := enc.EncodeElement(f.Value, xml.StartElement{Name: xml.Name{Local: f.Key}}); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}
