package export

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/matsen/pubex/internal/publication"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the records.
const SheetName = "Publications"

// writeXLSX writes a workbook with a header row over every known key and
// one row per record. Rows go through excelize's stream writer, which spills
// to a temporary file instead of keeping the sheet in memory.
func writeXLSX(w io.Writer, records iter.Seq[*publication.Record]) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return 0, fmt.Errorf("naming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return 0, fmt.Errorf("opening stream writer: %w", err)
	}

	// Widen the text-heavy columns (authors, title, venues).
	if err := sw.SetColWidth(2, 3, 40); err != nil {
		return 0, err
	}
	if err := sw.SetColWidth(5, 7, 36); err != nil {
		return 0, err
	}

	header := make([]interface{}, len(publication.Keys))
	for i, k := range publication.Keys {
		header[i] = k
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	n := 0
	for rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return n, err
		}
		if err := sw.SetRow(cell, recordRow(rec)); err != nil {
			return n, fmt.Errorf("writing row %d: %w", n+2, err)
		}
		n++
	}

	if err := sw.Flush(); err != nil {
		return n, fmt.Errorf("flushing sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return n, fmt.Errorf("xlsx write: %w", err)
	}
	return n, nil
}

// recordRow lays a record out along publication.Keys. Missing fields are
// empty cells.
func recordRow(rec *publication.Record) []interface{} {
	row := make([]interface{}, len(publication.Keys))
	for i, k := range publication.Keys {
		switch k {
		case publication.KeyAuthors:
			row[i] = strings.Join(rec.Authors, "; ")
		default:
			v, _ := rec.Get(k)
			row[i] = v
		}
	}
	return row
}
