package corpus

import (
	"iter"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// IsPDF reports whether name is read as a PDF source.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// pdfLines yields the plain-text lines of a PDF, one page at a time.
// Pages whose text cannot be extracted are skipped.
func pdfLines(name string, logger *slog.Logger) iter.Seq[string] {
	return func(yield func(string) bool) {
		f, r, err := pdf.Open(name)
		if f != nil {
			defer f.Close()
		}
		if err != nil {
			logger.Error("corpus.open.failed", "source", name, "error", err)
			return
		}

		for i := 1; i <= r.NumPage(); i++ {
			page := r.Page(i)
			if page.V.IsNull() {
				continue
			}

			text, err := page.GetPlainText(nil)
			if err != nil {
				logger.Warn("corpus.page.skipped", "source", name, "page", i, "error", err)
				continue
			}

			if !yieldText(text, yield) {
				return
			}
		}
	}
}
