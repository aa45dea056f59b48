package corpus

import (
	"iter"
	"log/slog"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
)

// IsDocument reports whether name is an office document read through docconv.
func IsDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx", ".doc", ".odt", ".rtf", ".pages":
		return true
	}
	return false
}

// documentLines converts an office document to plain text and yields its
// non-empty lines, one paragraph per line. The converted text is held in
// memory; the binary formats cannot be read incrementally.
func documentLines(name string, logger *slog.Logger) iter.Seq[string] {
	return func(yield func(string) bool) {
		res, err := docconv.ConvertPath(name)
		if err != nil {
			logger.Error("corpus.open.failed", "source", name, "error", err)
			return
		}
		if res.Body == "" {
			logger.Warn("corpus.empty", "source", name)
			return
		}
		yieldText(res.Body, yield)
	}
}
