package corpus

import (
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// citationBlocks are the elements that hold one citation each in a
// bibliography page.
const citationBlocks = "li, p, dd, td"

// IsHTML reports whether name is read as an HTML source.
func IsHTML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// htmlLines yields the text of every innermost citation block, with
// whitespace collapsed. Blocks that contain other blocks are skipped so that
// a <li><p>...</p></li> citation is read once. The whole page is parsed
// before the first line is yielded.
func htmlLines(name string, logger *slog.Logger) iter.Seq[string] {
	return func(yield func(string) bool) {
		f, err := os.Open(name)
		if err != nil {
			logger.Error("corpus.open.failed", "source", name, "error", err)
			return
		}
		defer f.Close()

		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			logger.Error("corpus.read.failed", "source", name, "error", err)
			return
		}

		lines := 0
		doc.Find(citationBlocks).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if s.Find(citationBlocks).Length() > 0 {
				return true
			}
			text := strings.Join(strings.Fields(s.Text()), " ")
			if text == "" {
				return true
			}
			lines++
			return yield(text)
		})
		logger.Debug("corpus.done", "source", name, "lines", lines)
	}
}
