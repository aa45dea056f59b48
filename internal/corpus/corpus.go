// Package corpus produces citation lines from text, PDF, HTML and office
// document sources. Text sources are never loaded into memory whole.
package corpus

import (
	"bufio"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"
)

// MaxLineCapacity is the longest line a text source may contain (1MB).
const MaxLineCapacity = 1024 * 1024

// Stdin is the source name that reads standard input.
const Stdin = "-"

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// Open returns the lines of the named source. Every range over the result
// reopens the source. A source that cannot be opened or read is reported on
// logger and yields nothing further.
func Open(name string, logger *slog.Logger) iter.Seq[string] {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case IsPDF(name):
		return pdfLines(name, logger)
	case IsHTML(name):
		return htmlLines(name, logger)
	case IsDocument(name):
		return documentLines(name, logger)
	}

	return func(yield func(string) bool) {
		if name == Stdin {
			scan(stdin, name, logger, yield)
			return
		}

		f, err := os.Open(name)
		if err != nil {
			logger.Error("corpus.open.failed", "source", name, "error", err)
			return
		}
		defer f.Close()

		scan(f, name, logger, yield)
	}
}

// Read returns the lines of r, reporting read errors under name.
func Read(r io.Reader, name string, logger *slog.Logger) iter.Seq[string] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(yield func(string) bool) {
		scan(r, name, logger, yield)
	}
}

// Concat chains the named sources in order. A failing source does not stop
// the ones after it.
func Concat(names []string, logger *slog.Logger) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range names {
			for line := range Open(name, logger) {
				if !yield(line) {
					return
				}
			}
		}
	}
}

func scan(r io.Reader, name string, logger *slog.Logger, yield func(string) bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineCapacity)

	lines := 0
	for scanner.Scan() {
		lines++
		if !yield(strings.TrimSuffix(scanner.Text(), "\r")) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error("corpus.read.failed", "source", name, "line", lines+1, "error", err)
		return
	}
	logger.Debug("corpus.done", "source", name, "lines", lines)
}

// yieldText yields the trimmed non-empty lines of text. It reports whether
// the consumer wants more.
func yieldText(text string, yield func(string) bool) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !yield(line) {
			return false
		}
	}
	return true
}
