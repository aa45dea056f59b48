package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/pubex/internal/publication"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search results
	SearchTitleMaxLen  = 70 // Used in search result summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
// Errors go to stderr; stdout may be carrying records.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		enc := json.NewEncoder(os.Stderr)
		enc.SetEscapeHTML(false)
		enc.Encode(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatAuthorsShort joins authors with "et al." for more than maxCount.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + ", et al."
}

// printRecordSummary prints one record as a numbered human-readable block.
func printRecordSummary(num int, id int64, rec *publication.Record) {
	title, ok := rec.Get(publication.KeyTitle)
	if !ok {
		title = "(untitled)"
	}
	fmt.Printf("[%d] #%d %s\n", num, id, rec.Type())
	fmt.Printf("    %s\n", truncateString(title, SearchTitleMaxLen))

	if len(rec.Authors) > 0 {
		fmt.Printf("    %s\n", formatAuthorsShort(rec.Authors, 3))
	}

	venue := rec.Venue()
	date, _ := rec.Get(publication.KeyDate)
	switch {
	case venue != "" && date != "":
		fmt.Printf("    %s (%s)\n", venue, date)
	case venue != "":
		fmt.Printf("    %s\n", venue)
	case date != "":
		fmt.Printf("    (%s)\n", date)
	}
	fmt.Println()
}
