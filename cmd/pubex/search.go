package main

import (
	"fmt"
	"os"

	"github.com/matsen/pubex/internal/publication"
	"github.com/matsen/pubex/internal/storage"
	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchType   string
	searchAuthor string
	searchVenue  string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringVar(&searchType, "type", "", "Filter by publication type (Conference, Journal, Revue)")
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "Search by author name (fuzzy prefix)")
	searchCmd.Flags().StringVar(&searchVenue, "venue", "", "Filter by venue title (partial match)")
	searchCmd.Flags().StringVar(&dbPath, "db", "", "SQLite index path (default from config)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed records by keyword, type, author, or venue",
	Long: `Search the index built by 'pubex rebuild'.

The query matches words of the title, the authors and the venue title.
Author matching supports prefix matching, so "Dup" matches "Dupont".

Examples:
  pubex search "neural networks"
  pubex search -a Dupont --type Conference
  pubex search --venue "Revue" --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// SearchResult is one record in search output.
type SearchResult struct {
	ID     int64               `json:"id"`
	Record *publication.Record `json:"record"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := storage.SearchFilters{
		Author: searchAuthor,
		Venue:  searchVenue,
	}
	if len(args) > 0 {
		filters.Keyword = args[0]
	}

	if searchType != "" {
		typ, ok := publication.Lookup(searchType)
		if !ok {
			exitWithError(ExitError, "unknown publication type: %s", searchType)
		}
		filters.Type = typ.Name()
	}

	if filters == (storage.SearchFilters{}) {
		exitWithError(ExitError, "must specify a query or at least one filter (--type, --author, --venue)")
	}

	path := resolveDBPath()
	if _, err := os.Stat(path); err != nil {
		exitWithError(ExitConfigError, "index not found: %s\n\nRun 'pubex rebuild <records.jsonl>' to create it.", path)
	}

	db := mustOpenDatabase(path)
	defer db.Close()

	results, err := db.SearchWithFilters(filters, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No records found")
			return nil
		}
		fmt.Printf("Found %d records:\n\n", len(results))
		for i, r := range results {
			printRecordSummary(i+1, r.ID, r.Record)
		}
		return nil
	}

	// Empty result is not an error
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{ID: r.ID, Record: r.Record})
	}
	return outputJSON(out)
}
