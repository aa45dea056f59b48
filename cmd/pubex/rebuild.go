package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/pubex/internal/storage"
	"github.com/spf13/cobra"
)

// dbPath overrides the configured index location for rebuild and search.
var dbPath string

func init() {
	rebuildCmd.Flags().StringVar(&dbPath, "db", "", "SQLite index path (default from config)")
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <records.jsonl>",
	Short: "Rebuild the search index from a JSONL store",
	Long: `Rebuild the SQLite search index from a JSONL store written by
'pubex extract --jsonl-out'.

The index is cleared first, so it always mirrors the store.`,
	Args: cobra.ExactArgs(1),
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string         `json:"status"`
	Path    string         `json:"path"`
	Records int            `json:"records"`
	ByType  map[string]int `json:"by_type"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	path := resolveDBPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "creating index directory: %v", err)
	}

	db := mustOpenDatabase(path)
	defer db.Close()

	count, err := db.RebuildFromJSONL(args[0])
	if err != nil {
		exitWithError(ExitDataError, "rebuilding index: %v", err)
	}

	byType, err := db.CountByType()
	if err != nil {
		exitWithError(ExitError, "counting records: %v", err)
	}

	logger.Debug("rebuild.done", "db", path, "records", count)

	if humanOutput {
		fmt.Printf("Rebuilt %s with %d records\n", path, count)
		for typ, n := range byType {
			fmt.Printf("  %s: %d\n", typ, n)
		}
		return nil
	}
	return outputJSON(RebuildResult{
		Status:  "rebuilt",
		Path:    path,
		Records: count,
		ByType:  byType,
	})
}

// resolveDBPath returns --db, else the configured index path.
func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return mustLoadConfig().ResolvedDBPath()
}

// mustOpenDatabase opens the SQLite index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(path string) *storage.DB {
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
