package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/matsen/pubex/internal/publication"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// StoredRecord is a record read back from the index with its row id.
type StoredRecord struct {
	ID     int64
	Record *publication.Record
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS publications (
			id INTEGER PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT,
			date TEXT,
			venue TEXT,
			sigle TEXT,
			authors_json TEXT NOT NULL,
			record_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_publications_type ON publications(type);

		-- Full-text rows share their rowid with publications.id
		CREATE VIRTUAL TABLE IF NOT EXISTS publications_fts USING fts5(
			title,
			authors_text,
			venue
		);
	`

	_, err := db.Exec(schema)
	return err
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insertRecord(x execer, rec *publication.Record) (int64, error) {
	authorsJSON, err := json.Marshal(rec.Authors)
	if err != nil {
		return 0, fmt.Errorf("marshaling authors: %w", err)
	}
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshaling record: %w", err)
	}

	title, _ := rec.Get(publication.KeyTitle)
	date, _ := rec.Get(publication.KeyDate)
	sigle, _ := rec.Get(publication.KeySigle)
	venue := rec.Venue()

	res, err := x.Exec(`
		INSERT INTO publications (type, title, date, venue, sigle, authors_json, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Type(), nullableStringValue(title), nullableStringValue(date),
		nullableStringValue(venue), nullableStringValue(sigle),
		string(authorsJSON), string(recordJSON))
	if err != nil {
		return 0, fmt.Errorf("inserting publication: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	_, err = x.Exec(`
		INSERT INTO publications_fts (rowid, title, authors_text, venue)
		VALUES (?, ?, ?, ?)
	`, id, title, strings.Join(rec.Authors, ", "), venue)
	if err != nil {
		return 0, fmt.Errorf("inserting fts for %d: %w", id, err)
	}
	return id, nil
}

// Insert adds one record to the index and returns its row id.
func (d *DB) Insert(rec *publication.Record) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	id, err := insertRecord(tx, rec)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	return id, tx.Commit()
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
// Records are streamed; the whole rebuild runs in one transaction.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM publications"); err != nil {
		return 0, fmt.Errorf("clearing publications table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM publications_fts"); err != nil {
		return 0, fmt.Errorf("clearing publications_fts table: %w", err)
	}

	n := 0
	for rec, err := range ReadRecords(jsonlPath) {
		if err != nil {
			return 0, fmt.Errorf("reading JSONL: %w", err)
		}
		if _, err := insertRecord(tx, rec); err != nil {
			return 0, fmt.Errorf("record %d: %w", n+1, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return n, nil
}

// Search performs a full-text search over title, authors and venue.
func (d *DB) Search(query string, limit int) ([]StoredRecord, error) {
	return d.SearchWithFilters(SearchFilters{Keyword: query}, limit)
}

// SearchFilters contains optional filters for SearchWithFilters.
type SearchFilters struct {
	Keyword string // General keyword search across all indexed fields
	Type    string // Exact publication type (SQL)
	Author  string // Author name, prefix matching per word (FTS)
	Venue   string // Filter by venue (SQL LIKE, case-insensitive)
}

// SearchWithFilters performs a search with multiple optional filters.
// Returns records matching ALL specified criteria (AND logic).
func (d *DB) SearchWithFilters(filters SearchFilters, limit int) ([]StoredRecord, error) {
	var ftsTerms []string
	var args []interface{}

	if q := prepareFTSQuery(filters.Keyword); q != "" {
		ftsTerms = append(ftsTerms, "("+q+")")
	}
	if q := prepareAuthorQuery(filters.Author); q != "" {
		ftsTerms = append(ftsTerms, "authors_text:"+q)
	}

	var query string
	if len(ftsTerms) > 0 {
		query = `SELECT id, record_json FROM publications
			WHERE id IN (SELECT rowid FROM publications_fts WHERE publications_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query = `SELECT id, record_json FROM publications WHERE 1=1`
	}

	if filters.Type != "" {
		query += " AND type = ?"
		args = append(args, filters.Type)
	}
	if filters.Venue != "" {
		query += " AND venue LIKE ?"
		args = append(args, "%"+filters.Venue+"%")
	}

	query += " ORDER BY id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching with filters: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// prepareAuthorQuery prepares an author name for FTS5 search with prefix matching.
// It adds a wildcard (*) to enable fuzzy matching (e.g., "Dup" matches "Dupont").
func prepareAuthorQuery(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}

	var terms []string
	for _, part := range parts {
		part = strings.Trim(part, ".,;")
		if part == "" {
			continue
		}
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}
	if len(terms) == 0 {
		return ""
	}

	// Use OR for multi-word author queries (match any part)
	return "(" + strings.Join(terms, " OR ") + ")"
}

// ListAll returns all records in insertion order, optionally limited.
func (d *DB) ListAll(limit int) ([]StoredRecord, error) {
	query := `SELECT id, record_json FROM publications ORDER BY id`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the total number of records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&count)
	return count, err
}

// CountByType returns the number of records per publication type.
func (d *DB) CountByType() (map[string]int, error) {
	rows, err := d.db.Query("SELECT type, COUNT(*) FROM publications GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]StoredRecord, error) {
	var out []StoredRecord
	for rows.Next() {
		var id int64
		var recordJSON string
		if err := rows.Scan(&id, &recordJSON); err != nil {
			return nil, err
		}
		rec := publication.NewRecord()
		if err := json.Unmarshal([]byte(recordJSON), rec); err != nil {
			return nil, fmt.Errorf("parsing record JSON for %d: %w", id, err)
		}
		out = append(out, StoredRecord{ID: id, Record: rec})
	}
	return out, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery turns a keyword query into an FTS5 expression. Words that
// are plain FTS5 barewords pass through, so AND/OR/NOT still work between
// them; any other word is quoted as a phrase ("L'apprentissage" matches the
// tokens l and apprentissage in sequence). Words without a letter or digit
// are dropped, and an operator out of place is searched as a word.
func prepareFTSQuery(query string) string {
	words := strings.Fields(query)

	var terms []string
	for _, word := range words {
		if !strings.ContainsFunc(word, isTokenRune) {
			continue
		}
		terms = append(terms, word)
	}

	// An operator must sit between two operands.
	prevOperator := true
	for i, term := range terms {
		operator := ftsOperators[term] && !prevOperator && i < len(terms)-1
		if !operator && (ftsOperators[term] || !isBareword(term)) {
			terms[i] = "\"" + strings.ReplaceAll(term, "\"", "\"\"") + "\""
		}
		prevOperator = operator
	}
	return strings.Join(terms, " ")
}

// ftsOperators are the barewords FTS5 reads as boolean operators.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// isBareword reports whether s can appear unquoted in an FTS5 query.
func isBareword(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x80, r == 0x1a, r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
