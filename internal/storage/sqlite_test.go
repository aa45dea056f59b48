package storage

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/matsen/pubex/internal/publication"
)

// setupTestDB creates a test database rebuilt from a JSONL file of test records.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	jsonlPath := filepath.Join(tmpDir, "records.jsonl")

	if _, err := AppendRecords(jsonlPath, slices.Values(testRecords())); err != nil {
		t.Fatalf("Failed to write test JSONL: %v", err)
	}

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("Failed to rebuild DB: %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildFromJSONL() = %d, want 3", n)
	}

	return db
}

func titles(recs []StoredRecord) []string {
	var out []string
	for _, r := range recs {
		title, _ := r.Record.Get("title")
		out = append(out, title)
	}
	return out
}

func TestOpenDB_CreatesSchema(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "new.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	defer db.Close()

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}

func TestRebuildFromJSONL_Replaces(t *testing.T) {
	tmpDir := t.TempDir()
	jsonlPath := filepath.Join(tmpDir, "records.jsonl")
	if _, err := AppendRecords(jsonlPath, slices.Values(testRecords())); err != nil {
		t.Fatalf("AppendRecords() error = %v", err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
			t.Fatalf("RebuildFromJSONL() error = %v", err)
		}
	}

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() after two rebuilds = %d, want 3", count)
	}
}

func TestListAll(t *testing.T) {
	db := setupTestDB(t)

	recs, err := db.ListAll(0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	want := []string{"Title of the Paper", "Some title", "Étude des systèmes"}
	if got := titles(recs); !slices.Equal(got, want) {
		t.Errorf("ListAll() titles = %v, want %v", got, want)
	}

	limited, err := db.ListAll(2)
	if err != nil {
		t.Fatalf("ListAll(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListAll(2) returned %d records", len(limited))
	}
}

func TestListAll_PreservesRecord(t *testing.T) {
	db := setupTestDB(t)

	recs, err := db.ListAll(1)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	want := testRecords()[0]
	got := recs[0].Record
	if !slices.Equal(got.Authors, want.Authors) {
		t.Errorf("Authors = %v, want %v", got.Authors, want.Authors)
	}
	if !slices.Equal(got.Fields(), want.Fields()) {
		t.Errorf("Fields() = %v, want %v", got.Fields(), want.Fields())
	}
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"paper", []string{"Title of the Paper"}},
		{"systèmes", []string{"Étude des systèmes"}},
		{"Dupont", []string{"Title of the Paper"}},
		{"Testing", []string{"Some title"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			recs, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if got := titles(recs); !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearchWithFilters(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name    string
		filters SearchFilters
		want    []string
	}{
		{"type only", SearchFilters{Type: "Revue"}, []string{"Étude des systèmes"}},
		{"author prefix", SearchFilters{Author: "Mart"}, []string{"Title of the Paper"}},
		{"author with initial", SearchFilters{Author: "A. Author"}, []string{"Some title"}},
		{"venue", SearchFilters{Venue: "conférence"}, []string{"Title of the Paper"}},
		{"keyword and type", SearchFilters{Keyword: "title", Type: "Journal"}, []string{"Some title"}},
		{"no match", SearchFilters{Keyword: "paper", Type: "Revue"}, nil},
		{"keyword OR and author", SearchFilters{Keyword: "paper OR title", Author: "Author"}, []string{"Some title"}},
		{"empty", SearchFilters{}, []string{"Title of the Paper", "Some title", "Étude des systèmes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := db.SearchWithFilters(tt.filters, 10)
			if err != nil {
				t.Fatalf("SearchWithFilters() error = %v", err)
			}
			if got := titles(recs); !slices.Equal(got, tt.want) {
				t.Errorf("SearchWithFilters(%+v) = %v, want %v", tt.filters, got, tt.want)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	db := setupTestDB(t)

	rec := testRecords()[1]
	id, err := db.Insert(rec)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id != 4 {
		t.Errorf("Insert() id = %d, want 4", id)
	}

	counts, err := db.CountByType()
	if err != nil {
		t.Fatalf("CountByType() error = %v", err)
	}
	want := map[string]int{"Conference": 1, "Journal": 2, "Revue": 1}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("CountByType()[%s] = %d, want %d", k, counts[k], v)
		}
	}

	recs, err := db.Search("Testing", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("Search() after insert returned %d records, want 2", len(recs))
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  paper  ", "paper"},
		{"systèmes", "systèmes"},
		{"J. Dupont", `"J." Dupont`},
		{`say "hi"`, `say """hi"""`},
		{"L'apprentissage", `"L'apprentissage"`},
		{"apprentissage/automatique", `"apprentissage/automatique"`},
		{"Bob & co", "Bob co"},
		{"paper OR title", "paper OR title"},
		{"OR paper", `"OR" paper`},
		{"paper NOT", `paper "NOT"`},
		{"paper AND OR title", `paper AND "OR" title`},
		{"?!", ""},
	}

	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrepareAuthorQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Dupont", `("Dupont"*)`},
		{"J. Dupont", `("J"* OR "Dupont"*)`},
	}

	for _, tt := range tests {
		if got := prepareAuthorQuery(tt.in); got != tt.want {
			t.Errorf("prepareAuthorQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearch_PunctuatedKeywords(t *testing.T) {
	db := setupTestDB(t)

	rec := publication.Revue.Extract("A. Bob. L'apprentissage automatique. Revue française, 2019")
	if _, err := db.Insert(rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"L'apprentissage", []string{"L'apprentissage automatique"}},
		{"l'apprentissage automatique", []string{"L'apprentissage automatique"}},
		{"apprentissage/automatique", []string{"L'apprentissage automatique"}},
		{"Bob & automatique", []string{"L'apprentissage automatique"}},
		{"qu'il", nil},
		{"paper OR automatique", []string{"Title of the Paper", "L'apprentissage automatique"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			recs, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if got := titles(recs); !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
