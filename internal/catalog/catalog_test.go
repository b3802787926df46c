package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sqlref/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	for _, dir := range []string{
		filepath.Join(tmpDir, "catalog", extractedDir),
		filepath.Join(tmpDir, "docs"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := types.CatalogConfig{
		CatalogDir: filepath.Join(tmpDir, "catalog"),
		DocsDir:    filepath.Join(tmpDir, "docs"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

func writeExtraction(t *testing.T, tmpDir, docID string, entries []types.CommandEntry) {
	t.Helper()
	result := types.ExtractionResult{
		DocID:   docID,
		Title:   "Reference: " + docID,
		Entries: entries,
	}
	data, err := yaml.Marshal(&result)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(tmpDir, "catalog", extractedDir, docID+"-entries.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeDoc(t *testing.T, tmpDir, docID, content string) {
	t.Helper()
	path := filepath.Join(tmpDir, "docs", docID+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func sampleEntries(docID string) []types.CommandEntry {
	return []types.CommandEntry{
		{
			ID: docID + "-e0", Name: "CREATE TABLE", Section: "Data Definition",
			Level: 3, SQL: "CREATE TABLE employees (id INTEGER);",
			Explanation: "Creates a table.", Kind: types.KindDDL,
			DocID: docID, Position: 0, Line: 7,
		},
		{
			ID: docID + "-e1", Name: "SELECT", Section: "Queries",
			Level: 3, SQL: "SELECT * FROM employees;",
			Explanation: "Reads every row from a table.", Kind: types.KindQuery,
			DocID: docID, Position: 1, Line: 15,
		},
		{
			ID: docID + "-e2", Name: "INSERT", Section: "Modification",
			Level: 3, SQL: "INSERT INTO employees VALUES (1);",
			Explanation: "Adds a row.", Kind: types.KindDML,
			DocID: docID, Position: 2, Line: 23,
		},
	}
}

func ingest(t *testing.T, store *Store) IngestSummary {
	t.Helper()
	summary, err := store.Ingest(context.Background(), &strings.Builder{})
	if err != nil {
		t.Fatal(err)
	}
	return summary
}

// --- tests ---

func TestIngest(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "sql-commands", sampleEntries("sql-commands"))

	summary := ingest(t, store)
	if summary.Indexed != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	results, err := store.Search(context.Background(), SearchOptions{DocID: "sql-commands"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Name != "CREATE TABLE" || results[0].DocTitle != "Reference: sql-commands" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	// Structured queries come back in document order.
	if results[1].Position != 1 || results[2].Position != 2 {
		t.Errorf("results out of document order: %+v", results)
	}
}

func TestIngest_SkipsUnchangedAndReplacesChanged(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "doc", sampleEntries("doc"))

	summary := ingest(t, store)
	if summary.Indexed != 1 {
		t.Fatalf("first run: %+v", summary)
	}

	summary = ingest(t, store)
	if summary.Skipped != 1 || summary.Indexed != 0 {
		t.Fatalf("second run should skip: %+v", summary)
	}

	// Rewrite with fewer entries and a bumped mtime; ingest must replace.
	writeExtraction(t, tmpDir, "doc", sampleEntries("doc")[:1])
	future := time.Now().Add(2 * time.Second)
	path := filepath.Join(tmpDir, "catalog", extractedDir, "doc-entries.yaml")
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	summary = ingest(t, store)
	if summary.Updated != 1 {
		t.Fatalf("third run should update: %+v", summary)
	}

	results, err := store.Search(context.Background(), SearchOptions{DocID: "doc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("stale entries not removed: got %d", len(results))
	}
}

func TestIngest_MalformedYAML(t *testing.T) {
	store, tmpDir := testSetup(t)
	path := filepath.Join(tmpDir, "catalog", extractedDir, "bad-entries.yaml")
	if err := os.WriteFile(path, []byte("[unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary := ingest(t, store)
	if summary.Failed != 1 {
		t.Fatalf("want 1 failure, got %+v", summary)
	}
}

func TestSearch_FullText(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "doc", sampleEntries("doc"))
	ingest(t, store)

	results, err := store.Search(context.Background(), SearchOptions{Query: "employees"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	results, err = store.Search(context.Background(), SearchOptions{Query: "reads"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "SELECT" {
		t.Fatalf("explanation search failed: %+v", results)
	}
}

func TestSearch_Filters(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "doc", sampleEntries("doc"))
	ingest(t, store)

	ctx := context.Background()

	results, err := store.Search(ctx, SearchOptions{Kind: types.KindDML})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "INSERT" {
		t.Fatalf("kind filter: %+v", results)
	}

	results, err = store.Search(ctx, SearchOptions{Section: "Queries"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "SELECT" {
		t.Fatalf("section filter: %+v", results)
	}

	results, err = store.Search(ctx, SearchOptions{Query: "employees", Kind: types.KindQuery})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "SELECT" {
		t.Fatalf("combined filter: %+v", results)
	}
}

func TestSearch_MaxResults(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "doc", sampleEntries("doc"))
	ingest(t, store)

	results, err := store.Search(context.Background(), SearchOptions{DocID: "doc", MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("limit not applied: got %d", len(results))
	}
}

func TestShowSource(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "doc", sampleEntries("doc"))
	// Fence lines match the Line fields of sampleEntries: 7, 15, 23.
	writeDoc(t, tmpDir, "doc",
		"# Reference\n\n## Data Definition\n\n### CREATE TABLE\n\n```sql\nCREATE TABLE employees (id INTEGER);\n```\n\nCreates a table.\n\n"+
			"### SELECT\n\n```sql\nSELECT * FROM employees;\n```\n\nReads every row from a table.\n\n"+
			"### INSERT\n\n```sql\nINSERT INTO employees VALUES (1);\n```\n\nAdds a row.\n")
	ingest(t, store)

	text, err := store.ShowSource(context.Background(), "doc-e1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "SELECT * FROM employees;") {
		t.Errorf("source context missing SQL: %q", text)
	}
	if !strings.Contains(text, "Reads every row") {
		t.Errorf("source context missing explanation: %q", text)
	}
	if strings.Contains(text, "INSERT") {
		t.Errorf("source context leaked next entry: %q", text)
	}

	if _, err := store.ShowSource(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown entry ID")
	}
}

func TestShowSource_DuplicateHeadingNames(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "dup", []types.CommandEntry{
		{
			ID: "dup-a", Name: "SELECT", Section: "Basics", Level: 3,
			SQL: "SELECT 1;", Explanation: "First form.", Kind: types.KindQuery,
			DocID: "dup", Position: 0, Line: 7,
		},
		{
			ID: "dup-b", Name: "SELECT", Section: "Variants", Level: 3,
			SQL: "SELECT 2;", Explanation: "Second form.", Kind: types.KindQuery,
			DocID: "dup", Position: 1, Line: 15,
		},
	})
	writeDoc(t, tmpDir, "dup",
		"# Reference\n\n## Basics\n\n### SELECT\n\n```sql\nSELECT 1;\n```\n\nFirst form.\n\n"+
			"### SELECT\n\n```sql\nSELECT 2;\n```\n\nSecond form.\n")
	ingest(t, store)

	text, err := store.ShowSource(context.Background(), "dup-b")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "SELECT 2;") || !strings.Contains(text, "Second form.") {
		t.Errorf("wrong heading resolved for later duplicate: %q", text)
	}
	if strings.Contains(text, "SELECT 1;") {
		t.Errorf("source context leaked earlier duplicate: %q", text)
	}
}

func TestExport(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeExtraction(t, tmpDir, "doc", sampleEntries("doc"))
	ingest(t, store)

	ctx := context.Background()

	if err := store.ExportJSON(ctx, SearchOptions{}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(tmpDir, "catalog", indexDir, "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	var jsonEntries []ExportEntry
	if err := json.Unmarshal(data, &jsonEntries); err != nil {
		t.Fatal(err)
	}
	if len(jsonEntries) != 3 {
		t.Fatalf("JSON export: got %d entries", len(jsonEntries))
	}

	// Ingest already wrote export.yaml; a filtered export overwrites it.
	if err := store.ExportYAML(ctx, SearchOptions{Kind: types.KindDDL}); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(filepath.Join(tmpDir, "catalog", indexDir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var yamlEntries []ExportEntry
	if err := yaml.Unmarshal(data, &yamlEntries); err != nil {
		t.Fatal(err)
	}
	if len(yamlEntries) != 1 || yamlEntries[0].Name != "CREATE TABLE" {
		t.Fatalf("filtered YAML export: %+v", yamlEntries)
	}
}
