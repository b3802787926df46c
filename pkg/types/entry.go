// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StatementKind categorizes the leading statement of a command entry's SQL
// example by what it does to the database.
type StatementKind string

const (
	KindQuery StatementKind = "query" // SELECT, WITH, VALUES
	KindDDL   StatementKind = "ddl"   // CREATE, ALTER, DROP
	KindDML   StatementKind = "dml"   // INSERT, UPDATE, DELETE, MERGE
	KindTCL   StatementKind = "tcl"   // BEGIN, COMMIT, ROLLBACK, SAVEPOINT
	KindOther StatementKind = "other" // EXPLAIN, PRAGMA, GRANT, anything else
)

// Section is a heading that groups related command entries. Ordering of
// entries within a section reflects teaching order and is preserved by
// every stage that re-serializes them.
type Section struct {
	// Title is the heading text with the leading # characters stripped.
	Title string `json:"title" yaml:"title"`

	// Level is the heading nesting level (1 for #, 2 for ##, 3 for ###).
	Level int `json:"level" yaml:"level"`
}

// CommandEntry is a named SQL command or topic extracted from a reference
// document: a heading, a verbatim fenced sql block, and the explanation
// prose that follows it. Each entry belongs to exactly one Section.
type CommandEntry struct {
	// ID is a stable identifier derived from the document ID, section,
	// and SQL text. Re-extracting unchanged content yields the same ID.
	ID string `json:"id" yaml:"id"`

	// Name is the text of the nearest heading preceding the sql block.
	Name string `json:"name" yaml:"name"`

	// Section is the title of the enclosing ## heading, or the entry's own
	// heading when the document places the entry directly under # or ##.
	Section string `json:"section" yaml:"section"`

	// Level is the nesting level of the entry's heading.
	Level int `json:"level" yaml:"level"`

	// SQL is the verbatim content of the fenced block, fences excluded.
	SQL string `json:"sql" yaml:"sql"`

	// Explanation is the prose following the block, up to the next heading
	// or fence.
	Explanation string `json:"explanation" yaml:"explanation"`

	// Kind labels the leading statement of the SQL example.
	Kind StatementKind `json:"kind" yaml:"kind"`

	// DocID identifies the source document (filename without extension).
	DocID string `json:"doc_id" yaml:"doc_id"`

	// Position is the zero-based index of the entry within its document.
	Position int `json:"position" yaml:"position"`

	// Line is the 1-based line number of the opening fence in the source.
	Line int `json:"line" yaml:"line"`
}

// ExtractionResult holds the output of extracting one reference document.
type ExtractionResult struct {
	// DocID identifies the source document.
	DocID string `json:"doc_id" yaml:"doc_id"`

	// Title is the document's # heading, if present.
	Title string `json:"title" yaml:"title"`

	// Entries are the extracted command entries in document order.
	Entries []CommandEntry `json:"entries" yaml:"entries"`
}

// ValidationStatus is the outcome of validating one entry's SQL example.
type ValidationStatus string

const (
	ValidationOK      ValidationStatus = "ok"
	ValidationSkipped ValidationStatus = "skipped"
	ValidationFailed  ValidationStatus = "failed"
)
