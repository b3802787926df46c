// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks that the SQL examples in the reference documents
// are accepted by a real engine. Each entry runs against a throwaway
// in-memory SQLite database; the reference does not ship an engine of its
// own.
package validate

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sqlref/internal/extract"
	"github.com/pdiddy/sqlref/pkg/types"
)

// Result is the validation outcome for one command entry.
type Result struct {
	Entry  types.CommandEntry
	Status types.ValidationStatus
	// Detail carries the engine error for failed entries and the matched
	// pattern for skipped ones.
	Detail string
}

// Summary holds counts from a validation run.
type Summary struct {
	OK      int
	Skipped int
	Failed  int
}

// Total returns the number of entries validated.
func (s Summary) Total() int {
	return s.OK + s.Skipped + s.Failed
}

// HasFailures reports whether any entries failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Validator runs command entries against in-memory SQLite databases.
type Validator struct {
	mode     types.ValidationMode
	fixtures string
	skips    []string
}

// New builds a Validator from cfg, loading the fixture SQL if configured.
func New(cfg types.ValidateConfig) (*Validator, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = types.ModePrepare
	}
	if mode != types.ModePrepare && mode != types.ModeExecute {
		return nil, fmt.Errorf("unknown validation mode %q", mode)
	}

	v := &Validator{mode: mode, skips: cfg.SkipPatterns}

	if cfg.FixturesPath != "" {
		data, err := os.ReadFile(cfg.FixturesPath)
		if err != nil {
			return nil, fmt.Errorf("reading fixtures %s: %w", cfg.FixturesPath, err)
		}
		v.fixtures = string(data)
	}

	return v, nil
}

// Entry validates a single command entry. Entries matching a skip pattern
// are reported skipped without touching the engine.
func (v *Validator) Entry(entry types.CommandEntry) Result {
	for _, pattern := range v.skips {
		if strings.Contains(strings.ToLower(entry.SQL), strings.ToLower(pattern)) {
			return Result{Entry: entry, Status: types.ValidationSkipped, Detail: pattern}
		}
	}

	db, err := openScratch()
	if err != nil {
		return Result{Entry: entry, Status: types.ValidationFailed, Detail: err.Error()}
	}
	defer db.Close()

	if v.fixtures != "" {
		if _, err := db.Exec(v.fixtures); err != nil {
			return Result{Entry: entry, Status: types.ValidationFailed, Detail: fmt.Sprintf("fixtures: %v", err)}
		}
	}

	for i, stmt := range SplitStatements(entry.SQL) {
		if err := v.checkStatement(db, stmt); err != nil {
			return Result{
				Entry:  entry,
				Status: types.ValidationFailed,
				Detail: fmt.Sprintf("statement %d: %v", i+1, err),
			}
		}
	}

	return Result{Entry: entry, Status: types.ValidationOK}
}

func (v *Validator) checkStatement(db *sql.DB, stmt string) error {
	if v.mode == types.ModeExecute {
		_, err := db.Exec(stmt)
		return err
	}

	prepared, err := db.Prepare(stmt)
	if err != nil {
		return err
	}
	if err := prepared.Close(); err != nil {
		return err
	}

	// Schema and transaction statements still run in prepare mode so that
	// later statements in the same example resolve their objects.
	switch extract.Classify(stmt) {
	case types.KindDDL, types.KindTCL:
		_, err := db.Exec(stmt)
		return err
	}
	return nil
}

// openScratch opens a fresh in-memory database. The pool is pinned to one
// connection so every statement of an entry sees the same database.
func openScratch() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening scratch database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Entries validates a batch of entries, printing per-entry status lines
// to w and a closing summary.
func (v *Validator) Entries(entries []types.CommandEntry, w io.Writer) Summary {
	var summary Summary

	for _, entry := range entries {
		res := v.Entry(entry)
		switch res.Status {
		case types.ValidationOK:
			fmt.Fprintf(w, "ok      %s: %s\n", entry.DocID, entry.Name)
			summary.OK++
		case types.ValidationSkipped:
			fmt.Fprintf(w, "skipped %s: %s (%s)\n", entry.DocID, entry.Name, res.Detail)
			summary.Skipped++
		case types.ValidationFailed:
			fmt.Fprintf(w, "failed  %s: %s: %s\n", entry.DocID, entry.Name, res.Detail)
			summary.Failed++
		}
	}

	fmt.Fprintf(w, "\nok: %d, skipped: %d, failed: %d\n",
		summary.OK, summary.Skipped, summary.Failed)

	return summary
}

// Docs extracts every .md document in cfg.DocsDir and validates all
// extracted entries. Extraction failures count as validation failures for
// the document.
func (v *Validator) Docs(docsDir string, w io.Writer) (Summary, error) {
	dirEntries, err := os.ReadDir(docsDir)
	if err != nil {
		return Summary{}, fmt.Errorf("reading docs directory %s: %w", docsDir, err)
	}

	var all []types.CommandEntry
	var summary Summary

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}

		docID := strings.TrimSuffix(de.Name(), ".md")
		content, err := os.ReadFile(filepath.Join(docsDir, de.Name()))
		if err != nil {
			return summary, fmt.Errorf("reading %s: %w", de.Name(), err)
		}

		result, err := extract.ExtractAll(docID, string(content))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		all = append(all, result.Entries...)
	}

	batch := v.Entries(all, w)
	summary.OK += batch.OK
	summary.Skipped += batch.Skipped
	summary.Failed += batch.Failed
	return summary, nil
}
