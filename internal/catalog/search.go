// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/sqlref/pkg/types"
)

// SearchOptions holds parameters for catalog queries.
type SearchOptions struct {
	// Query is the FTS5 full-text search string over name, SQL, and
	// explanation.
	Query string

	// Kind filters by statement kind.
	Kind types.StatementKind

	// Section filters by section title.
	Section string

	// DocID filters by source document.
	DocID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (o SearchOptions) IsEmpty() bool {
	return o.Query == "" && o.Kind == "" && o.Section == "" && o.DocID == ""
}

// SearchResult is a CommandEntry with its document title.
type SearchResult struct {
	types.CommandEntry
	DocTitle string `json:"doc_title" yaml:"doc_title"`
}

// Search queries the catalog with optional full-text search and structured
// filters. Full-text results are ranked by relevance; structured-only
// results come back in document order.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT e.id, e.name, e.section, e.level, e.sql_text, e.explanation,
				e.kind, e.doc_id, e.position, e.line, d.title
			FROM entries_fts
			JOIN entries e ON e.rowid = entries_fts.rowid
			LEFT JOIN documents d ON e.doc_id = d.id
			WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT e.id, e.name, e.section, e.level, e.sql_text, e.explanation,
				e.kind, e.doc_id, e.position, e.line, d.title
			FROM entries e
			LEFT JOIN documents d ON e.doc_id = d.id
			WHERE 1=1`)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND e.kind = ?`)
		args = append(args, string(opts.Kind))
	}

	if opts.Section != "" {
		qb.WriteString(` AND e.section = ?`)
		args = append(args, opts.Section)
	}

	if opts.DocID != "" {
		qb.WriteString(` AND e.doc_id = ?`)
		args = append(args, opts.DocID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY entries_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.doc_id, e.position`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r        SearchResult
			kind     string
			docTitle sql.NullString
		)

		if err := rows.Scan(
			&r.ID, &r.Name, &r.Section, &r.Level, &r.SQL, &r.Explanation,
			&kind, &r.DocID, &r.Position, &r.Line, &docTitle,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.Kind = types.StatementKind(kind)
		if docTitle.Valid {
			r.DocTitle = docTitle.String
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

// ShowSource returns the full source section from the reference markdown
// for a given entry ID.
func (s *Store) ShowSource(ctx context.Context, entryID string) (string, error) {
	var (
		docID string
		line  int
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT doc_id, line FROM entries WHERE id = ?`, entryID,
	).Scan(&docID, &line)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("entry %s not found", entryID)
		}
		return "", fmt.Errorf("looking up entry: %w", err)
	}

	mdPath := filepath.Join(s.docsDir, docID+".md")
	content, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", mdPath, err)
	}

	return sourceContext(string(content), line), nil
}

// sourceContext returns the markdown under the heading that precedes the
// entry's fence at line (1-based), up to the next heading of any level.
// Looking up by line rather than heading text keeps entries with duplicate
// names apart.
func sourceContext(content string, line int) string {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	start := line - 1
	for start > 0 && !strings.HasPrefix(strings.TrimSpace(lines[start]), "#") {
		start--
	}

	var result []string
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
			break
		}
		result = append(result, lines[i])
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
