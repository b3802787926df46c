// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lint checks reference markdown for the structural defects a
// reviewer would otherwise catch by hand. Unlike extraction, which halts on
// the first malformed construct, the linter walks the whole document and
// accumulates findings.
package lint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Finding is one structural defect in a document.
type Finding struct {
	// DocID identifies the document.
	DocID string
	// Line is the 1-based line number where the defect was observed.
	Line int
	// Message describes the defect.
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.DocID, f.Line, f.Message)
}

// Document lints a single document and returns its findings in line order.
func Document(docID, content string) []Finding {
	lines := strings.Split(content, "\n")

	var findings []Finding
	report := func(line int, format string, args ...any) {
		findings = append(findings, Finding{
			DocID:   docID,
			Line:    line,
			Message: fmt.Sprintf(format, args...),
		})
	}

	var (
		titleSeen    bool
		anyHeading   bool
		prevLevel    int
		headingLine  int
		heading      string
		inFence      bool
		fenceLine    int
		fenceIsSQL   bool
		sqlBody      []string
		awaitExplain bool // sql fence closed, explanation not yet seen
		seenNames    = map[string]int{}
	)

	for i, raw := range lines {
		n := i + 1
		line := strings.TrimSpace(raw)

		if inFence {
			if line == "```" {
				inFence = false
				if fenceIsSQL {
					if strings.TrimSpace(strings.Join(sqlBody, "\n")) == "" {
						report(fenceLine, "sql block under %q is empty", heading)
					}
					awaitExplain = true
				}
			} else {
				sqlBody = append(sqlBody, raw)
			}
			continue
		}

		if strings.HasPrefix(line, "```") {
			lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "```")))
			inFence = true
			fenceLine = n
			fenceIsSQL = lang == "sql"
			sqlBody = nil

			if fenceIsSQL {
				if awaitExplain {
					report(fenceLine, "entry %q has no explanation before the next sql block", heading)
					awaitExplain = false
				}
				if !anyHeading {
					report(n, "sql block has no preceding heading")
				}
			}
			continue
		}

		if level, title, ok := parseHeading(line); ok {
			if awaitExplain {
				report(headingLine, "entry %q has no explanation paragraph", heading)
				awaitExplain = false
			}
			if level == 1 {
				titleSeen = true
			}
			if prevLevel > 0 && level > prevLevel+1 {
				report(n, "heading level jumps from %d to %d at %q", prevLevel, level, title)
			}
			if level == 3 {
				if prev, dup := seenNames[title]; dup {
					report(n, "duplicate entry name %q (first at line %d)", title, prev)
				} else {
					seenNames[title] = n
				}
			}
			anyHeading = true
			prevLevel = level
			heading = title
			headingLine = n
			continue
		}

		if line != "" {
			awaitExplain = false
		}
	}

	if inFence {
		report(fenceLine, "unterminated code fence")
	}
	if awaitExplain {
		report(headingLine, "entry %q has no explanation paragraph", heading)
	}
	if !titleSeen {
		report(1, "document has no # title heading")
	}

	return findings
}

// Docs lints every .md file in docsDir, printing findings to w. It returns
// the total finding count.
func Docs(docsDir string, w io.Writer) (int, error) {
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		return 0, fmt.Errorf("reading docs directory %s: %w", docsDir, err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		docID := strings.TrimSuffix(entry.Name(), ".md")
		content, err := os.ReadFile(filepath.Join(docsDir, entry.Name()))
		if err != nil {
			return total, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		findings := Document(docID, string(content))
		for _, f := range findings {
			fmt.Fprintln(w, f)
		}
		total += len(findings)
	}

	if total == 0 {
		fmt.Fprintln(w, "no findings")
	} else {
		fmt.Fprintf(w, "\n%d finding(s)\n", total)
	}
	return total, nil
}

// parseHeading reports whether line is a #-style heading and returns its
// level and title.
func parseHeading(line string) (int, string, bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level:]), true
}
