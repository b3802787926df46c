// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract scans reference markdown and produces ordered
// CommandEntry records, one per fenced sql block.
package extract

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sqlref/pkg/types"
)

const extractedDir = "extracted"

// MalformedDocumentError reports a structural defect that halts extraction:
// a fenced code block with no preceding heading, or a fence left
// unterminated at end of input.
type MalformedDocumentError struct {
	// DocID identifies the document, when known.
	DocID string
	// Line is the 1-based line number of the offending fence.
	Line int
	// Reason describes the defect.
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.DocID != "" {
		return fmt.Sprintf("malformed document %s: line %d: %s", e.DocID, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed document: line %d: %s", e.Line, e.Reason)
}

// Scanner walks a document in a single pass and yields one CommandEntry per
// fenced sql block, in document order. The scan is pure: re-running a new
// Scanner over the same input yields an identical sequence.
type Scanner struct {
	docID string
	lines []string

	pos      int // next line to examine
	position int // entries emitted so far

	title          string // document # heading
	heading        string // nearest heading text
	headingLevel   int
	section        string // nearest ## heading text
	anyHeadingSeen bool

	entry types.CommandEntry
	err   error
	done  bool
}

// NewScanner returns a Scanner over content. docID labels the source
// document and feeds into stable entry IDs.
func NewScanner(docID, content string) *Scanner {
	return &Scanner{
		docID: docID,
		lines: strings.Split(content, "\n"),
	}
}

// Next advances to the next sql block. It returns false at end of input or
// on error; check Err after the loop.
func (s *Scanner) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		trimmed := strings.TrimSpace(line)
		s.pos++

		if level, title, ok := parseHeading(trimmed); ok {
			s.heading = title
			s.headingLevel = level
			s.anyHeadingSeen = true
			if level == 1 && s.title == "" {
				s.title = title
			}
			if level == 2 {
				s.section = title
			}
			continue
		}

		lang, isFence := parseFenceOpen(trimmed)
		if !isFence {
			continue
		}

		openLine := s.pos // s.pos already advanced past the fence
		body, ok := s.consumeFence()
		if !ok {
			s.err = &MalformedDocumentError{DocID: s.docID, Line: openLine, Reason: "unterminated code fence"}
			return false
		}

		if lang != "sql" {
			continue
		}

		if !s.anyHeadingSeen {
			s.err = &MalformedDocumentError{DocID: s.docID, Line: openLine, Reason: "sql code block has no preceding heading"}
			return false
		}

		section := s.section
		if section == "" {
			section = s.heading
		}

		sql := strings.Join(body, "\n")
		s.entry = types.CommandEntry{
			ID:          stableID(s.docID, section, sql),
			Name:        s.heading,
			Section:     section,
			Level:       s.headingLevel,
			SQL:         sql,
			Explanation: s.consumeExplanation(),
			Kind:        Classify(sql),
			DocID:       s.docID,
			Position:    s.position,
			Line:        openLine,
		}
		s.position++
		return true
	}

	s.done = true
	return false
}

// Entry returns the entry produced by the last successful Next.
func (s *Scanner) Entry() types.CommandEntry {
	return s.entry
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Title returns the document's # heading seen so far, if any.
func (s *Scanner) Title() string {
	return s.title
}

// consumeFence reads lines up to and including the closing fence. It
// returns the body and false when input ends before the fence closes.
func (s *Scanner) consumeFence() ([]string, bool) {
	var body []string
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		s.pos++
		if isFenceClose(strings.TrimSpace(line)) {
			return body, true
		}
		body = append(body, line)
	}
	return nil, false
}

// consumeExplanation reads the prose following a closed sql fence, up to
// the next heading, fence, or end of input. The boundary line is left for
// the main loop.
func (s *Scanner) consumeExplanation() string {
	var para []string
	for s.pos < len(s.lines) {
		trimmed := strings.TrimSpace(s.lines[s.pos])
		if _, _, ok := parseHeading(trimmed); ok {
			break
		}
		if _, ok := parseFenceOpen(trimmed); ok {
			break
		}
		para = append(para, s.lines[s.pos])
		s.pos++
	}
	return strings.TrimSpace(strings.Join(para, "\n"))
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

// parseFenceOpen reports whether line opens a fenced code block and returns
// the language label, lowercased.
func parseFenceOpen(line string) (string, bool) {
	if !strings.HasPrefix(line, "```") {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "```"))), true
}

// isFenceClose reports whether line terminates an open fence.
func isFenceClose(line string) bool {
	return line == "```"
}

// stableID generates a deterministic ID from document, section, and SQL
// text. The ID is the first 12 hex characters of the SHA-256 digest.
func stableID(docID, section, sql string) string {
	h := sha256.New()
	h.Write([]byte(docID))
	h.Write([]byte(section))
	h.Write([]byte(sql))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// ExtractAll collects the full entry sequence for one document.
func ExtractAll(docID, content string) (*types.ExtractionResult, error) {
	sc := NewScanner(docID, content)
	result := &types.ExtractionResult{DocID: docID}
	for sc.Next() {
		result.Entries = append(result.Entries, sc.Entry())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	result.Title = sc.Title()
	return result, nil
}

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any documents failed extraction.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractDocs processes all .md files in cfg.DocsDir and writes one
// [docID]-entries.yaml per document to cfg.CatalogDir/extracted/. Documents
// whose markdown is older than the existing output are skipped.
func ExtractDocs(cfg types.ExtractConfig, w io.Writer) (BatchSummary, error) {
	outDir := filepath.Join(cfg.CatalogDir, extractedDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := os.ReadDir(cfg.DocsDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading docs directory %s: %w", cfg.DocsDir, err)
	}

	var summary BatchSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		docID := strings.TrimSuffix(entry.Name(), ".md")
		mdPath := filepath.Join(cfg.DocsDir, entry.Name())
		outPath := filepath.Join(outDir, docID+"-entries.yaml")

		changed, err := hasChanged(mdPath, outPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		if !changed {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}

		content, err := os.ReadFile(mdPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		result, err := ExtractAll(docID, string(content))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if err := writeResult(outPath, result); err != nil {
			fmt.Fprintf(w, "failed  %s: write error: %v\n", docID, err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "extracted %s (%d entries)\n", docID, len(result.Entries))
		summary.Extracted++
	}

	fmt.Fprintf(w, "\nextracted: %d, skipped: %d, failed: %d\n",
		summary.Extracted, summary.Skipped, summary.Failed)

	return summary, nil
}

// hasChanged reports whether the markdown file is newer than the output
// file. Returns true if the output does not exist.
func hasChanged(mdPath, outPath string) (bool, error) {
	mdInfo, err := os.Stat(mdPath)
	if err != nil {
		return false, fmt.Errorf("stat markdown %s: %w", mdPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return mdInfo.ModTime().After(outInfo.ModTime()), nil
}

// writeResult marshals the ExtractionResult to a YAML file.
func writeResult(path string, result *types.ExtractionResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
