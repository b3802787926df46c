// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds a command entry with its document title for export.
type ExportEntry struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Section     string `json:"section" yaml:"section"`
	Kind        string `json:"kind" yaml:"kind"`
	SQL         string `json:"sql" yaml:"sql"`
	Explanation string `json:"explanation" yaml:"explanation"`
	DocID       string `json:"doc_id" yaml:"doc_id"`
	DocTitle    string `json:"doc_title,omitempty" yaml:"doc_title,omitempty"`
	Line        int    `json:"line" yaml:"line"`
}

const exportLimit = 100000

// ExportYAML writes the catalog to catalogDir/index/export.yaml. It
// supports the same filters as Search.
func (s *Store) ExportYAML(ctx context.Context, opts SearchOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the catalog to catalogDir/index/export.json. It
// supports the same filters as Search.
func (s *Store) ExportJSON(ctx context.Context, opts SearchOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.catalogDir, indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts SearchOptions) ([]ExportEntry, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ID:          r.ID,
			Name:        r.Name,
			Section:     r.Section,
			Kind:        string(r.Kind),
			SQL:         r.SQL,
			Explanation: r.Explanation,
			DocID:       r.DocID,
			DocTitle:    r.DocTitle,
			Line:        r.Line,
		}
	}

	return entries, nil
}
