// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sqlref/internal/catalog"
	"github.com/pdiddy/sqlref/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the entry catalog (store, search, export)",
	Long: `Catalog manages a local SQLite catalog built from extracted command
entries. Use subcommands to index entries, search them, or export.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest extracted entries into the catalog",
	Long: `Store reads extraction YAML files from catalog/extracted/, ingests
them into a SQLite database with FTS5 indexing, and refreshes the export
file. Unchanged documents are skipped on subsequent runs.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog with full-text search and filters",
	Long: `Search queries the catalog using FTS5 full-text search over entry
names, SQL text, and explanations, plus structured filters (statement
kind, section, document).

Use --show with an entry ID to print the full source section from the
reference markdown.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	showID, _ := cmd.Flags().GetString("show")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	// Show mode: print the source section for a specific entry.
	if showID != "" {
		text, err := store.ShowSource(context.Background(), showID)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	opts := searchOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --kind, --section, or --doc")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []catalog.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-6s  %-20s  %-16s  %s\n",
		"ID", "Name", "Kind", "Section", "Doc", "Line")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range results {
		name := r.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		section := r.Section
		if len(section) > 20 {
			section = section[:17] + "..."
		}
		doc := r.DocID
		if len(doc) > 16 {
			doc = doc[:13] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-6s  %-20s  %-16s  %d\n",
			r.ID, name, r.Kind, section, doc, r.Line)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to
catalog/index/export.yaml or export.json. Supports the same filter flags
as search for partial exports.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := searchOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to catalog/index/export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to catalog/index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	if catalogDir == "" {
		catalogDir = "catalog"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.CatalogConfig{
		CatalogDir: catalogDir,
		DocsDir:    docsDir(cmd),
		MaxResults: maxResults,
	}
}

func searchOptsFromFlags(cmd *cobra.Command, args []string) catalog.SearchOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	kind, _ := cmd.Flags().GetString("kind")
	section, _ := cmd.Flags().GetString("section")
	docID, _ := cmd.Flags().GetString("doc")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.SearchOptions{
		Query:      queryText,
		Kind:       types.StatementKind(kind),
		Section:    section,
		DocID:      docID,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "base directory for catalog data (contains extracted/, index/)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	// Search flags.
	catalogSearchCmd.Flags().String("query", "", "full-text search query")
	catalogSearchCmd.Flags().String("kind", "", "filter by statement kind: query, ddl, dml, tcl, other")
	catalogSearchCmd.Flags().String("section", "", "filter by section title")
	catalogSearchCmd.Flags().String("doc", "", "filter by document ID")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().String("show", "", "print the source section for an entry ID")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	catalogExportCmd.Flags().String("kind", "", "filter by statement kind for partial export")
	catalogExportCmd.Flags().String("section", "", "filter by section title for partial export")
	catalogExportCmd.Flags().String("doc", "", "filter by document ID for partial export")
	catalogExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
