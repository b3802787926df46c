// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sqlref/internal/extract"
	"github.com/pdiddy/sqlref/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract command entries from the reference documents",
	Long: `Extract scans every markdown document under docs/, pairs each fenced
sql block with its heading and explanation, and writes one
[doc]-entries.yaml file per document to catalog/extracted/. Documents
whose markdown has not changed since the last run are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogDir, _ := cmd.Flags().GetString("catalog-dir")

		cfg := types.ExtractConfig{
			DocsDir:    docsDir(cmd),
			CatalogDir: catalogDir,
		}

		summary, err := extract.ExtractDocs(cfg, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().String("catalog-dir", "catalog", "base directory for catalog data (contains extracted/, index/)")

	rootCmd.AddCommand(extractCmd)
}
