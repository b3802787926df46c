// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sqlref/internal/lint"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the reference documents for structural defects",
	Long: `Lint walks every markdown document under docs/ and reports structural
defects: unterminated code fences, sql blocks without a preceding heading,
entries missing their explanation paragraph, duplicate entry names, and
heading levels that skip. The exit status is non-zero when findings exist,
so lint can gate CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		total, err := lint.Docs(docsDir(cmd), os.Stdout)
		if err != nil {
			return err
		}
		if total > 0 {
			return fmt.Errorf("%d finding(s)", total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
