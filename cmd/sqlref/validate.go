// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sqlref/internal/validate"
	"github.com/pdiddy/sqlref/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run every SQL example against an embedded SQLite engine",
	Long: `Validate extracts the command entries from docs/ and checks each SQL
example against a throwaway in-memory SQLite database. In prepare mode
(the default) statements are compiled but queries are not run; execute
mode runs everything. Examples using constructs SQLite does not accept
can be listed as skip patterns in sqlref.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		fixtures, _ := cmd.Flags().GetString("fixtures")
		if fixtures == "" {
			fixtures = viper.GetString("validate.fixtures_path")
		}

		cfg := types.ValidateConfig{
			DocsDir:      docsDir(cmd),
			Mode:         types.ValidationMode(mode),
			FixturesPath: fixtures,
			SkipPatterns: viper.GetStringSlice("validate.skip_patterns"),
		}

		v, err := validate.New(cfg)
		if err != nil {
			return err
		}

		summary, err := v.Docs(cfg.DocsDir, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d example(s) failed validation", summary.Failed)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("mode", "prepare", "validation mode: prepare or execute")
	validateCmd.Flags().String("fixtures", "", "SQL file applied to the database before validating")

	rootCmd.AddCommand(validateCmd)
}
