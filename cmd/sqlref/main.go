// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sqlref CLI, the maintenance
// toolchain for the SQL reference documents in docs/: extraction, linting,
// snippet validation, and the searchable catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sqlref CLI.
var rootCmd = &cobra.Command{
	Use:   "sqlref",
	Short: "Maintenance tooling for the SQL command reference",
	Long: `sqlref keeps the SQL reference documents under docs/ honest. The
documents themselves are the deliverable; sqlref extracts their command
entries, lints their structure, validates every example against an embedded
SQLite engine, and maintains a searchable catalog.

Each stage is a subcommand: extract, lint, validate, and catalog.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sqlref.yaml or ~/.config/sqlref/config.yaml)")
	rootCmd.PersistentFlags().String("docs-dir", "docs", "directory containing the reference markdown documents")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sqlref")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sqlref"))
		}
	}

	viper.SetEnvPrefix("SQLREF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// docsDir resolves the docs directory from the flag, falling back to config.
func docsDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("docs-dir")
	if cmd.Flags().Changed("docs-dir") || !viper.IsSet("docs_dir") {
		return dir
	}
	return viper.GetString("docs_dir")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
