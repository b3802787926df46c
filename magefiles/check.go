//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Check runs the full documentation gate: extract, lint, and validate over
// docs/. This is the target CI runs; it fails when any stage fails.
func Check() error {
	if err := Build(); err != nil {
		return err
	}

	bin := filepath.Join(binDir, binName)
	for _, stage := range []string{"extract", "lint", "validate"} {
		fmt.Printf("== sqlref %s\n", stage)
		cmd := exec.Command(bin, stage)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("sqlref %s: %w", stage, err)
		}
	}
	return nil
}
