// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/pdiddy/sqlref/pkg/types"
)

// Skeleton re-serializes an extraction result to the structural skeleton of
// its source document: heading, fenced sql block, explanation, in document
// order. Whitespace is normalized to one blank line between elements, so
// skeletons of two extractions of the same input are byte-equal.
func Skeleton(result *types.ExtractionResult) string {
	var b strings.Builder

	if result.Title != "" {
		fmt.Fprintf(&b, "# %s\n", result.Title)
	}

	lastSection := ""
	for _, e := range result.Entries {
		if e.Section != e.Name && e.Section != lastSection {
			fmt.Fprintf(&b, "\n## %s\n", e.Section)
			lastSection = e.Section
		}

		fmt.Fprintf(&b, "\n%s %s\n", strings.Repeat("#", e.Level), e.Name)
		fmt.Fprintf(&b, "\n```sql\n%s\n```\n", strings.TrimRight(e.SQL, "\n"))
		if e.Explanation != "" {
			fmt.Fprintf(&b, "\n%s\n", e.Explanation)
		}
	}

	return b.String()
}
