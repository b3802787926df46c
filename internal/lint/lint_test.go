// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lint

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantMsgs []string
	}{
		{
			name: "clean document",
			doc:  "# Reference\n\n## Queries\n\n### SELECT\n\n```sql\nSELECT 1;\n```\n\nReads rows.\n",
		},
		{
			name:     "missing title",
			doc:      "## Queries\n\n### SELECT\n\n```sql\nSELECT 1;\n```\n\nReads rows.\n",
			wantMsgs: []string{"no # title"},
		},
		{
			name:     "unterminated fence",
			doc:      "# T\n\n## Q\n\n### SELECT\n\n```sql\nSELECT 1;\n",
			wantMsgs: []string{"unterminated code fence"},
		},
		{
			name:     "sql block without heading",
			doc:      "Prose only.\n\n```sql\nSELECT 1;\n```\n\nText.\n",
			wantMsgs: []string{"no preceding heading", "no # title"},
		},
		{
			name:     "missing explanation at end of document",
			doc:      "# T\n\n## Q\n\n### SELECT\n\n```sql\nSELECT 1;\n```\n",
			wantMsgs: []string{`entry "SELECT" has no explanation`},
		},
		{
			name:     "missing explanation before next entry",
			doc:      "# T\n\n## Q\n\n### A\n\n```sql\nSELECT 1;\n```\n\n### B\n\n```sql\nSELECT 2;\n```\n\nFine.\n",
			wantMsgs: []string{`entry "A" has no explanation`},
		},
		{
			name:     "two sql blocks under one heading need prose between",
			doc:      "# T\n\n## Q\n\n### A\n\n```sql\nSELECT 1;\n```\n\n```sql\nSELECT 2;\n```\n\nFine.\n",
			wantMsgs: []string{"no explanation before the next sql block"},
		},
		{
			name:     "empty sql block",
			doc:      "# T\n\n## Q\n\n### A\n\n```sql\n```\n\nProse.\n",
			wantMsgs: []string{"is empty"},
		},
		{
			name:     "duplicate entry names",
			doc:      "# T\n\n## Q\n\n### SELECT\n\n```sql\nSELECT 1;\n```\n\nOne.\n\n### SELECT\n\n```sql\nSELECT 2;\n```\n\nTwo.\n",
			wantMsgs: []string{`duplicate entry name "SELECT"`},
		},
		{
			name:     "heading level jump",
			doc:      "# T\n\n### Deep\n\n```sql\nSELECT 1;\n```\n\nProse.\n",
			wantMsgs: []string{"heading level jumps from 1 to 3"},
		},
		{
			name: "non-sql fence content is not linted",
			doc:  "# T\n\n## S\n\n### A\n\n```sql\nSELECT 1;\n```\n\nProse.\n\n```text\n### not a heading\n```\n\nMore prose.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Document("doc", tt.doc)
			require.Len(t, findings, len(tt.wantMsgs), "findings: %v", findings)
			for i, want := range tt.wantMsgs {
				assert.Contains(t, findings[i].Message, want)
			}
		})
	}
}

func TestDocs(t *testing.T) {
	dir := t.TempDir()
	clean := "# T\n\n## S\n\n### A\n\n```sql\nSELECT 1;\n```\n\nProse.\n"
	dirty := "## S\n\n```sql\nSELECT 1;\n"

	require.NoError(t, os.WriteFile(filepath.Join(dir, "clean.md"), []byte(clean), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dirty.md"), []byte(dirty), 0o644))

	var out bytes.Buffer
	total, err := Docs(dir, &out)
	require.NoError(t, err)

	// dirty.md: unterminated fence, missing explanation is not reported
	// (the fence never closed), missing title.
	assert.Equal(t, 2, total)
	assert.Contains(t, out.String(), "dirty:")
	assert.NotContains(t, out.String(), "clean:")
}

func TestDocs_NoFindings(t *testing.T) {
	dir := t.TempDir()
	clean := "# T\n\n## S\n\n### A\n\n```sql\nSELECT 1;\n```\n\nProse.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clean.md"), []byte(clean), 0o644))

	var out bytes.Buffer
	total, err := Docs(dir, &out)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Contains(t, out.String(), "no findings")
}

// The reference documents shipped in docs/ must lint cleanly.
func TestDocs_ShippedDocs(t *testing.T) {
	var out bytes.Buffer
	total, err := Docs(filepath.Join("..", "..", "docs"), &out)
	require.NoError(t, err)
	assert.Zero(t, total, "findings:\n%s", out.String())
}
