// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "single statement",
			sql:  "SELECT 1;",
			want: []string{"SELECT 1;"},
		},
		{
			name: "two statements",
			sql:  "CREATE TABLE t (id INTEGER);\nINSERT INTO t VALUES (1);",
			want: []string{"CREATE TABLE t (id INTEGER);", "INSERT INTO t VALUES (1);"},
		},
		{
			name: "missing trailing semicolon",
			sql:  "SELECT 1",
			want: []string{"SELECT 1"},
		},
		{
			name: "semicolon inside string literal",
			sql:  "SELECT 'a;b' AS v;",
			want: []string{"SELECT 'a;b' AS v;"},
		},
		{
			name: "escaped quote inside string",
			sql:  "SELECT 'it''s; fine';",
			want: []string{"SELECT 'it''s; fine';"},
		},
		{
			name: "semicolon inside quoted identifier",
			sql:  `SELECT 1 AS "a;b";`,
			want: []string{`SELECT 1 AS "a;b";`},
		},
		{
			name: "semicolon inside line comment",
			sql:  "SELECT 1 -- trailing; comment\n+ 2;",
			want: []string{"SELECT 1 -- trailing; comment\n+ 2;"},
		},
		{
			name: "semicolon inside block comment",
			sql:  "SELECT /* a;b */ 1;",
			want: []string{"SELECT /* a;b */ 1;"},
		},
		{
			name: "comment-only chunks dropped",
			sql:  "-- just a comment\nSELECT 1;\n-- another\n",
			want: []string{"SELECT 1;"},
		},
		{
			name: "empty input",
			sql:  "",
			want: nil,
		},
		{
			name: "trigger body stays one statement",
			sql:  "CREATE TRIGGER log_change AFTER UPDATE ON t\nBEGIN\n  INSERT INTO log VALUES (NEW.id);\nEND;\nSELECT 1;",
			want: []string{
				"CREATE TRIGGER log_change AFTER UPDATE ON t\nBEGIN\n  INSERT INTO log VALUES (NEW.id);\nEND;",
				"SELECT 1;",
			},
		},
		{
			name: "trigger body with CASE expression stays one statement",
			sql:  "CREATE TRIGGER tr AFTER UPDATE ON t\nBEGIN\n  UPDATE t SET c = CASE WHEN NEW.x > 0 THEN 1 ELSE 2 END;\nEND;",
			want: []string{
				"CREATE TRIGGER tr AFTER UPDATE ON t\nBEGIN\n  UPDATE t SET c = CASE WHEN NEW.x > 0 THEN 1 ELSE 2 END;\nEND;",
			},
		},
		{
			name: "trigger with multiple body statements",
			sql:  "CREATE TRIGGER tr AFTER INSERT ON t\nBEGIN\n  UPDATE t SET n = n + 1;\n  INSERT INTO log VALUES (NEW.id);\nEND;",
			want: []string{
				"CREATE TRIGGER tr AFTER INSERT ON t\nBEGIN\n  UPDATE t SET n = n + 1;\n  INSERT INTO log VALUES (NEW.id);\nEND;",
			},
		},
		{
			name: "leading comment attached to statement",
			sql:  "-- what it does\nSELECT 1;",
			want: []string{"-- what it does\nSELECT 1;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.sql))
		})
	}
}
