// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/sqlref/pkg/types"
)

// leadingKeywords maps the first keyword of a statement to its kind.
var leadingKeywords = map[string]types.StatementKind{
	"SELECT": types.KindQuery,
	"WITH":   types.KindQuery,
	"VALUES": types.KindQuery,

	"CREATE":   types.KindDDL,
	"ALTER":    types.KindDDL,
	"DROP":     types.KindDDL,
	"TRUNCATE": types.KindDDL,

	"INSERT":  types.KindDML,
	"UPDATE":  types.KindDML,
	"DELETE":  types.KindDML,
	"MERGE":   types.KindDML,
	"REPLACE": types.KindDML,

	"BEGIN":     types.KindTCL,
	"START":     types.KindTCL,
	"COMMIT":    types.KindTCL,
	"ROLLBACK":  types.KindTCL,
	"SAVEPOINT": types.KindTCL,
	"RELEASE":   types.KindTCL,
}

// Classify labels a SQL example by its leading statement keyword. Comments
// before the first statement are ignored. Unknown keywords classify as
// KindOther.
func Classify(sql string) types.StatementKind {
	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		word := trimmed
		if i := strings.IndexAny(word, " \t("); i >= 0 {
			word = word[:i]
		}
		if kind, ok := leadingKeywords[strings.ToUpper(word)]; ok {
			return kind
		}
		return types.KindOther
	}
	return types.KindOther
}
