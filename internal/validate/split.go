// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import "strings"

// SplitStatements splits a SQL example into individual statements on
// terminating semicolons. Semicolons inside single-quoted strings,
// double-quoted identifiers, line comments, and block comments do not
// terminate a statement. Statements that are empty or comment-only after
// trimming are dropped.
func SplitStatements(sql string) []string {
	var (
		stmts []string
		start int
		i     int
	)

	for i < len(sql) {
		switch c := sql[i]; c {
		case '\'', '"':
			i = skipQuoted(sql, i, c)
		case '-':
			if i+1 < len(sql) && sql[i+1] == '-' {
				i = skipLineComment(sql, i)
			} else {
				i++
			}
		case '/':
			if i+1 < len(sql) && sql[i+1] == '*' {
				i = skipBlockComment(sql, i)
			} else {
				i++
			}
		case ';':
			if inTriggerBody(sql[start:i]) {
				i++
				continue
			}
			if stmt := strings.TrimSpace(sql[start : i+1]); !commentOnly(stmt) {
				stmts = append(stmts, stmt)
			}
			i++
			start = i
		default:
			i++
		}
	}

	if stmt := strings.TrimSpace(sql[start:]); stmt != "" && !commentOnly(stmt) {
		stmts = append(stmts, stmt)
	}

	return stmts
}

// skipQuoted advances past a quoted region opened at i by quote. A doubled
// quote character inside the region is an escape, not a terminator.
func skipQuoted(sql string, i int, quote byte) int {
	i++ // opening quote
	for i < len(sql) {
		if sql[i] == quote {
			if i+1 < len(sql) && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// skipLineComment advances past a -- comment to the end of the line.
func skipLineComment(sql string, i int) int {
	for i < len(sql) && sql[i] != '\n' {
		i++
	}
	return i
}

// skipBlockComment advances past a /* */ comment.
func skipBlockComment(sql string, i int) int {
	i += 2
	for i+1 < len(sql) {
		if sql[i] == '*' && sql[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return len(sql)
}

// inTriggerBody reports whether chunk is a CREATE TRIGGER statement whose
// BEGIN...END body has not closed yet. Trigger bodies contain semicolons
// that must not terminate the outer statement. CASE expressions inside the
// body close with their own END, so openers and closers are counted rather
// than matched against the last token.
func inTriggerBody(chunk string) bool {
	fields := strings.Fields(strings.ToUpper(chunk))
	if len(fields) < 2 || fields[0] != "CREATE" {
		return false
	}
	rest := fields[1:]
	if rest[0] == "TEMP" || rest[0] == "TEMPORARY" {
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0] != "TRIGGER" {
		return false
	}

	depth := 0
	opened := false
	for _, f := range rest[1:] {
		switch strings.Trim(f, "();,") {
		case "BEGIN", "CASE":
			depth++
			opened = true
		case "END":
			if depth > 0 {
				depth--
			}
		}
	}
	// Before BEGIN the chunk is still the trigger header.
	return !opened || depth > 0
}

// commentOnly reports whether stmt contains nothing but comments and the
// trailing semicolon.
func commentOnly(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == ";" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		return false
	}
	return true
}
