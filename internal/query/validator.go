package query

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// AllowedTable is the only source table a raw query may reference.
const AllowedTable = "meals"

// MaxRows caps the result size of any admitted query.
const MaxRows = 500

// Mutation and schema-altering keywords are rejected anywhere in the query
// text, not just at the start.
var forbiddenKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create", "replace",
	"attach", "detach", "pragma", "vacuum", "reindex", "truncate",
	"grant", "revoke",
}

var (
	wordPattern     = regexp.MustCompile(`[a-z_]+`)
	tableRefPattern = regexp.MustCompile(`(?i)\b(?:from|join)\s+([` + "`" + `"\[]?[a-zA-Z_][a-zA-Z0-9_]*[` + "`" + `"\]]?)`)
	// The full FROM clause, up to the next clause keyword. Needed because a
	// comma-separated table list names sources that never follow FROM/JOIN.
	fromClausePattern    = regexp.MustCompile(`(?is)\bfrom\b(.*?)(?:\bwhere\b|\bgroup\b|\border\b|\bhaving\b|\blimit\b|\bjoin\b|$)`)
	limitPattern         = regexp.MustCompile(`(?i)\blimit\b`)
	stringLiteralPattern = regexp.MustCompile(`'(?:[^']|'')*'`)
	identifierQuotes     = strings.NewReplacer("`", "", `"`, "", "[", "", "]", "")
)

// ValidateRaw decides admit/reject for a planner-proposed query string.
// Every rule must hold; the first failing rule is reported and nothing is
// executed.
func ValidateRaw(q RawQuery) error {
	text := strings.TrimSpace(q.QueryText)
	if text == "" {
		return rejected("empty", "empty query")
	}
	lower := strings.ToLower(text)

	for _, word := range wordPattern.FindAllString(lower, -1) {
		for _, kw := range forbiddenKeywords {
			if word == kw {
				return rejected("forbidden-keyword", "forbidden keyword %q in query", kw)
			}
		}
	}
	// Comments can swallow an appended row cap and smuggle keywords past
	// scanners, so they are rejected outright. Values belong in bound
	// params, never in literals that would need comment characters.
	if strings.Contains(text, "--") || strings.Contains(text, "/*") {
		return rejected("comment", "comments are not permitted in queries")
	}
	if strings.ContainsRune(text, ';') {
		return rejected("statement-chaining", "statement separator is not permitted")
	}
	if !strings.HasPrefix(lower, "select") {
		return rejected("read-only", "only read-only SELECT queries are permitted")
	}

	refs := tableRefPattern.FindAllStringSubmatch(text, -1)
	if len(refs) == 0 {
		return rejected("table", "query must read from the %s table", AllowedTable)
	}
	for _, ref := range refs {
		table := strings.ToLower(identifierQuotes.Replace(ref[1]))
		if table != AllowedTable {
			return rejected("table", "table %q is not permitted, only %s", table, AllowedTable)
		}
	}
	// Every entry in a FROM list, not just the first, must be the allowed
	// table. "FROM meals, exercises e" names a second source without a
	// FROM/JOIN keyword in front of it.
	for _, clause := range fromClausePattern.FindAllStringSubmatch(text, -1) {
		for _, src := range strings.Split(clause[1], ",") {
			fields := strings.Fields(src)
			if len(fields) == 0 {
				return rejected("table", "query must read from the %s table", AllowedTable)
			}
			// A subquery's closing parens can trail the table name.
			table := strings.ToLower(identifierQuotes.Replace(strings.TrimRight(fields[0], ")")))
			if table != AllowedTable {
				return rejected("table", "table %q is not permitted, only %s", table, AllowedTable)
			}
		}
	}
	if strings.Contains(lower, "sqlite_") {
		return rejected("table", "internal tables are not permitted")
	}
	return nil
}

// EnsureLimit appends the fixed row cap when the query does not already
// bound its result count. String literals are blanked first so the word
// "limit" inside one does not count as an existing bound.
func EnsureLimit(text string) string {
	if limitPattern.MatchString(stringLiteralPattern.ReplaceAllString(text, "''")) {
		return text
	}
	return fmt.Sprintf("%s LIMIT %d", strings.TrimSpace(text), MaxRows)
}

// ExecuteRaw validates the proposed query and, if admitted, runs it with
// bound parameters against the store. Validation failures come back as
// *RejectedError, store failures as *ExecError.
func ExecuteRaw(sqldb *sql.DB, q RawQuery) (*Result, error) {
	if err := ValidateRaw(q); err != nil {
		return nil, err
	}
	text := EnsureLimit(strings.TrimSpace(q.QueryText))

	rows, err := sqldb.Query(text, q.BoundParams...)
	if err != nil {
		return nil, execErr(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, execErr(err)
	}

	out := &Result{Columns: cols, Description: strings.TrimSpace(q.Intent)}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, execErr(err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, execErr(err)
	}
	if out.Description == "" {
		out.Description = fmt.Sprintf("raw query returned %d rows", len(out.Rows))
	}
	return out, nil
}
