package query_test

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koga-04/diet-app/internal/db"
	"github.com/koga-04/diet-app/internal/query"
)

func TestValidateRawRejectsMutationKeywords(t *testing.T) {
	t.Parallel()

	cases := []string{
		"INSERT INTO meals(date) VALUES('2026-01-01')",
		"update meals set calories = 0",
		"DELETE FROM meals",
		"Delete From meals Where id = 1",
		"SELECT * FROM meals WHERE label = 'x' UNION SELECT 1 WHERE EXISTS (SELECT 1) AND 0 = (SELECT count(*)) OR 'drop' = 'drop'",
		"select * from meals; drop table meals",
		"ALTER TABLE meals ADD COLUMN hacked TEXT",
		"CREATE TABLE evil(x)",
		"PRAGMA table_info(meals)",
		"ATTACH DATABASE '/tmp/x.db' AS other",
	}
	for _, q := range cases {
		q := q
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			err := query.ValidateRaw(query.RawQuery{QueryText: q})
			if err == nil {
				t.Fatalf("expected rejection for %q", q)
			}
			var rej *query.RejectedError
			if !errors.As(err, &rej) {
				t.Fatalf("expected RejectedError, got %T: %v", err, err)
			}
		})
	}
}

func TestValidateRawRejectsOtherTables(t *testing.T) {
	t.Parallel()

	cases := []string{
		"SELECT * FROM exercises",
		"SELECT * FROM meals m JOIN users u ON u.id = m.id",
		"SELECT * FROM sqlite_master",
		"SELECT 1",
	}
	for _, q := range cases {
		q := q
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			if err := query.ValidateRaw(query.RawQuery{QueryText: q}); err == nil {
				t.Fatalf("expected rejection for %q", q)
			}
		})
	}
}

func TestValidateRawAdmitsWellFormedSelects(t *testing.T) {
	t.Parallel()

	cases := []string{
		"SELECT date, label, calories FROM meals WHERE date BETWEEN ? AND ?",
		"select category, sum(calories) from meals group by category",
		"SELECT * FROM meals m JOIN meals m2 ON m2.id = m.id",
		"SELECT label FROM meals ORDER BY calories DESC LIMIT 5",
	}
	for _, q := range cases {
		q := q
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			if err := query.ValidateRaw(query.RawQuery{QueryText: q}); err != nil {
				t.Fatalf("expected admission for %q, got %v", q, err)
			}
		})
	}
}

func TestDropStatementRejectedEntirely(t *testing.T) {
	t.Parallel()
	sqldb := newQueryTestDB(t)
	defer sqldb.Close()

	seedMeal(t, sqldb, "2026-03-01", "lunch", "rice bowl", 500)

	res, err := query.ExecuteRaw(sqldb, query.RawQuery{
		QueryText: "DROP TABLE meals; SELECT * FROM meals",
	})
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if res != nil {
		t.Fatalf("expected no rows on rejection, got %+v", res)
	}
	var rej *query.RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectedError, got %T", err)
	}
	if rej.Rule != "forbidden-keyword" {
		t.Fatalf("expected forbidden-keyword rule, got %q", rej.Rule)
	}
	if !strings.Contains(rej.Reason, "forbidden keyword") {
		t.Fatalf("expected forbidden keyword message, got %q", rej.Reason)
	}

	// Nothing was executed: the table still exists and holds its row.
	var count int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM meals`).Scan(&count); err != nil {
		t.Fatalf("count meals after rejection: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 meal after rejection, got %d", count)
	}
}

func TestCommaSeparatedTableListRejected(t *testing.T) {
	t.Parallel()
	sqldb := newQueryTestDB(t)
	defer sqldb.Close()

	if _, err := sqldb.Exec(`
INSERT INTO exercises(date, category, label, duration_min) VALUES('2026-03-01', 'running', 'running', 30)
`); err != nil {
		t.Fatalf("seed exercise: %v", err)
	}

	cases := []string{
		"SELECT e.category FROM meals, exercises e",
		"select * from meals, sqlite_master",
		"SELECT m.label FROM exercises, meals m",
	}
	for _, q := range cases {
		q := q
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			res, err := query.ExecuteRaw(sqldb, query.RawQuery{QueryText: q})
			if err == nil {
				t.Fatalf("expected rejection for %q, got rows %+v", q, res.Rows)
			}
			var rej *query.RejectedError
			if !errors.As(err, &rej) {
				t.Fatalf("expected RejectedError, got %T: %v", err, err)
			}
			if rej.Rule != "table" {
				t.Fatalf("expected table rule, got %q", rej.Rule)
			}
		})
	}
}

func TestValidateRawRejectsComments(t *testing.T) {
	t.Parallel()

	cases := []string{
		"SELECT id FROM meals -- all rows",
		"SELECT id FROM meals /* cap goes here */",
		"SELECT id FROM meals WHERE date = ? --",
	}
	for _, q := range cases {
		q := q
		t.Run(q, func(t *testing.T) {
			t.Parallel()
			err := query.ValidateRaw(query.RawQuery{QueryText: q})
			if err == nil {
				t.Fatalf("expected rejection for %q", q)
			}
			var rej *query.RejectedError
			if !errors.As(err, &rej) {
				t.Fatalf("expected RejectedError, got %T: %v", err, err)
			}
			if rej.Rule != "comment" {
				t.Fatalf("expected comment rule, got %q", rej.Rule)
			}
		})
	}
}

func TestTrailingCommentCannotDefeatRowCap(t *testing.T) {
	t.Parallel()
	sqldb := newQueryTestDB(t)
	defer sqldb.Close()

	for i := 0; i < query.MaxRows+40; i++ {
		seedMeal(t, sqldb, "2026-03-01", "snack", fmt.Sprintf("item %d", i), 10)
	}

	// A trailing line comment would swallow the appended LIMIT clause, so
	// the query never reaches execution at all.
	res, err := query.ExecuteRaw(sqldb, query.RawQuery{
		QueryText: "SELECT id FROM meals -- all rows",
	})
	if err == nil {
		t.Fatalf("expected rejection, got %d rows", len(res.Rows))
	}
	var rej *query.RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectedError, got %T: %v", err, err)
	}
}

func TestEnsureLimitAppendsCap(t *testing.T) {
	t.Parallel()

	got := query.EnsureLimit("SELECT * FROM meals")
	if got != "SELECT * FROM meals LIMIT 500" {
		t.Fatalf("unexpected capped query %q", got)
	}
	unchanged := "SELECT * FROM meals LIMIT 5"
	if got := query.EnsureLimit(unchanged); got != unchanged {
		t.Fatalf("expected existing limit to be kept, got %q", got)
	}
}

func TestEnsureLimitIgnoresLiteralText(t *testing.T) {
	t.Parallel()

	// "limit" inside a string literal is data, not a LIMIT clause.
	got := query.EnsureLimit("SELECT label FROM meals WHERE label != 'no limit'")
	if !strings.HasSuffix(got, fmt.Sprintf("LIMIT %d", query.MaxRows)) {
		t.Fatalf("expected appended cap, got %q", got)
	}
}

func TestExecuteRawCapsUnboundedResults(t *testing.T) {
	t.Parallel()
	sqldb := newQueryTestDB(t)
	defer sqldb.Close()

	for i := 0; i < query.MaxRows+40; i++ {
		seedMeal(t, sqldb, "2026-03-01", "snack", fmt.Sprintf("item %d", i), 10)
	}

	res, err := query.ExecuteRaw(sqldb, query.RawQuery{
		QueryText: "SELECT id, label FROM meals",
		Intent:    "list everything",
	})
	if err != nil {
		t.Fatalf("execute raw: %v", err)
	}
	if len(res.Rows) != query.MaxRows {
		t.Fatalf("expected exactly %d rows, got %d", query.MaxRows, len(res.Rows))
	}
}

func TestExecuteRawBindsParameters(t *testing.T) {
	t.Parallel()
	sqldb := newQueryTestDB(t)
	defer sqldb.Close()

	seedMeal(t, sqldb, "2026-03-01", "lunch", "rice bowl", 500)
	seedMeal(t, sqldb, "2026-03-02", "dinner", "salad", 200)

	res, err := query.ExecuteRaw(sqldb, query.RawQuery{
		QueryText:   "SELECT date, label FROM meals WHERE date = ?",
		BoundParams: []any{"2026-03-02"},
		Intent:      "meals on March 2nd",
	})
	if err != nil {
		t.Fatalf("execute raw: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	if res.Rows[0][1] != "salad" {
		t.Fatalf("expected salad, got %v", res.Rows[0][1])
	}
	if res.Description != "meals on March 2nd" {
		t.Fatalf("expected intent as description, got %q", res.Description)
	}
}

func TestExecuteRawWrapsStoreErrors(t *testing.T) {
	t.Parallel()
	sqldb := newQueryTestDB(t)
	defer sqldb.Close()

	_, err := query.ExecuteRaw(sqldb, query.RawQuery{
		QueryText: "SELECT no_such_column FROM meals",
	})
	if err == nil {
		t.Fatalf("expected execution error")
	}
	var exec *query.ExecError
	if !errors.As(err, &exec) {
		t.Fatalf("expected ExecError, got %T: %v", err, err)
	}

	// The user-facing message is generic; the store cause stays behind
	// Unwrap for diagnostics only.
	if exec.Error() != "query execution failed" {
		t.Fatalf("expected generic message, got %q", exec.Error())
	}
	cause := errors.Unwrap(exec)
	if cause == nil {
		t.Fatalf("expected wrapped cause")
	}
	if strings.Contains(exec.Error(), cause.Error()) {
		t.Fatalf("store cause leaked into user-facing message: %q", exec.Error())
	}
}

func newQueryTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diet_records.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func seedMeal(t *testing.T, sqldb *sql.DB, date, category, label string, calories float64) {
	t.Helper()
	if _, err := sqldb.Exec(`
INSERT INTO meals(date, category, label, calories) VALUES(?, ?, ?, ?)
`, date, category, label, calories); err != nil {
		t.Fatalf("seed meal %s: %v", label, err)
	}
}
