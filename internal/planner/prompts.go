package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/koga-04/diet-app/internal/model"
)

func buildPlanPrompt(question string, today time.Time) string {
	return fmt.Sprintf(`You translate questions about a personal nutrition log into a query plan.
Today's date is %s. The user may write in English or Japanese.

Respond with exactly one JSON object and nothing else, matching this schema:
{
  "action": "filter" | "aggregate" | "trend" | "top_n",
  "date_range": {"start": "YYYY-MM-DD", "end": "YYYY-MM-DD"} or null,
  "category_filter": [%s] or [],
  "text_filter": substring of the food name or null,
  "metrics": list drawn from [%s],
  "aggregation": "sum" | "average" | "count" or null (required for aggregate/trend),
  "group_by": "date" | "category" | "label" or null,
  "limit": integer or null,
  "sort_by": one of the metrics or null (required for top_n),
  "sort_order": "asc" | "desc" or null
}

Date ranges are inclusive on both ends. Use null, not guesses, for anything
the question does not ask for. If the question cannot be answered from the
log, respond with {}.

Question: %s`,
		today.Format("2006-01-02"),
		quoteList(model.MealCategories),
		quoteList(model.MetricNames),
		question)
}

func buildRawPrompt(question string, today time.Time) string {
	return fmt.Sprintf(`You translate questions about a personal nutrition log into a single
read-only SQLite query. Today's date is %s. The user may write in English
or Japanese.

The only table is:

CREATE TABLE meals (
  id INTEGER PRIMARY KEY,
  date TEXT,          -- YYYY-MM-DD
  category TEXT,      -- one of %s
  label TEXT,         -- food name
  calories REAL, protein REAL, carbohydrates REAL, fat REAL,
  vitamin_d REAL, salt REAL, zinc REAL, folic_acid REAL,
  favorite INTEGER
);

Rules:
- One SELECT statement only. No other tables, no semicolons, no comments, no mutations.
- Use ? placeholders and put the values in bound_params, never inline them.
- Date comparisons use date BETWEEN ? AND ?, inclusive on both ends.

Respond with exactly one JSON object and nothing else:
{"query_text": "...", "bound_params": [...], "intent": "short description"}

Question: %s`,
		today.Format("2006-01-02"),
		strings.Join(model.MealCategories, ", "),
		question)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
