package planner

import (
	"strings"
	"time"

	"github.com/koga-04/diet-app/internal/query"
)

// RewritePlan is the deterministic pass that runs after the model call.
// Relative date phrases must resolve exactly, not probabilistically, so a
// match here overrides whatever date range the model produced. The same
// goes for "breakdown by item" phrasing, which forces a per-label grouping.
func RewritePlan(question string, plan *query.Plan, today time.Time) {
	if plan == nil {
		return
	}
	if r, ok := resolveRelativeRange(question, today); ok {
		plan.DateRange = r
	}
	if mentionsItemBreakdown(question) {
		plan.GroupBy = "label"
		if len(plan.Metrics) == 0 {
			plan.Metrics = []string{"calories"}
		}
		if plan.Action != query.ActionAggregate && plan.Action != query.ActionTrend {
			plan.Action = query.ActionAggregate
		}
		if plan.Aggregation == "" {
			plan.Aggregation = query.AggSum
		}
	}
}

// Relative date vocabulary, English and Japanese. Longer phrases are listed
// before their substrings ("day before yesterday" contains "yesterday").
var relativePhrases = []struct {
	phrase string
	rng    func(today time.Time) (time.Time, time.Time)
}{
	{"day before yesterday", daysAgo(2)},
	{"一昨日", daysAgo(2)},
	{"おととい", daysAgo(2)},
	{"yesterday", daysAgo(1)},
	{"昨日", daysAgo(1)},
	{"きのう", daysAgo(1)},
	{"today", daysAgo(0)},
	{"今日", daysAgo(0)},
	{"きょう", daysAgo(0)},
	{"本日", daysAgo(0)},
	{"this week", thisWeek},
	{"今週", thisWeek},
	{"last week", lastWeek},
	{"先週", lastWeek},
	{"this month", thisMonth},
	{"今月", thisMonth},
	{"last month", lastMonth},
	{"先月", lastMonth},
}

func resolveRelativeRange(question string, today time.Time) (*query.DateRange, bool) {
	q := strings.ToLower(question)
	for _, entry := range relativePhrases {
		if strings.Contains(q, entry.phrase) {
			start, end := entry.rng(today)
			return &query.DateRange{
				Start: start.Format("2006-01-02"),
				End:   end.Format("2006-01-02"),
			}, true
		}
	}
	return nil, false
}

func daysAgo(n int) func(time.Time) (time.Time, time.Time) {
	return func(today time.Time) (time.Time, time.Time) {
		d := today.AddDate(0, 0, -n)
		return d, d
	}
}

// Weeks start on Monday. "This week" runs Monday through today.
func thisWeek(today time.Time) (time.Time, time.Time) {
	return weekStart(today), today
}

func lastWeek(today time.Time) (time.Time, time.Time) {
	start := weekStart(today).AddDate(0, 0, -7)
	return start, start.AddDate(0, 0, 6)
}

func thisMonth(today time.Time) (time.Time, time.Time) {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return start, today
}

func lastMonth(today time.Time) (time.Time, time.Time) {
	firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	start := firstOfThis.AddDate(0, -1, 0)
	return start, firstOfThis.AddDate(0, 0, -1)
}

func weekStart(today time.Time) time.Time {
	offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
	return today.AddDate(0, 0, -offset)
}

var breakdownPhrases = []string{
	"breakdown", "per item", "by item", "each item", "item by item",
	"内訳", "品目ごと", "品目別", "項目ごと", "メニューごと",
}

func mentionsItemBreakdown(question string) bool {
	q := strings.ToLower(question)
	for _, phrase := range breakdownPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}
