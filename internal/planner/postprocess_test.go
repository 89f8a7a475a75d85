package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/koga-04/diet-app/internal/query"
)

var fixedToday = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC) // a Wednesday

func TestRewriteResolvesRelativeDates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		question string
		start    string
		end      string
	}{
		{"how many calories today?", "2026-03-11", "2026-03-11"},
		{"今日のカロリー合計", "2026-03-11", "2026-03-11"},
		{"what did I eat yesterday", "2026-03-10", "2026-03-10"},
		{"昨日の食事", "2026-03-10", "2026-03-10"},
		{"一昨日の塩分", "2026-03-09", "2026-03-09"},
		{"protein this week", "2026-03-09", "2026-03-11"},
		{"先週の平均カロリー", "2026-03-02", "2026-03-08"},
		{"total fat this month", "2026-03-01", "2026-03-11"},
		{"先月の記録", "2026-02-01", "2026-02-28"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.question, func(t *testing.T) {
			t.Parallel()
			plan := &query.Plan{Action: query.ActionAggregate, Aggregation: query.AggSum}
			RewritePlan(tc.question, plan, fixedToday)
			if assert.NotNil(t, plan.DateRange, "expected a date range") {
				assert.Equal(t, tc.start, plan.DateRange.Start)
				assert.Equal(t, tc.end, plan.DateRange.End)
			}
		})
	}
}

func TestRewriteOverridesModelProducedRange(t *testing.T) {
	t.Parallel()

	// The model guessed a wrong range for "today"; the deterministic pass wins.
	plan := &query.Plan{
		Action:      query.ActionAggregate,
		Aggregation: query.AggSum,
		DateRange:   &query.DateRange{Start: "2020-01-01", End: "2020-01-31"},
	}
	RewritePlan("calories today please", plan, fixedToday)
	assert.Equal(t, "2026-03-11", plan.DateRange.Start)
	assert.Equal(t, "2026-03-11", plan.DateRange.End)
}

func TestRewriteLeavesAbsoluteQuestionsAlone(t *testing.T) {
	t.Parallel()

	plan := &query.Plan{
		Action:    query.ActionFilter,
		DateRange: &query.DateRange{Start: "2026-01-01", End: "2026-01-31"},
	}
	RewritePlan("meals in January", plan, fixedToday)
	assert.Equal(t, "2026-01-01", plan.DateRange.Start)
	assert.Equal(t, "2026-01-31", plan.DateRange.End)
}

func TestRewriteForcesItemBreakdown(t *testing.T) {
	t.Parallel()

	plan := &query.Plan{Action: query.ActionFilter}
	RewritePlan("今日のカロリーの内訳を教えて", plan, fixedToday)
	assert.Equal(t, "label", plan.GroupBy)
	assert.Equal(t, query.ActionAggregate, plan.Action)
	assert.Equal(t, query.AggSum, plan.Aggregation)
	assert.Equal(t, []string{"calories"}, plan.Metrics)
	if assert.NotNil(t, plan.DateRange) {
		assert.Equal(t, "2026-03-11", plan.DateRange.Start)
	}
}

func TestRewriteKeepsExplicitMetricsOnBreakdown(t *testing.T) {
	t.Parallel()

	plan := &query.Plan{
		Action:      query.ActionAggregate,
		Aggregation: query.AggAverage,
		Metrics:     []string{"protein"},
	}
	RewritePlan("protein breakdown per item", plan, fixedToday)
	assert.Equal(t, "label", plan.GroupBy)
	assert.Equal(t, []string{"protein"}, plan.Metrics)
	assert.Equal(t, query.AggAverage, plan.Aggregation)
}
