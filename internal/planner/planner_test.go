package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koga-04/diet-app/internal/query"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, _ []byte) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func newTestPlanner(gen Generator) *Planner {
	return &Planner{
		Gen:      gen,
		Location: time.UTC,
		Now:      func() time.Time { return fixedToday },
	}
}

func TestPlanQuestionParsesFencedPlan(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: "Here is the plan:\n```json\n{\"action\": \"aggregate\", \"aggregation\": \"sum\", \"metrics\": [\"calories\"]}\n```"}
	p := newTestPlanner(gen)

	plan, err := p.PlanQuestion(context.Background(), "total calories")
	require.NoError(t, err)
	assert.Equal(t, query.ActionAggregate, plan.Action)
	assert.Equal(t, query.AggSum, plan.Aggregation)
	assert.Equal(t, []string{"calories"}, plan.Metrics)
	require.Len(t, gen.prompts, 1, "exactly one outbound call per invocation")
	assert.Contains(t, gen.prompts[0], "2026-03-11", "prompt pins the resolved date")
}

func TestPlanQuestionMalformedOutputYieldsEmptyPlan(t *testing.T) {
	t.Parallel()

	for _, response := range []string{
		"I am sorry, I cannot help with that.",
		"```json\n{\"action\": \"aggregate\",\n```",
		"{not json at all]",
	} {
		gen := &stubGenerator{response: response}
		p := newTestPlanner(gen)

		plan, err := p.PlanQuestion(context.Background(), "total calories")
		require.NoError(t, err, "parse failure must not be an error")
		assert.True(t, plan.IsEmpty(), "expected empty plan for %q", response)
	}
}

func TestPlanQuestionRequiresQuestion(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(&stubGenerator{})
	_, err := p.PlanQuestion(context.Background(), "   ")
	require.Error(t, err)
}

func TestPlanQuestionAppliesDateRewrite(t *testing.T) {
	t.Parallel()

	// Model omits the date range; the post-pass pins it to today.
	gen := &stubGenerator{response: `{"action": "aggregate", "aggregation": "sum", "metrics": ["calories"]}`}
	p := newTestPlanner(gen)

	plan, err := p.PlanQuestion(context.Background(), "今日のカロリー合計")
	require.NoError(t, err)
	require.NotNil(t, plan.DateRange)
	assert.Equal(t, "2026-03-11", plan.DateRange.Start)
	assert.Equal(t, "2026-03-11", plan.DateRange.End)
}

func TestProposeRawQueryParsesContract(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: `{"query_text": "SELECT date, calories FROM meals WHERE date = ?", "bound_params": ["2026-03-11"], "intent": "calories today"}`}
	p := newTestPlanner(gen)

	rq, err := p.ProposeRawQuery(context.Background(), "calories today")
	require.NoError(t, err)
	assert.Equal(t, "SELECT date, calories FROM meals WHERE date = ?", rq.QueryText)
	require.Len(t, rq.BoundParams, 1)
	assert.Equal(t, "2026-03-11", rq.BoundParams[0])
	assert.Equal(t, "calories today", rq.Intent)
}

func TestProposeRawQueryMalformedOutputYieldsEmpty(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{response: "no json here"}
	p := newTestPlanner(gen)

	rq, err := p.ProposeRawQuery(context.Background(), "calories today")
	require.NoError(t, err)
	assert.True(t, rq.IsEmpty())
}
