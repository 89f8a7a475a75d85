package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/koga-04/diet-app/internal/llm"
	"github.com/koga-04/diet-app/internal/logger"
	"github.com/koga-04/diet-app/internal/query"
)

// Generator is the one call contract to the external text-generation
// service. llm.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string, image []byte) (string, error)
}

// Planner translates a free-text question into either a declarative query
// plan or a raw query proposal. The generator's output is treated as an
// untrusted suggestion: parse failures degrade to an empty plan and raw
// queries still have to pass the sandbox validator downstream.
type Planner struct {
	Gen      Generator
	Location *time.Location
	Now      func() time.Time // overridable in tests
}

func (p *Planner) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return time.Local
}

// today resolves the current calendar date exactly once, in a fixed
// timezone. The model never gets to infer "today" on its own.
func (p *Planner) today() time.Time {
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	return now.In(p.location())
}

// PlanQuestion produces a declarative plan for the question. Exactly one
// outbound generate call; malformed model output yields an empty plan, not
// an error. The deterministic post-pass runs after the model call and may
// override fields it produced.
func (p *Planner) PlanQuestion(ctx context.Context, question string) (*query.Plan, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}
	today := p.today()

	out, err := p.Gen.Generate(ctx, buildPlanPrompt(question, today), nil)
	if err != nil {
		return nil, fmt.Errorf("plan question: %w", err)
	}

	plan := parsePlan(out)
	if plan.IsEmpty() {
		logger.Warn("planner produced no usable plan", zap.String("question", question))
		return plan, nil
	}
	RewritePlan(question, plan, today)
	return plan, nil
}

// ProposeRawQuery produces a raw query proposal for the question. The
// caller must pass it through the sandbox validator before execution.
func (p *Planner) ProposeRawQuery(ctx context.Context, question string) (*query.RawQuery, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}
	today := p.today()

	out, err := p.Gen.Generate(ctx, buildRawPrompt(question, today), nil)
	if err != nil {
		return nil, fmt.Errorf("propose raw query: %w", err)
	}

	raw := llm.ExtractJSON(out)
	if raw == "" {
		logger.Warn("raw planner returned no JSON", zap.String("question", question))
		return &query.RawQuery{}, nil
	}
	var rq query.RawQuery
	if err := json.Unmarshal([]byte(raw), &rq); err != nil {
		logger.Warn("raw planner output did not parse", zap.Error(err))
		return &query.RawQuery{}, nil
	}
	rq.QueryText = strings.TrimSpace(rq.QueryText)
	return &rq, nil
}

// parsePlan extracts and decodes a plan from raw model output. Any failure
// produces an empty plan.
func parsePlan(out string) *query.Plan {
	raw := llm.ExtractJSON(out)
	if raw == "" {
		return &query.Plan{}
	}
	var plan query.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		logger.Warn("plan JSON did not parse", zap.Error(err))
		return &query.Plan{}
	}
	return &plan
}
