package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/koga-04/diet-app/internal/logger"
	"github.com/koga-04/diet-app/internal/planner"
	"github.com/koga-04/diet-app/internal/query"
)

// AskMode selects which execution path handles the planner's output. The
// declarative path is the default: it has no injection surface at all. The
// raw path is more expressive but goes through the sandbox validator.
type AskMode string

const (
	ModeDeclarative AskMode = "declarative"
	ModeRaw         AskMode = "raw"
)

// Asker answers a natural-language question about the logged history with
// a bounded, read-only query.
type Asker struct {
	Planner *planner.Planner
}

// Ask runs one question end to end: one planner call, then one query
// against the store. Planner parse failures come back as an empty "no
// result" answer; validation rejections surface their rule message.
func (a *Asker) Ask(ctx context.Context, sqldb *sql.DB, question string, mode AskMode) (*query.Result, error) {
	switch mode {
	case "", ModeDeclarative:
		return a.askDeclarative(ctx, sqldb, question)
	case ModeRaw:
		return a.askRaw(ctx, sqldb, question)
	default:
		return nil, fmt.Errorf("unknown ask mode %q", mode)
	}
}

func (a *Asker) askDeclarative(ctx context.Context, sqldb *sql.DB, question string) (*query.Result, error) {
	plan, err := a.Planner.PlanQuestion(ctx, question)
	if err != nil {
		return nil, err
	}
	if plan.IsEmpty() {
		return &query.Result{Description: "no result for that question"}, nil
	}

	records, err := LoadAllMeals(sqldb)
	if err != nil {
		return nil, err
	}
	res, err := query.ExecutePlan(plan, records)
	if err != nil {
		var rejectedErr *query.RejectedError
		if errors.As(err, &rejectedErr) {
			logger.Warn("plan rejected",
				zap.String("rule", rejectedErr.Rule),
				zap.String("question", question))
		}
		return nil, err
	}
	return res, nil
}

func (a *Asker) askRaw(ctx context.Context, sqldb *sql.DB, question string) (*query.Result, error) {
	proposal, err := a.Planner.ProposeRawQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	if proposal.IsEmpty() {
		return &query.Result{Description: "no result for that question"}, nil
	}

	res, err := query.ExecuteRaw(sqldb, *proposal)
	if err != nil {
		var rejectedErr *query.RejectedError
		if errors.As(err, &rejectedErr) {
			// Expected outcome for out-of-scope model output, not fatal.
			logger.Warn("raw query rejected",
				zap.String("rule", rejectedErr.Rule),
				zap.String("query", proposal.QueryText))
		}
		return nil, err
	}
	return res, nil
}
