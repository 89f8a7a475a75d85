package query

import (
	"fmt"
	"time"

	"github.com/koga-04/diet-app/internal/model"
)

type Action string

const (
	ActionFilter    Action = "filter"
	ActionAggregate Action = "aggregate"
	ActionTrend     Action = "trend"
	ActionTopN      Action = "top_n"
)

type Aggregation string

const (
	AggSum     Aggregation = "sum"
	AggAverage Aggregation = "average"
	AggCount   Aggregation = "count"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DateRange bounds are inclusive on both ends, YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Plan is the declarative query contract between the planner and the
// executors. Every field it references must come from the fixed allow-list
// of record fields; anything else is rejected before execution.
type Plan struct {
	Action         Action      `json:"action"`
	DateRange      *DateRange  `json:"date_range,omitempty"`
	CategoryFilter []string    `json:"category_filter,omitempty"`
	TextFilter     string      `json:"text_filter,omitempty"`
	Metrics        []string    `json:"metrics,omitempty"`
	Aggregation    Aggregation `json:"aggregation,omitempty"`
	GroupBy        string      `json:"group_by,omitempty"`
	Limit          int         `json:"limit,omitempty"`
	SortBy         string      `json:"sort_by,omitempty"`
	SortOrder      SortOrder   `json:"sort_order,omitempty"`
}

// IsEmpty reports whether the planner produced nothing usable. An empty
// plan means "no result", never an internal error.
func (p *Plan) IsEmpty() bool {
	return p == nil || p.Action == ""
}

// Validate checks the plan against the field allow-list before any
// execution happens.
func (p *Plan) Validate() error {
	switch p.Action {
	case ActionFilter, ActionAggregate, ActionTrend, ActionTopN:
	default:
		return rejected("action", "unknown action %q", string(p.Action))
	}
	for _, m := range p.Metrics {
		if !model.IsMetric(m) {
			return rejected("field", "unknown metric %q", m)
		}
	}
	switch p.GroupBy {
	case "", "date", "category", "label":
	default:
		return rejected("field", "unknown group_by field %q", p.GroupBy)
	}
	if p.Action == ActionAggregate || p.Action == ActionTrend {
		switch p.Aggregation {
		case AggSum, AggAverage, AggCount:
		default:
			return rejected("aggregation", "aggregation must be sum, average, or count")
		}
	}
	if p.Action == ActionTopN {
		if !model.IsMetric(p.SortBy) {
			return rejected("field", "top_n requires a known sort_by metric, got %q", p.SortBy)
		}
		switch p.SortOrder {
		case "", SortAsc, SortDesc:
		default:
			return rejected("sort", "sort_order must be asc or desc")
		}
		if p.Limit < 0 {
			return rejected("limit", "limit must be >= 0")
		}
	}
	if p.DateRange != nil {
		start, err := parseDate(p.DateRange.Start)
		if err != nil {
			return rejected("date", "invalid start date %q", p.DateRange.Start)
		}
		end, err := parseDate(p.DateRange.End)
		if err != nil {
			return rejected("date", "invalid end date %q", p.DateRange.End)
		}
		if start.After(end) {
			return rejected("date", "start date must be <= end date")
		}
	}
	return nil
}

// RawQuery is the alternative planner output: a query string the sandbox
// must admit before it touches the store.
type RawQuery struct {
	QueryText   string `json:"query_text"`
	BoundParams []any  `json:"bound_params"`
	Intent      string `json:"intent"`
}

func (q *RawQuery) IsEmpty() bool {
	return q == nil || q.QueryText == ""
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
