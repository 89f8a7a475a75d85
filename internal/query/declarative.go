package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/koga-04/diet-app/internal/model"
)

const defaultTopN = 10

// ExecutePlan interprets a declarative plan against an in-memory snapshot
// of meal records. No query text is ever built, so there is no injection
// surface. Filters apply in a fixed order (date range, category, label
// substring) and any stage that leaves zero rows short-circuits to a
// "no matching records" result.
func ExecutePlan(p *Plan, records []model.MealRecord) (*Result, error) {
	if p.IsEmpty() {
		return noMatches(), nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rows := filterByDate(records, p.DateRange)
	if len(rows) == 0 {
		return noMatches(), nil
	}
	rows = filterByCategory(rows, p.CategoryFilter)
	if len(rows) == 0 {
		return noMatches(), nil
	}
	rows = filterByText(rows, p.TextFilter)
	if len(rows) == 0 {
		return noMatches(), nil
	}

	switch p.Action {
	case ActionFilter:
		return projectRows(p, rows), nil
	case ActionAggregate, ActionTrend:
		return aggregateRows(p, rows), nil
	case ActionTopN:
		return topNRows(p, rows), nil
	}
	return nil, rejected("action", "unknown action %q", string(p.Action))
}

func filterByDate(records []model.MealRecord, r *DateRange) []model.MealRecord {
	if r == nil {
		return records
	}
	out := make([]model.MealRecord, 0, len(records))
	for _, rec := range records {
		// Unparseable dates are treated as absent and never match.
		if _, err := parseDate(rec.Date); err != nil {
			continue
		}
		if rec.Date >= r.Start && rec.Date <= r.End {
			out = append(out, rec)
		}
	}
	return out
}

func filterByCategory(records []model.MealRecord, categories []string) []model.MealRecord {
	if len(categories) == 0 {
		return records
	}
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	out := make([]model.MealRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := allowed[strings.ToLower(rec.Category)]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func filterByText(records []model.MealRecord, text string) []model.MealRecord {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return records
	}
	out := make([]model.MealRecord, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Label), text) {
			out = append(out, rec)
		}
	}
	return out
}

func projectRows(p *Plan, records []model.MealRecord) *Result {
	sorted := make([]model.MealRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].ID > sorted[j].ID
	})

	cols := append([]string{"date", "category", "label"}, p.Metrics...)
	out := &Result{Columns: cols}
	for _, rec := range sorted {
		row := []any{rec.Date, rec.Category, rec.Label}
		for _, m := range p.Metrics {
			if v, ok := rec.Metric(m); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		out.Rows = append(out.Rows, row)
	}
	out.Description = fmt.Sprintf("%d matching records, newest first", len(out.Rows))
	return out
}

func aggregateRows(p *Plan, records []model.MealRecord) *Result {
	metrics := p.Metrics
	if len(metrics) == 0 && p.Aggregation != AggCount {
		metrics = []string{"calories"}
	}

	if p.GroupBy != "" {
		return aggregateGrouped(p, metrics, records)
	}

	if p.Aggregation == AggCount {
		return &Result{
			Columns:     []string{"count"},
			Rows:        [][]any{{len(records)}},
			Description: fmt.Sprintf("count of matching records: %d", len(records)),
		}
	}

	out := &Result{Columns: []string{"metric", "value"}}
	for _, m := range metrics {
		sum, n := sumMetric(records, m)
		switch p.Aggregation {
		case AggSum:
			out.Rows = append(out.Rows, []any{m, sum})
		case AggAverage:
			if n == 0 {
				out.Rows = append(out.Rows, []any{m, nil})
			} else {
				out.Rows = append(out.Rows, []any{m, sum / float64(n)})
			}
		}
	}
	out.Description = fmt.Sprintf("%s of %s over %d records",
		p.Aggregation, strings.Join(metrics, ", "), len(records))
	return out
}

func aggregateGrouped(p *Plan, metrics []string, records []model.MealRecord) *Result {
	groupKey := func(rec model.MealRecord) string {
		switch p.GroupBy {
		case "date":
			return rec.Date
		case "category":
			return rec.Category
		default:
			return rec.Label
		}
	}

	grouped := make(map[string][]model.MealRecord)
	keys := make([]string, 0)
	for _, rec := range records {
		k := groupKey(rec)
		if _, seen := grouped[k]; !seen {
			keys = append(keys, k)
		}
		grouped[k] = append(grouped[k], rec)
	}

	cols := []string{p.GroupBy}
	if p.Aggregation == AggCount {
		cols = append(cols, "count")
	} else {
		cols = append(cols, metrics...)
	}
	out := &Result{Columns: cols}

	type groupRow struct {
		key    string
		values []any
		first  float64
	}
	groupRows := make([]groupRow, 0, len(keys))
	for _, k := range keys {
		recs := grouped[k]
		gr := groupRow{key: k}
		if p.Aggregation == AggCount {
			gr.values = []any{len(recs)}
			gr.first = float64(len(recs))
		} else {
			for i, m := range metrics {
				sum, n := sumMetric(recs, m)
				var v any
				switch p.Aggregation {
				case AggSum:
					v = sum
				case AggAverage:
					if n == 0 {
						v = nil
					} else {
						v = sum / float64(n)
					}
				}
				if i == 0 {
					if f, ok := v.(float64); ok {
						gr.first = f
					}
				}
				gr.values = append(gr.values, v)
			}
		}
		groupRows = append(groupRows, gr)
	}

	// Date groups read as a chronological series; other groupings are
	// ordered by the first aggregate, largest first.
	if p.GroupBy == "date" {
		sort.SliceStable(groupRows, func(i, j int) bool { return groupRows[i].key < groupRows[j].key })
	} else {
		sort.SliceStable(groupRows, func(i, j int) bool {
			if groupRows[i].first != groupRows[j].first {
				return groupRows[i].first > groupRows[j].first
			}
			return groupRows[i].key < groupRows[j].key
		})
	}

	for _, gr := range groupRows {
		out.Rows = append(out.Rows, append([]any{gr.key}, gr.values...))
	}
	out.Description = fmt.Sprintf("%s by %s over %d records",
		p.Aggregation, p.GroupBy, len(records))
	return out
}

func topNRows(p *Plan, records []model.MealRecord) *Result {
	ranked := make([]model.MealRecord, 0, len(records))
	for _, rec := range records {
		// Records without the sort metric cannot be ranked.
		if _, ok := rec.Metric(p.SortBy); ok {
			ranked = append(ranked, rec)
		}
	}
	if len(ranked) == 0 {
		return noMatches()
	}

	asc := p.SortOrder == SortAsc
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, _ := ranked[i].Metric(p.SortBy)
		vj, _ := ranked[j].Metric(p.SortBy)
		if asc {
			return vi < vj
		}
		return vi > vj
	})

	limit := p.Limit
	if limit <= 0 {
		limit = defaultTopN
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}

	out := &Result{Columns: []string{"date", "category", "label", p.SortBy}}
	for _, rec := range ranked[:limit] {
		v, _ := rec.Metric(p.SortBy)
		out.Rows = append(out.Rows, []any{rec.Date, rec.Category, rec.Label, v})
	}
	order := "highest"
	if asc {
		order = "lowest"
	}
	out.Description = fmt.Sprintf("top %d records by %s %s", limit, order, p.SortBy)
	return out
}

func sumMetric(records []model.MealRecord, metric string) (float64, int) {
	var sum float64
	var n int
	for _, rec := range records {
		if v, ok := rec.Metric(metric); ok {
			sum += v
			n++
		}
	}
	return sum, n
}
