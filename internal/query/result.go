package query

// Result is a tabular answer plus a short human-readable description of
// what was computed. An empty row set is a normal outcome, not a failure.
type Result struct {
	Columns     []string
	Rows        [][]any
	Description string
}

func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

func noMatches() *Result {
	return &Result{Description: "no matching records"}
}
