package query

import "fmt"

// RejectedError reports that a proposed query or plan failed one of the
// safety rules. Rule names which check fired; the message is user-facing.
type RejectedError struct {
	Rule   string
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

func rejected(rule, format string, args ...any) error {
	return &RejectedError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// ExecError wraps a store failure during an admitted query. The message is
// a fixed generic one; the cause stays reachable through Unwrap for
// diagnostics and never appears in user-facing text.
type ExecError struct {
	cause error
}

func (e *ExecError) Error() string {
	return "query execution failed"
}

func (e *ExecError) Unwrap() error {
	return e.cause
}

func execErr(cause error) error {
	return &ExecError{cause: cause}
}
