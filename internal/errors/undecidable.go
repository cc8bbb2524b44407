package errors

import stderrors "errors"

// ErrUndecidable is returned by a budgeted engine query that ran out of its
// step allowance before reaching a verdict (§7's "Undecidable/timeout"
// failure mode). It is caller-recoverable: the caller may treat the query's
// accompanying conservative answer ("not empty" for emptiness, "no
// constraint" for normalize/tally) as final, or retry with a larger budget.
var ErrUndecidable = stderrors.New("engine: budget exhausted before a verdict was reached")

// IsUndecidable reports whether err is (or wraps) ErrUndecidable.
func IsUndecidable(err error) bool {
	return stderrors.Is(err, ErrUndecidable)
}
