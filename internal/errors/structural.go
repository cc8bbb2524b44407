package errors

import (
	stderrors "errors"
	"fmt"
)

// Fix is an optional suggested remedy attached to a Report, along with a
// rough confidence the suggestion will actually resolve the failure.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is a structural (fatal) failure: malformed input fed to the
// engine, such as mismatched arities passed to a tuple constructor. It is
// never recovered inside the engine; the caller decides whether to abort
// the whole operation or surface it to whoever produced the malformed type.
type Report struct {
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report so it can travel as a normal Go error while
// still being recovered intact with AsReport.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Rep.Kind, e.Rep.Message)
}

// WrapReport turns a Report into an error.
func WrapReport(r *Report) error {
	return &ReportError{Rep: r}
}

// AsReport recovers the Report carried by err, if any.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// NewStructural builds a fatal structural-error Report of the given kind.
func NewStructural(kind Kind, message string, context map[string]any) *Report {
	return &Report{Kind: kind, Message: message, Context: context}
}

// WithFix attaches a suggested remedy and returns the same Report for
// chaining.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// ArityMismatch builds the Report for the single most common structural
// failure: a constructor fed a component slice of the wrong length.
func ArityMismatch(constructor string, want, got int) *Report {
	return NewStructural(KindArity,
		fmt.Sprintf("%s expects %d component(s), got %d", constructor, want, got),
		map[string]any{"constructor": constructor, "want": want, "got": got},
	)
}

// DanglingRef builds the Report for a Ref resolved against a Store that
// never interned it.
func DanglingRef(ref int) *Report {
	return NewStructural(KindDanglingRef,
		fmt.Sprintf("ref %d does not belong to this store", ref),
		map[string]any{"ref": ref},
	)
}
