package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/sunholo/ailang/testutil"
)

func TestReportToJSONEnvelope(t *testing.T) {
	r := NewStructural(
		KindMalformedInterval,
		"interval lower bound 10 exceeds upper bound 1",
		map[string]any{"lo": 10, "hi": 1},
	).WithFix("swap the lo and hi bounds", 0.9)

	s, err := r.ToJSON(false)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	testutil.AssertGoldenJSON(t, "encode", "malformed-interval", []byte(s))
}

func TestSafeEncodeErrorUnwrapsReports(t *testing.T) {
	err := WrapReport(ArityMismatch("tuple", 2, 3))

	rep, ok := AsReport(err)
	if !ok {
		t.Fatal("AsReport must recover the report from a wrapped error")
	}
	if rep.Kind != KindArity {
		t.Fatalf("recovered kind = %q, want %q", rep.Kind, KindArity)
	}

	testutil.AssertGoldenJSON(t, "encode", "arity-mismatch", []byte(SafeEncodeError(err)))
}

func TestSafeEncodeErrorFallsBackForPlainErrors(t *testing.T) {
	testutil.AssertGoldenJSON(t, "encode", "plain-error", []byte(SafeEncodeError(stderrors.New("boom"))))
}

func TestSafeEncodeErrorNilIsEmptyObject(t *testing.T) {
	if got := SafeEncodeError(nil); got != "{}" {
		t.Fatalf("SafeEncodeError(nil) = %q, want {}", got)
	}
}

func TestSafeEncodeErrorUndecidable(t *testing.T) {
	s := SafeEncodeError(ErrUndecidable)
	if !strings.Contains(s, "budget exhausted") {
		t.Fatalf("envelope %q should carry the undecidable message", s)
	}
	if !strings.Contains(s, schemaVersion) {
		t.Fatalf("envelope %q should carry the schema version", s)
	}
}
