// Package testutil provides golden-file helpers for tests that pin a wire
// format, such as the engine's JSON error envelopes. Goldens live under the
// calling package's testdata/ directory and are refreshed with
// UPDATE_GOLDENS=true go test ./...
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldens rewrites golden files instead of comparing against them.
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenPath returns the conventional location of a golden file.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.json")
}

// AssertGoldenJSON compares actualJSON against the named golden file.
// Both sides are normalized (sorted object keys, stable indentation)
// before comparison, so formatting differences never fail a test. In
// update mode the golden file is rewritten with the normalized form of
// actualJSON instead.
func AssertGoldenJSON(t *testing.T, feature, name string, actualJSON []byte) {
	t.Helper()

	path := GoldenPath(feature, name)
	normalized, err := normalizeJSON(actualJSON)
	if err != nil {
		t.Fatalf("actual output is not valid JSON: %v\n%s", err, actualJSON)
	}

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating golden directory: %v", err)
		}
		if err := os.WriteFile(path, normalized, 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		t.Logf("updated golden file %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file %s does not exist; run with UPDATE_GOLDENS=true to create it", path)
		}
		t.Fatalf("reading golden file: %v", err)
	}
	expectedNorm, err := normalizeJSON(expected)
	if err != nil {
		t.Fatalf("golden file %s is not valid JSON: %v", path, err)
	}
	if !bytes.Equal(normalized, expectedNorm) {
		t.Errorf("golden mismatch for %s/%s\nexpected:\n%s\nactual:\n%s",
			feature, name, expectedNorm, normalized)
	}
}

// AssertGoldenValue marshals v and compares it against the named golden
// file, for tests whose pinned artifact is a Go value rather than
// already-encoded JSON.
func AssertGoldenValue(t *testing.T, feature, name string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling value for golden comparison: %v", err)
	}
	AssertGoldenJSON(t, feature, name, b)
}

// normalizeJSON re-marshals arbitrary JSON with sorted object keys and
// two-space indentation, so goldens diff cleanly in review and the
// comparison in AssertGoldenJSON ignores formatting.
func normalizeJSON(raw []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}
