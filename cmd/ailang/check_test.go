package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	engerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/testutil"
)

const passingScenario = `
types:
  okAtom:
    kind: atom
    symbol: ok
  union:
    kind: union
    args:
      - {ref: okAtom}
      - {kind: atom, symbol: error}
checks:
  - name: ok-in-union
    op: is_subtype
    with: [okAtom, union]
`

const failingScenario = `
types:
  okAtom:
    kind: atom
    symbol: ok
  errAtom:
    kind: atom
    symbol: error
checks:
  - name: ok-not-subtype-of-err
    op: is_subtype
    with: [okAtom, errAtom]
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCheckFilesAllPass(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "pass.yaml", passingScenario)

	var buf bytes.Buffer
	err := runCheckFiles([]string{path}, &buf, false)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "OK")
}

func TestRunCheckFilesReportsFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "fail.yaml", failingScenario)

	var buf bytes.Buffer
	err := runCheckFiles([]string{path}, &buf, false)
	require.Error(t, err)
	require.Contains(t, buf.String(), "false")
}

func TestRunCheckFilesConcurrentMultiFileOrderIsStable(t *testing.T) {
	dir := t.TempDir()
	a := writeScenario(t, dir, "a.yaml", passingScenario)
	b := writeScenario(t, dir, "b.yaml", passingScenario)

	var buf bytes.Buffer
	err := runCheckFiles([]string{a, b}, &buf, false)
	require.NoError(t, err)

	out := buf.String()
	require.Less(t, indexOf(out, "== "+a), indexOf(out, "== "+b), "results must print in input order regardless of completion order")
}

func TestRunCheckFilesMissingFileReportsError(t *testing.T) {
	var buf bytes.Buffer
	err := runCheckFiles([]string{filepath.Join(t.TempDir(), "missing.yaml")}, &buf, false)
	require.Error(t, err)
	require.Contains(t, buf.String(), "ERROR")
}

const malformedIntervalScenario = `
types:
  bad:
    kind: int
    lo: 10
    hi: 1
    has_lo: true
    has_hi: true
`

// TestRunCheckFilesJSONErrorsEmitsEnvelope pins the --json-errors path: a
// structural failure raised by the scenario builder must surface as the
// schema-versioned engine-error envelope, kind tag intact, rather than as a
// human-readable line.
func TestRunCheckFilesJSONErrorsEmitsEnvelope(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "bad.yaml", malformedIntervalScenario)

	var buf bytes.Buffer
	err := runCheckFiles([]string{path}, &buf, true)
	require.Error(t, err)

	out := buf.String()
	require.Contains(t, out, `"schema"`)
	require.Contains(t, out, "engine-error/v1")
	require.Contains(t, out, string(engerrors.KindMalformedInterval))

	var env engerrors.Encoded
	start := strings.Index(out, "{")
	require.GreaterOrEqual(t, start, 0)
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &env))
	require.Equal(t, engerrors.KindMalformedInterval, env.Kind)
	require.NotNil(t, env.Fix, "the malformed-interval report carries a suggested fix")
}

// TestCheckReportLinesGolden pins the rendered check table for a passing
// scenario. Color is forced off so the golden stays byte-stable regardless
// of the terminal the test happens to run under.
func TestCheckReportLinesGolden(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	dir := t.TempDir()
	path := writeScenario(t, dir, "pass.yaml", passingScenario)

	rep := checkOneFile(path, false)
	require.False(t, rep.failed)
	testutil.AssertGoldenValue(t, "check", "passing-lines", rep.lines)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
