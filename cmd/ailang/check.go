package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	engerrors "github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/types"
)

func newCheckCmd() *cobra.Command {
	var jsonErrors bool
	cmd := &cobra.Command{
		Use:   "check <scenario.yaml> [scenario2.yaml ...]",
		Short: "build the types in one or more scenario files and run their checks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckFiles(args, cmd.OutOrStdout(), jsonErrors)
		},
	}
	cmd.Flags().BoolVar(&jsonErrors, "json-errors", false,
		"render failures as engine-error JSON envelopes instead of human-readable lines")
	return cmd
}

// fileReport is one scenario file's fully rendered output plus whether it
// errored, computed independently of every other file's report.
type fileReport struct {
	path   string
	lines  []string
	failed bool
}

// runCheckFiles checks every scenario file concurrently. Each file gets its
// own Store and per-query memo tables, matching the engine's concurrency
// model: the shared state that remains (the intern table per store, the
// process-wide BDD node table) is internally synchronized, and independent
// scenario files never share a Store. Results print in input order
// regardless of completion order, so the CLI's output stays deterministic
// even though the checks themselves race.
func runCheckFiles(paths []string, out io.Writer, jsonErrors bool) error {
	reports := make([]fileReport, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			reports[i] = checkOneFile(path, jsonErrors)
			return nil
		})
	}
	// Errors from a single file are rendered inline per-check, not
	// propagated as a Go error, so g.Wait() here only ever waits.
	_ = g.Wait()

	anyFailed := false
	for _, r := range reports {
		if len(paths) > 1 {
			fmt.Fprintf(out, "== %s ==\n", r.path)
		}
		for _, line := range r.lines {
			fmt.Fprintln(out, line)
		}
		if r.failed {
			anyFailed = true
		}
	}
	if anyFailed {
		return fmt.Errorf("one or more scenario files had failing checks")
	}
	return nil
}

func checkOneFile(path string, jsonErrors bool) fileReport {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	// renderErr is the one place an error becomes an output line: the
	// human-readable form by default, or the schema-versioned JSON envelope
	// (internal/errors.SafeEncodeError) for a host tool consuming this
	// command's output programmatically. Structural reports wrapped by the
	// scenario builder survive into the envelope with their kind tag intact.
	renderErr := func(prefix string, err error) string {
		if jsonErrors {
			return engerrors.SafeEncodeError(err)
		}
		if prefix == "" {
			return fmt.Sprintf("%s %v", bad("ERROR"), err)
		}
		return fmt.Sprintf("%s %s: %v", bad("ERROR"), prefix, err)
	}

	report := fileReport{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		report.lines = append(report.lines, renderErr("", err))
		report.failed = true
		return report
	}
	var sc types.Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		report.lines = append(report.lines, renderErr("parsing scenario", err))
		report.failed = true
		return report
	}

	store := types.NewStore()
	builder := types.NewBuilder(store)
	env, err := sc.Build(builder)
	if err != nil {
		report.lines = append(report.lines, renderErr("", err))
		report.failed = true
		return report
	}

	for _, c := range sc.Checks {
		result, passed, err := runSingleCheck(store, env, c)
		if err != nil {
			report.lines = append(report.lines, renderErr(c.Name, err))
			report.failed = true
			continue
		}
		if !passed {
			report.lines = append(report.lines, fmt.Sprintf("%s %s = %s", bad("FAIL"), c.Name, result))
			report.failed = true
			continue
		}
		report.lines = append(report.lines, fmt.Sprintf("%s %s = %s", ok("OK"), c.Name, result))
	}
	return report
}

// runSingleCheck evaluates one check, returning the rendered result and
// whether the outcome matched the check's expectation.
func runSingleCheck(store *types.Store, env map[string]types.Ref, c Check) (string, bool, error) {
	resolve := func(name string) (types.Ref, error) {
		r, ok := env[name]
		if !ok {
			return types.Nil, fmt.Errorf("undefined type %q", name)
		}
		return r, nil
	}

	switch c.Op {
	case "is_subtype":
		if len(c.With) != 2 {
			return "", false, fmt.Errorf("is_subtype needs exactly two operands")
		}
		a, err := resolve(c.With[0])
		if err != nil {
			return "", false, err
		}
		b, err := resolve(c.With[1])
		if err != nil {
			return "", false, err
		}
		got := types.IsSubtype(store, a, b)
		return fmt.Sprintf("%v", got), got == c.Want(), nil

	case "is_empty":
		if len(c.With) != 1 {
			return "", false, fmt.Errorf("is_empty needs exactly one operand")
		}
		a, err := resolve(c.With[0])
		if err != nil {
			return "", false, err
		}
		got := types.IsEmpty(store, a)
		return fmt.Sprintf("%v", got), got == c.Want(), nil

	case "tally":
		if len(c.With)%2 != 0 || len(c.With) == 0 {
			return "", false, fmt.Errorf("tally needs an even, nonzero number of operands (lhs/rhs pairs)")
		}
		pairs := make([][2]types.Ref, 0, len(c.With)/2)
		for i := 0; i < len(c.With); i += 2 {
			lhs, err := resolve(c.With[i])
			if err != nil {
				return "", false, err
			}
			rhs, err := resolve(c.With[i+1])
			if err != nil {
				return "", false, err
			}
			pairs = append(pairs, [2]types.Ref{lhs, rhs})
		}
		css := types.Tally(store, pairs, nil)
		return fmt.Sprintf("%d solution(s)", len(css)), (len(css) > 0) == c.Want(), nil

	default:
		return "", false, fmt.Errorf("unknown check op %q", c.Op)
	}
}

// Check is a re-export so check.go's signatures read naturally; the real
// type lives in internal/types/scenario.go.
type Check = types.Check
