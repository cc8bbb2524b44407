// Package repl implements an interactive shell over the type engine: load a
// scenario file's named types, then query subtyping, emptiness, and
// tallying against them without writing a Go program. It never parses a
// type expression grammar of its own; everything it operates on comes from
// a declaratively-loaded internal/types.Scenario.
package repl

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/sunholo/ailang/internal/types"
)

// REPL holds the live environment built from the most recently loaded
// scenario, plus the line editor driving the session.
type REPL struct {
	store *types.Store
	env   map[string]types.Ref
	out   io.Writer
	line  *liner.State
}

// New creates a REPL with an empty environment over a fresh Store.
func New(out io.Writer) *REPL {
	return &REPL{
		store: types.NewStore(),
		env:   map[string]types.Ref{},
		out:   out,
		line:  liner.NewLiner(),
	}
}

// Run drives the read-eval-print loop until the user quits or stdin closes.
func (r *REPL) Run() error {
	defer r.line.Close()
	r.line.SetCtrlCAborts(true)

	prompt := color.New(color.FgCyan).Sprint("ailang> ")
	for {
		input, err := r.line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)
		if err := r.dispatch(input); err != nil {
			fmt.Fprintln(r.out, color.New(color.FgRed).Sprint("error:"), err)
		}
	}
}

func (r *REPL) dispatch(input string) error {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ":quit", ":q":
		os.Exit(0)
	case ":load":
		return r.cmdLoad(args)
	case ":vars":
		return r.cmdVars()
	case ":subtype":
		return r.cmdSubtype(args)
	case ":empty":
		return r.cmdEmpty(args)
	case ":tally":
		return r.cmdTally(args)
	case ":help", ":h":
		r.printHelp()
	default:
		return fmt.Errorf("unknown command %q (try :help)", cmd)
	}
	return nil
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `commands:
  :load <scenario.yaml>   load named types from a scenario file
  :vars                   list the currently bound type names
  :subtype A B             is A <= B ?
  :empty A                 is A empty ?
  :tally A1 B1 [A2 B2 ...] tally {A1<=B1, A2<=B2, ...}
  :quit                    exit`)
}

func (r *REPL) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(":load needs exactly one path")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var sc types.Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return fmt.Errorf("parsing scenario: %w", err)
	}
	env, err := sc.Build(types.NewBuilder(r.store))
	if err != nil {
		return err
	}
	for name, ref := range env {
		r.env[name] = ref
	}
	fmt.Fprintf(r.out, "loaded %d type(s) from %s\n", len(env), args[0])
	return nil
}

func (r *REPL) cmdVars() error {
	if len(r.env) == 0 {
		fmt.Fprintln(r.out, "(no types loaded; use :load)")
		return nil
	}
	names := make([]string, 0, len(r.env))
	for name := range r.env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(r.out, " ", name)
	}
	return nil
}

func (r *REPL) resolve(name string) (types.Ref, error) {
	ref, ok := r.env[name]
	if !ok {
		return types.Nil, fmt.Errorf("undefined type %q (use :load, then :vars)", name)
	}
	return ref, nil
}

func (r *REPL) cmdSubtype(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf(":subtype needs exactly two type names")
	}
	a, err := r.resolve(args[0])
	if err != nil {
		return err
	}
	b, err := r.resolve(args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, types.IsSubtype(r.store, a, b))
	return nil
}

func (r *REPL) cmdEmpty(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(":empty needs exactly one type name")
	}
	a, err := r.resolve(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, types.IsEmpty(r.store, a))
	return nil
}

func (r *REPL) cmdTally(args []string) error {
	if len(args)%2 != 0 || len(args) == 0 {
		return fmt.Errorf(":tally needs an even, nonzero number of type names")
	}
	pairs := make([][2]types.Ref, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		lhs, err := r.resolve(args[i])
		if err != nil {
			return err
		}
		rhs, err := r.resolve(args[i+1])
		if err != nil {
			return err
		}
		pairs = append(pairs, [2]types.Ref{lhs, rhs})
	}
	css := types.Tally(r.store, pairs, nil)
	fmt.Fprintf(r.out, "%d solution(s)\n", len(css))
	return nil
}
