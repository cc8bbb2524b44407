package types

import (
	"fmt"

	engerrors "github.com/sunholo/ailang/internal/errors"
)

// TypeExpr is a declarative, data-driven description of a type, meant to be
// decoded from YAML (cf. cmd/ailang's "check" command and internal/repl's
// ":load"). It is deliberately not a language grammar: there is no lexer or
// parser here, just a tree literal a config file can describe directly,
// matching the engine's "types in, verdicts out" interface (§6) without
// reaching into the excluded source-language front end.
type TypeExpr struct {
	Kind string `yaml:"kind"`

	// atom/var
	Symbol string `yaml:"symbol,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Fixed  bool   `yaml:"fixed,omitempty"`

	// interval
	Lo    int64 `yaml:"lo,omitempty"`
	Hi    int64 `yaml:"hi,omitempty"`
	HasLo bool  `yaml:"has_lo,omitempty"`
	HasHi bool  `yaml:"has_hi,omitempty"`

	// bitstring
	Bits []int8 `yaml:"bits,omitempty"`

	// tuple elements/func domains/union, intersect, diff operands/map key
	Args []TypeExpr `yaml:"args,omitempty"`
	// func codomain, map value range, negate/list operand
	Result *TypeExpr `yaml:"result,omitempty"`

	// record
	Fields map[string]TypeExpr `yaml:"fields,omitempty"`
	Row    *TypeExpr           `yaml:"row,omitempty"`

	// reference to a previously-bound name in the same scenario
	Ref string `yaml:"ref,omitempty"`
}

// Scenario is a named batch of type bindings plus checks to run against
// them, the unit cmd/ailang's check command and the REPL's :load both
// operate on.
type Scenario struct {
	Types  map[string]TypeExpr `yaml:"types"`
	Checks []Check             `yaml:"checks"`
}

// Check is one assertion to evaluate against a built Scenario's
// environment. A boolean op (is_subtype, is_empty) asserts its result, and
// tally asserts that at least one solution exists; set expect: false to
// assert the opposite (the subtyping does not hold, the type is inhabited,
// the constraints contradict).
type Check struct {
	Name   string   `yaml:"name"`
	Op     string   `yaml:"op"` // is_subtype | is_empty | tally
	With   []string `yaml:"with"`
	Expect *bool    `yaml:"expect,omitempty"`
}

// Want is the boolean outcome this check asserts: Expect if set, true
// otherwise.
func (c Check) Want() bool {
	if c.Expect != nil {
		return *c.Expect
	}
	return true
}

// Build resolves every named type in s.Types into refs, in whatever order
// satisfies "ref" dependencies, returning the resulting environment.
func (s *Scenario) Build(b *Builder) (map[string]Ref, error) {
	env := map[string]Ref{}
	building := map[string]bool{}
	var resolve func(name string) (Ref, error)
	resolve = func(name string) (Ref, error) {
		if r, ok := env[name]; ok {
			return r, nil
		}
		if building[name] {
			return Nil, fmt.Errorf("scenario: cycle detected resolving %q", name)
		}
		expr, ok := s.Types[name]
		if !ok {
			return Nil, fmt.Errorf("scenario: undefined type %q", name)
		}
		building[name] = true
		r, err := buildExpr(b, expr, resolve)
		delete(building, name)
		if err != nil {
			return Nil, err
		}
		env[name] = r
		return r, nil
	}
	for name := range s.Types {
		if _, err := resolve(name); err != nil {
			return nil, err
		}
	}
	return env, nil
}

func buildExpr(b *Builder, e TypeExpr, resolve func(string) (Ref, error)) (Ref, error) {
	if e.Ref != "" {
		return resolve(e.Ref)
	}
	switch e.Kind {
	case "any":
		return b.Any(), nil
	case "empty":
		return b.Empty(), nil
	case "atom":
		return b.AtomLit(e.Symbol), nil
	case "int":
		if err := ValidateInterval(e.Lo, e.Hi, e.HasLo, e.HasHi); err != nil {
			return Nil, err
		}
		switch {
		case !e.HasLo && !e.HasHi:
			return b.IntAny(), nil
		case e.HasLo && e.HasHi:
			return b.IntRange(e.Lo, e.Hi), nil
		case e.HasLo:
			return b.IntAtLeast(e.Lo), nil
		default:
			return b.IntAtMost(e.Hi), nil
		}
	case "bits":
		if err := ValidateBits(e.Bits); err != nil {
			return Nil, err
		}
		return b.Bits(e.Bits), nil
	case "var":
		return b.Var(e.Name, e.Fixed), nil
	case "tuple":
		elems := make([]Ref, len(e.Args))
		for i, a := range e.Args {
			r, err := buildExpr(b, a, resolve)
			if err != nil {
				return Nil, err
			}
			elems[i] = r
		}
		return b.Tuple(elems...), nil
	case "func":
		domains := make([]Ref, len(e.Args))
		for i, a := range e.Args {
			r, err := buildExpr(b, a, resolve)
			if err != nil {
				return Nil, err
			}
			domains[i] = r
		}
		if e.Result == nil {
			return Nil, fmt.Errorf("scenario: func type missing result codomain")
		}
		cod, err := buildExpr(b, *e.Result, resolve)
		if err != nil {
			return Nil, err
		}
		return b.Func(domains, cod), nil
	case "record":
		fields := make(map[string]Ref, len(e.Fields))
		for name, fe := range e.Fields {
			r, err := buildExpr(b, fe, resolve)
			if err != nil {
				return Nil, err
			}
			fields[name] = r
		}
		var row *Ref
		if e.Row != nil {
			r, err := buildExpr(b, *e.Row, resolve)
			if err != nil {
				return Nil, err
			}
			row = &r
		}
		return b.Record(fields, row), nil
	case "map":
		if err := ValidateTupleArity("map", 1, len(e.Args)); err != nil {
			return Nil, err
		}
		if e.Result == nil {
			return Nil, fmt.Errorf("scenario: map type needs a result value type")
		}
		key, err := buildExpr(b, e.Args[0], resolve)
		if err != nil {
			return Nil, err
		}
		val, err := buildExpr(b, *e.Result, resolve)
		if err != nil {
			return Nil, err
		}
		return b.Map(key, val), nil
	case "list":
		if e.Result == nil {
			return Nil, fmt.Errorf("scenario: list type needs a result element type")
		}
		elem, err := buildExpr(b, *e.Result, resolve)
		if err != nil {
			return Nil, err
		}
		return b.List(elem), nil
	case "union", "intersect", "diff":
		if err := ValidateTupleArity(e.Kind, 2, len(e.Args)); err != nil {
			return Nil, err
		}
		a, err := buildExpr(b, e.Args[0], resolve)
		if err != nil {
			return Nil, err
		}
		c, err := buildExpr(b, e.Args[1], resolve)
		if err != nil {
			return Nil, err
		}
		switch e.Kind {
		case "union":
			return b.Union(a, c), nil
		case "intersect":
			return b.Intersect(a, c), nil
		default:
			return b.Diff(a, c), nil
		}
	case "negate":
		if e.Result == nil {
			return Nil, fmt.Errorf("scenario: negate needs a result operand")
		}
		a, err := buildExpr(b, *e.Result, resolve)
		if err != nil {
			return Nil, err
		}
		return b.Negate(a), nil
	default:
		return Nil, engerrors.WrapReport(engerrors.NewStructural(
			engerrors.KindUnknownConstructor,
			fmt.Sprintf("scenario: unknown type kind %q", e.Kind),
			map[string]any{"kind": e.Kind},
		))
	}
}
