package types

import engerrors "github.com/sunholo/ailang/internal/errors"

// This file is the package's external interface (§6): the small set of
// operations every other part of the checker is expected to call, as
// opposed to the constructor-specific machinery (dnf_*.go, tyrec.go) those
// operations are built from. Everything here is a thin Ref-in/Ref-out
// wrapper; the actual algorithms live where the doc comments point.

// Make exposes type construction through a Builder bound to store. A nil
// store uses the shared DefaultStore, matching Builder's own convention.
func Make(store *Store) *Builder { return NewBuilder(store) }

// UnionRef, IntersectRef, DiffRef, and NegateRef are the Ref-level boolean
// operators (§6's "union/intersect/diff/negate"), resolving through store
// and re-interning the result. Callers building types incrementally with a
// Builder can use its Union/Intersect/Diff/Negate methods instead; these
// free functions are for callers holding bare Refs.
func UnionRef(store *Store, a, b Ref) Ref {
	return store.Intern(Union(store.Resolve(a), store.Resolve(b)))
}

func IntersectRef(store *Store, a, b Ref) Ref {
	return store.Intern(Intersect(store.Resolve(a), store.Resolve(b)))
}

func DiffRef(store *Store, a, b Ref) Ref {
	return store.Intern(Diff(store.Resolve(a), store.Resolve(b)))
}

func NegateRef(store *Store, a Ref) Ref {
	return store.Intern(Negate(store.Resolve(a)))
}

// IsSubtype and IsEmpty are re-exported here for discoverability; both are
// defined in emptiness.go, which implements the §4.5 decision procedure.
//
//	IsSubtype(store, a, b) bool
//	IsEmpty(store, t) bool

// Tally and Normalize are re-exported here for discoverability; both are
// defined in normalize.go, which implements the §4.6 decision procedure.
//
//	Tally(store, constraints, fixed) ConstraintSetSet
//	Normalize(store, ref, fixed) ConstraintSetSet

// Substitute and FreeVariables are re-exported here for discoverability;
// both are defined in substitute.go.
//
//	Substitute(store, ref, subst) Ref
//	FreeVariables(store, ref) []string

// QueryIsEmpty runs IsEmpty under a step budget (§7's "Undecidable/timeout"
// failure mode). When the budget runs out mid-query it returns its
// conservative "not empty" answer alongside engerrors.ErrUndecidable; the
// caller decides whether that answer is good enough or the query needs a
// bigger budget.
func QueryIsEmpty(store *Store, ref Ref, budget *Budget) (bool, error) {
	e := NewBoundedEngine(store, budget)
	empty := e.isEmpty(ref)
	if e.Undecidable() {
		return empty, engerrors.ErrUndecidable
	}
	return empty, nil
}

// QueryTally runs Tally under a step budget. When the budget runs out
// mid-query it returns whatever constraint-set-set it had accumulated
// (conservatively "no constraint" if nothing yet) alongside
// engerrors.ErrUndecidable.
func QueryTally(store *Store, constraints [][2]Ref, fixed map[string]bool, budget *Budget) (ConstraintSetSet, error) {
	nz := NewBoundedNormalizer(store, fixed, budget)
	result := nz.tally(constraints).canonicalize()
	if nz.Undecidable() {
		return result, engerrors.ErrUndecidable
	}
	return result, nil
}

// HasRef reports whether target is transitively reachable from ref through
// any constructor (§4.2's "does any atom transitively reference this ref?"
// generic BDD operation), descending into recursive types without looping.
// This is the occurs-check callers need before building a substitution map
// that might otherwise introduce an unintended cycle.
func HasRef(store *Store, ref, target Ref) bool {
	if ref == target {
		return true
	}
	return recRefersTo(store, store.Resolve(ref), target)
}
