package types

import (
	"sort"
	"strings"
)

// Constraint bounds a single type variable: Lower <= Var <= Upper (§4.7).
type Constraint struct {
	Lower Ref
	Upper Ref
}

// ConstraintSet is a conjunction of bounds, one per variable. An empty
// ConstraintSet is the trivial solution (no constraints at all): it always
// holds.
type ConstraintSet map[string]Constraint

// ConstraintSetSet is a disjunction of ConstraintSets: the result of
// tallying/normalize is "any one of these assignments works". A nil/empty
// ConstraintSetSet means no solution exists (contradiction).
type ConstraintSetSet []ConstraintSet

func isTriviallyTrue(css ConstraintSetSet) bool {
	for _, cs := range css {
		if len(cs) == 0 {
			return true
		}
	}
	return false
}

// Meet computes the conjunction of two constraint-set-sets (cross product,
// dropping contradictory combinations). Both operands are thunked: if a()
// already has no solutions, b is never evaluated, since their conjunction
// can only have none either (§4.7's mandatory laziness, meant to stop a
// meet chain from fully expanding the tail of a constraint list once the
// head has already failed).
func Meet(store *Store, a, b func() ConstraintSetSet) ConstraintSetSet {
	av := a()
	if len(av) == 0 {
		return nil
	}
	bv := b()
	if len(bv) == 0 {
		return nil
	}
	var out ConstraintSetSet
	for _, csA := range av {
		for _, csB := range bv {
			if merged, ok := mergeConstraintSets(store, csA, csB); ok {
				out = append(out, merged)
			}
		}
	}
	return pruneDominance(store, out)
}

// Join computes the disjunction of two constraint-set-sets (set union with
// dominance pruning). If a() is already trivially true (contains the
// unconstrained solution), the union is too, and b is never evaluated.
func Join(store *Store, a, b func() ConstraintSetSet) ConstraintSetSet {
	av := a()
	if isTriviallyTrue(av) {
		return av
	}
	bv := b()
	if isTriviallyTrue(bv) {
		return bv
	}
	out := append(append(ConstraintSetSet{}, av...), bv...)
	return pruneDominance(store, out)
}

func mergeConstraintSets(store *Store, a, b ConstraintSet) (ConstraintSet, bool) {
	merged := make(ConstraintSet, len(a)+len(b))
	for v, c := range a {
		merged[v] = c
	}
	for v, cb := range b {
		if ca, ok := merged[v]; ok {
			merged[v] = Constraint{
				Lower: store.Intern(Union(store.Resolve(ca.Lower), store.Resolve(cb.Lower))),
				Upper: store.Intern(Intersect(store.Resolve(ca.Upper), store.Resolve(cb.Upper))),
			}
		} else {
			merged[v] = cb
		}
	}
	for _, c := range merged {
		if !IsSubtype(store, c.Lower, c.Upper) {
			return nil, false
		}
	}
	return merged, true
}

// pruneDominance drops every constraint set whose solutions are a subset of
// some other constraint set's solutions already in the list (§4.7's
// dominance pruning), keeping the constraint-set-set's size from growing
// with every redundant disjunct a naive join would otherwise accumulate.
func pruneDominance(store *Store, css ConstraintSetSet) ConstraintSetSet {
	var out ConstraintSetSet
	for i, cs := range css {
		dominated := false
		for j, other := range css {
			if i == j {
				continue
			}
			if dominatesConstraintSet(store, other, cs) && !(j < i && dominatesConstraintSet(store, cs, other)) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, cs)
		}
	}
	return out
}

// dominatesConstraintSet reports whether a's solution space is a superset
// of b's: every variable a constrains is constrained at least as tightly in
// b, and a variable a leaves unmentioned is unconstrained, so b may
// constrain it or not. In particular a strict-subset bundle dominates every
// superset bundle (P8).
func dominatesConstraintSet(store *Store, a, b ConstraintSet) bool {
	for v, ca := range a {
		cb, ok := b[v]
		if !ok {
			return false
		}
		if !IsSubtype(store, ca.Lower, cb.Lower) {
			return false
		}
		if !IsSubtype(store, cb.Upper, ca.Upper) {
			return false
		}
	}
	return true
}

// canonicalize sorts the bundle list under a total order on constraints, so
// that normalize/tally output is deterministic regardless of the map
// iteration and meet association order the computation happened to take.
func (css ConstraintSetSet) canonicalize() ConstraintSetSet {
	if len(css) < 2 {
		return css
	}
	out := append(ConstraintSetSet{}, css...)
	sort.SliceStable(out, func(i, j int) bool {
		return constraintSetKey(out[i]) < constraintSetKey(out[j])
	})
	return out
}

func constraintSetKey(cs ConstraintSet) string {
	names := make([]string, 0, len(cs))
	for v := range cs {
		names = append(names, v)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, v := range names {
		c := cs[v]
		b.WriteString(v)
		b.WriteByte(':')
		b.WriteString(itoa(int(c.Lower)))
		b.WriteByte(':')
		b.WriteString(itoa(int(c.Upper)))
		b.WriteByte(';')
	}
	return b.String()
}
