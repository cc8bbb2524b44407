package types

// tupleEmptyCoclause decides emptiness of a single tuple-DNF coclause: the
// positive tuples pos are combined componentwise by intersection (a value
// must inhabit every positive tuple at once), then each negative tuple in
// neg is subtracted from the resulting box in turn.
//
// Subtracting a single n-ary negative box (D1,...,Dn) from a product region
// (T1,...,Tn) splits it into the union of the n boxes obtained by replacing
// exactly one factor with Ti\Di: a tuple escapes (D1,...,Dn) iff it escapes
// Di in at least one coordinate. Recursively removing the remaining
// negatives from each of those boxes and requiring all of them to end up
// empty is exactly "the positive region, minus every negative tuple, is
// empty".
func tupleEmptyCoclause(e *Engine, arity int, pos, neg []TupleAtom) bool {
	comps := make([]Ref, arity)
	for i := range comps {
		comps[i] = e.store.Intern(Any())
	}
	for _, p := range pos {
		for i, d := range p.Elements {
			comps[i] = e.store.Intern(Intersect(e.store.Resolve(comps[i]), e.store.Resolve(d)))
		}
	}
	return tupleExplore(e, comps, neg)
}

func tupleExplore(e *Engine, comps []Ref, neg []TupleAtom) bool {
	if len(neg) == 0 {
		for _, c := range comps {
			if e.isEmpty(c) {
				return true
			}
		}
		return false
	}

	head, rest := neg[0], neg[1:]
	for i := range comps {
		split := append([]Ref{}, comps...)
		split[i] = e.store.Intern(Diff(e.store.Resolve(comps[i]), e.store.Resolve(head.Elements[i])))
		if !tupleExplore(e, split, rest) {
			return false
		}
	}
	return true
}

// tupleDnfEmpty reports whether the full tuple-DNF rooted at root (all of
// whose tuple atoms share the given arity) is empty.
func tupleDnfEmpty(e *Engine, root Node, arity int) bool {
	return Dnf(sharedBDD, root, func(c Coclause) bool {
		vp, vn, cp, cn := splitVarAtoms(c)
		if varContradiction(vp, vn) {
			return true
		}
		pos := make([]TupleAtom, len(cp))
		for i, a := range cp {
			pos[i] = a.(TupleAtom)
		}
		neg := make([]TupleAtom, len(cn))
		for i, a := range cn {
			neg[i] = a.(TupleAtom)
		}
		return tupleEmptyCoclause(e, arity, pos, neg)
	}, func(acc, next bool) bool { return acc && next }, true, false)
}
