package types

// mapCoclauseEmpty decides emptiness of a single map-DNF coclause by
// delegating to the tuple emptiness walk on the equivalent 2-tuples
// (KeyDomain, ValueRange), per the design note on MapAtom in atoms.go.
func mapCoclauseEmpty(e *Engine, pos, neg []MapAtom) bool {
	toTuple := func(m MapAtom) TupleAtom { return TupleAtom{Elements: []Ref{m.KeyDomain, m.ValueRange}} }
	posT := make([]TupleAtom, len(pos))
	for i, p := range pos {
		posT[i] = toTuple(p)
	}
	negT := make([]TupleAtom, len(neg))
	for i, n := range neg {
		negT[i] = toTuple(n)
	}
	return tupleEmptyCoclause(e, 2, posT, negT)
}

func mapDnfEmpty(e *Engine, root Node) bool {
	return Dnf(sharedBDD, root, func(c Coclause) bool {
		vp, vn, cp, cn := splitVarAtoms(c)
		if varContradiction(vp, vn) {
			return true
		}
		pos := make([]MapAtom, len(cp))
		for i, a := range cp {
			pos[i] = a.(MapAtom)
		}
		neg := make([]MapAtom, len(cn))
		for i, a := range cn {
			neg[i] = a.(MapAtom)
		}
		return mapCoclauseEmpty(e, pos, neg)
	}, func(acc, next bool) bool { return acc && next }, true, false)
}
