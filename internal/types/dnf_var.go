package types

// splitVarAtoms partitions a coclause into its variable layer and the
// constructor atoms underneath it. Every slot BDD keeps its variable atoms
// above the constructor atoms (atomLess ranks kindVar first), so a coclause
// walked out of any slot decomposes cleanly into the two layers.
func splitVarAtoms(c Coclause) (varPos, varNeg []VarAtom, ctorPos, ctorNeg []Atom) {
	for _, a := range c.Pos {
		if v, ok := a.(VarAtom); ok {
			varPos = append(varPos, v)
		} else {
			ctorPos = append(ctorPos, a)
		}
	}
	for _, a := range c.Neg {
		if v, ok := a.(VarAtom); ok {
			varNeg = append(varNeg, v)
		} else {
			ctorNeg = append(ctorNeg, a)
		}
	}
	return varPos, varNeg, ctorPos, ctorNeg
}

// varContradiction reports whether a coclause's variable layer alone is
// already unsatisfiable: the same variable required both present and absent.
// Anything short of that never decides emptiness by itself, since distinct
// variables may be assigned overlapping types; the residual constraints a
// satisfiable variable layer induces are normalize.go's business (the ntlv
// rule, §4.6), not a boolean verdict here.
func varContradiction(pos, neg []VarAtom) bool {
	negSet := make(map[string]bool, len(neg))
	for _, n := range neg {
		negSet[n.Key()] = true
	}
	for _, p := range pos {
		if negSet[p.Key()] {
			return true
		}
	}
	return false
}

// varOnlyDnfEmpty decides emptiness of a DNF whose atoms are all variables.
// The function/tuple default slots are the callers: a default node denotes
// the variable layer over every arity not explicitly listed, and its
// constructor universe is never empty, so only a variable contradiction can
// empty a coclause.
func varOnlyDnfEmpty(root Node) bool {
	return Dnf(sharedBDD, root, func(c Coclause) bool {
		pos, neg, _, _ := splitVarAtoms(c)
		return varContradiction(pos, neg)
	}, func(acc, next bool) bool { return acc && next }, true, false)
}
