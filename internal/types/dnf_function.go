package types

// funcTupleRef builds (or reuses) the tuple-typed Ref "tupleOf(domains)" used
// to compare an arrow's domain against the accumulated domain of the
// positive arrows it is checked against. It interns directly rather than
// going through a Builder so the emptiness engine never needs a *Builder of
// its own.
func funcTupleRef(store *Store, domains []Ref) Ref {
	arity := len(domains)
	ds := append([]Ref{}, domains...)
	node := sharedBDD.Leaf(TupleAtom{Elements: ds})
	return store.Intern((&Rec{Tuples: map[int]Node{arity: node}}).normalize())
}

// funcEmptyCoclause decides emptiness of a single function-DNF coclause
// (§4.3, the central algorithm): positive arrows pos, negative arrows neg.
// It is the one place in the engine where covariance/contravariance
// reasoning over arrows actually happens; every other DNF module's
// emptiness check is a simpler componentwise test.
func funcEmptyCoclause(e *Engine, pos, neg []FuncAtom) bool {
	// Step 1: no negative arrow means the coclause can always be inhabited
	// by a function that behaves like any one positive arrow (or by any
	// function at all, if pos is also empty).
	if len(neg) == 0 {
		return false
	}

	// Step 2: BigS = the union of the domains of every positive arrow,
	// expressed as a single tuple-typed ref. A negative arrow whose domain
	// escapes BigS can never be ruled out by the positive arrows, so it
	// cannot witness emptiness and is skipped (step 3's subset test); another
	// negative arrow may still empty the coclause.
	bigS := e.store.Intern(Empty())
	for _, p := range pos {
		bigS = e.store.Intern(Union(e.store.Resolve(bigS), e.store.Resolve(funcTupleRef(e.store, p.Domains))))
	}

	for _, n := range neg {
		nDomain := funcTupleRef(e.store, n.Domains)
		if !e.isSubtype(nDomain, bigS) {
			continue
		}
		notC := e.store.Intern(Negate(e.store.Resolve(n.Codomain)))
		if e.explore(nDomain, notC, pos) {
			return true
		}
	}
	return false
}

// explore implements the recursive part of the central algorithm:
//
//	explore(Ts, T2, [])        = IsEmpty(T2) || IsEmpty(Ts)
//	explore(Ts, T2, p::rest)   = IsEmpty(Ts) || IsEmpty(T2) ||
//	                             (explore(Ts, T2 ∧ Cp, rest) && explore(Ts \ tupleOf(Dp), T2, rest))
//
// Ts tracks the slice of the negative arrow's domain not yet covered by any
// positive arrow consumed so far; T2 tracks the portion of the negated
// codomain not yet ruled out. Both shrink monotonically as positive arrows
// are consumed, which is what makes the recursion terminate.
func (e *Engine) explore(ts, t2 Ref, pos []FuncAtom) bool {
	if e.isEmpty(ts) || e.isEmpty(t2) {
		return true
	}
	if len(pos) == 0 {
		return false
	}
	p := pos[0]
	rest := pos[1:]

	cRestricted := e.store.Intern(Intersect(e.store.Resolve(t2), e.store.Resolve(p.Codomain)))
	if !e.explore(ts, cRestricted, rest) {
		return false
	}

	pDomain := funcTupleRef(e.store, p.Domains)
	tsRemainder := e.store.Intern(Diff(e.store.Resolve(ts), e.store.Resolve(pDomain)))
	return e.explore(tsRemainder, t2, rest)
}

// funcDnfEmpty reports whether the full function-DNF rooted at root is
// empty: every coclause in its DNF expansion must be empty. A coclause's
// variable layer empties it only on direct contradiction; otherwise the
// arrow atoms underneath decide.
func funcDnfEmpty(e *Engine, root Node) bool {
	return Dnf(sharedBDD, root, func(c Coclause) bool {
		vp, vn, cp, cn := splitVarAtoms(c)
		if varContradiction(vp, vn) {
			return true
		}
		pos := make([]FuncAtom, len(cp))
		for i, a := range cp {
			pos[i] = a.(FuncAtom)
		}
		neg := make([]FuncAtom, len(cn))
		for i, a := range cn {
			neg[i] = a.(FuncAtom)
		}
		return funcEmptyCoclause(e, pos, neg)
	}, func(acc, next bool) bool { return acc && next }, true, false)
}
