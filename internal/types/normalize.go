package types

// Normalizer runs normalize/tallying (§4.6): like Engine, but every boolean
// "is this empty" question is lifted into "under which variable
// assignments is this empty", producing a ConstraintSetSet instead of a
// bool. The structural recursion mirrors Engine/dnf_*.go exactly --
// isEmpty(x) becomes normalize(x), boolean && becomes meet, boolean ||
// becomes join -- and where the emptiness walk dismisses a satisfiable
// variable layer, the normalizer instead lifts it into atomic constraints
// via the ntlv rule.
type Normalizer struct {
	store  *Store
	memo   map[Ref]ConstraintSetSet
	fixed  map[string]bool
	budget *Budget
}

// NewNormalizer creates a normalizer over store. fixed names the type
// variables that must never be solved for (I5): they can still appear
// inside the Lower/Upper bounds of other, flexible variables, but normalize
// never emits a constraint keyed by one.
func NewNormalizer(store *Store, fixed map[string]bool) *Normalizer {
	if fixed == nil {
		fixed = map[string]bool{}
	}
	return &Normalizer{
		store: store,
		memo:  map[Ref]ConstraintSetSet{},
		fixed: fixed,
	}
}

// NewBoundedNormalizer is NewNormalizer with a budget attached (§7's
// "Undecidable/timeout" failure mode); see NewBoundedEngine.
func NewBoundedNormalizer(store *Store, fixed map[string]bool, budget *Budget) *Normalizer {
	nz := NewNormalizer(store, fixed)
	nz.budget = budget
	return nz
}

// Undecidable reports whether this normalizer's budget ran out before its
// last query finished.
func (nz *Normalizer) Undecidable() bool { return nz.budget.Exhausted() }

// Normalize computes the constraint-set-set under which ref denotes the
// empty type.
func Normalize(store *Store, ref Ref, fixed map[string]bool) ConstraintSetSet {
	return NewNormalizer(store, fixed).normalize(ref).canonicalize()
}

// Tally computes the constraint-set-set that makes every lhs<=rhs pair in
// constraints hold simultaneously: normalize(diff) for each pair, met
// together (§6, "tally").
func Tally(store *Store, constraints [][2]Ref, fixed map[string]bool) ConstraintSetSet {
	nz := NewNormalizer(store, fixed)
	return nz.tally(constraints).canonicalize()
}

func (nz *Normalizer) tally(constraints [][2]Ref) ConstraintSetSet {
	fs := make([]func() ConstraintSetSet, len(constraints))
	for i, pair := range constraints {
		lhs, rhs := pair[0], pair[1]
		fs[i] = func() ConstraintSetSet {
			d := nz.store.Intern(Diff(nz.store.Resolve(lhs), nz.store.Resolve(rhs)))
			return nz.normalize(d)
		}
	}
	return nz.meetAll(fs...)
}

func (nz *Normalizer) meetAll(fs ...func() ConstraintSetSet) ConstraintSetSet {
	if len(fs) == 0 {
		return ConstraintSetSet{ConstraintSet{}}
	}
	acc := fs[0]()
	for _, f := range fs[1:] {
		if len(acc) == 0 {
			return nil
		}
		accCopy := acc
		acc = Meet(nz.store, func() ConstraintSetSet { return accCopy }, f)
	}
	return acc
}

func (nz *Normalizer) joinAll(fs ...func() ConstraintSetSet) ConstraintSetSet {
	if len(fs) == 0 {
		return nil
	}
	acc := fs[0]()
	for _, f := range fs[1:] {
		if isTriviallyTrue(acc) {
			return acc
		}
		accCopy := acc
		acc = Join(nz.store, func() ConstraintSetSet { return accCopy }, f)
	}
	return acc
}

func (nz *Normalizer) normalize(ref Ref) ConstraintSetSet {
	if v, ok := nz.memo[ref]; ok {
		return v
	}
	if !nz.budget.tick() {
		// Conservative answer per §7: "no constraint" rather than assert a
		// solution set the normalizer never actually reached.
		return ConstraintSetSet{ConstraintSet{}}
	}
	// Coinductive assumption, same as Engine.isEmpty: a ref already being
	// normalized that recurses into itself is assumed to hold trivially.
	nz.memo[ref] = ConstraintSetSet{ConstraintSet{}}
	result := nz.computeNormalize(ref)
	nz.memo[ref] = result
	return result
}

func (nz *Normalizer) computeNormalize(ref Ref) ConstraintSetSet {
	r := nz.store.Resolve(ref)

	return nz.meetAll(
		func() ConstraintSetSet { return nz.funcPartNormalize(r) },
		func() ConstraintSetSet { return nz.tuplePartNormalize(r) },
		func() ConstraintSetSet { return nz.recordDnfNormalize(r.Record) },
		func() ConstraintSetSet { return nz.atomDnfNormalize(r.AtomSet) },
		func() ConstraintSetSet { return nz.intervalDnfNormalize(r.Interval) },
		func() ConstraintSetSet { return nz.bitstringDnfNormalize(r.Bitstring) },
		func() ConstraintSetSet { return nz.mapDnfNormalize(r.MapT) },
	)
}

func boolToCSS(empty bool) ConstraintSetSet {
	if empty {
		return ConstraintSetSet{ConstraintSet{}}
	}
	return nil
}

// slotPlace rebuilds a slot-local BDD node into a full type record, so a
// coclause residue ("the coclause with one variable removed") can be
// re-interned and used as a constraint bound.
type slotPlace func(Node) *Rec

func placeFuncArity(arity int) slotPlace {
	return func(n Node) *Rec { return (&Rec{Functions: map[int]Node{arity: n}}).normalize() }
}

func placeTupleArity(arity int) slotPlace {
	return func(n Node) *Rec { return (&Rec{Tuples: map[int]Node{arity: n}}).normalize() }
}

// ntlvCoclause normalizes one slot coclause. The variable layer either
// contradicts outright (trivially empty), or each flexible variable in it
// yields one candidate constraint per the ntlv rule (§4.6): a positive
// variable X with residue R gives X <= ¬R, a negative one gives R <= X.
// Joined with those candidates is the constructor escape hatch: the atoms
// underneath may be (or be made) empty on their own, in which case the
// variable layer is irrelevant.
func (nz *Normalizer) ntlvCoclause(place slotPlace, c Coclause, ctor func(ctorPos, ctorNeg []Atom) ConstraintSetSet) ConstraintSetSet {
	vp, vn, cp, cn := splitVarAtoms(c)
	if varContradiction(vp, vn) {
		return ConstraintSetSet{ConstraintSet{}}
	}

	var alts []func() ConstraintSetSet
	for i, v := range vp {
		if v.Fixed || nz.fixed[v.Name] {
			continue
		}
		i, v := i, v
		alts = append(alts, func() ConstraintSetSet {
			rest := nz.store.Intern(place(restNode(vp, vn, cp, cn, i, -1)))
			upper := nz.store.Intern(Negate(nz.store.Resolve(rest)))
			return ConstraintSetSet{{v.Name: {Lower: nz.store.Intern(Empty()), Upper: upper}}}
		})
	}
	for i, v := range vn {
		if v.Fixed || nz.fixed[v.Name] {
			continue
		}
		i, v := i, v
		alts = append(alts, func() ConstraintSetSet {
			lower := nz.store.Intern(place(restNode(vp, vn, cp, cn, -1, i)))
			return ConstraintSetSet{{v.Name: {Lower: lower, Upper: nz.store.Intern(Any())}}}
		})
	}
	alts = append(alts, func() ConstraintSetSet { return ctor(cp, cn) })
	return nz.joinAll(alts...)
}

// restNode rebuilds the coclause as a single BDD node, omitting the
// positive variable at index skipPos and the negative variable at skipNeg
// (-1 to omit neither).
func restNode(vp, vn []VarAtom, cp, cn []Atom, skipPos, skipNeg int) Node {
	n := BTrue
	for i, v := range vp {
		if i != skipPos {
			n = sharedBDD.Intersect(n, sharedBDD.Leaf(v))
		}
	}
	for i, v := range vn {
		if i != skipNeg {
			n = sharedBDD.Intersect(n, sharedBDD.NLeaf(v))
		}
	}
	for _, a := range cp {
		n = sharedBDD.Intersect(n, sharedBDD.Leaf(a))
	}
	for _, a := range cn {
		n = sharedBDD.Intersect(n, sharedBDD.NLeaf(a))
	}
	return n
}

// slotCoclauses flattens root into one suspended normalization per
// coclause, met together (every coclause must be emptied).
func (nz *Normalizer) slotCoclauses(root Node, each func(c Coclause) ConstraintSetSet) ConstraintSetSet {
	var coclauses []func() ConstraintSetSet
	Dnf(sharedBDD, root, func(c Coclause) bool {
		coclauses = append(coclauses, func() ConstraintSetSet { return each(c) })
		return true
	}, func(acc, next bool) bool { return acc }, true, false)
	return nz.meetAll(coclauses...)
}

func (nz *Normalizer) funcPartNormalize(r *Rec) ConstraintSetSet {
	fs := []func() ConstraintSetSet{
		func() ConstraintSetSet { return nz.defaultNormalize(r.FuncDefault, func(n Node) *Rec { return &Rec{FuncDefault: n} }) },
	}
	for arity, node := range r.Functions {
		arity, node := arity, node
		fs = append(fs, func() ConstraintSetSet { return nz.funcDnfNormalize(node, arity) })
	}
	return nz.meetAll(fs...)
}

func (nz *Normalizer) tuplePartNormalize(r *Rec) ConstraintSetSet {
	fs := []func() ConstraintSetSet{
		func() ConstraintSetSet { return nz.defaultNormalize(r.TupleDefault, func(n Node) *Rec { return &Rec{TupleDefault: n} }) },
	}
	for arity, node := range r.Tuples {
		arity, node := arity, node
		fs = append(fs, func() ConstraintSetSet { return nz.tupleDnfNormalize(node, arity) })
	}
	return nz.meetAll(fs...)
}

// defaultNormalize handles the function/tuple default slots: var-only DNFs
// whose constructor universe (every arity not explicitly listed) is never
// empty, so only the variable layer can produce solutions.
func (nz *Normalizer) defaultNormalize(root Node, place slotPlace) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		return nz.ntlvCoclause(place, c, func(_, _ []Atom) ConstraintSetSet { return nil })
	})
}

func (nz *Normalizer) funcDnfNormalize(root Node, arity int) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		return nz.ntlvCoclause(placeFuncArity(arity), c, func(cp, cn []Atom) ConstraintSetSet {
			pos := make([]FuncAtom, len(cp))
			for i, a := range cp {
				pos[i] = a.(FuncAtom)
			}
			neg := make([]FuncAtom, len(cn))
			for i, a := range cn {
				neg[i] = a.(FuncAtom)
			}
			return nz.funcCoclauseNormalize(pos, neg)
		})
	})
}

// funcCoclauseNormalize lifts the central arrow algorithm (§4.3 step 3)
// into constraints: a negative arrow witnesses emptiness when its domain is
// covered by BigS *and* the explore decomposition holds, so the two lift to
// a meet per negative, joined across negatives (any one witness suffices).
func (nz *Normalizer) funcCoclauseNormalize(pos, neg []FuncAtom) ConstraintSetSet {
	if len(neg) == 0 {
		return nil
	}
	bigS := nz.store.Intern(Empty())
	for _, p := range pos {
		bigS = nz.store.Intern(Union(nz.store.Resolve(bigS), nz.store.Resolve(funcTupleRef(nz.store, p.Domains))))
	}

	var branches []func() ConstraintSetSet
	for _, n := range neg {
		n := n
		nDomain := funcTupleRef(nz.store, n.Domains)
		notC := nz.store.Intern(Negate(nz.store.Resolve(n.Codomain)))
		p := pos
		branches = append(branches, func() ConstraintSetSet {
			notCovered := nz.store.Intern(Diff(nz.store.Resolve(nDomain), nz.store.Resolve(bigS)))
			return nz.meetAll(
				func() ConstraintSetSet { return nz.normalize(notCovered) },
				func() ConstraintSetSet { return nz.exploreNormalize(nDomain, notC, p) },
			)
		})
	}
	return nz.joinAll(branches...)
}

// exploreNormalize is explore (dnf_function.go) with isEmpty replaced by
// normalize and &&/|| replaced by meet/join.
func (nz *Normalizer) exploreNormalize(ts, t2 Ref, pos []FuncAtom) ConstraintSetSet {
	base := []func() ConstraintSetSet{
		func() ConstraintSetSet { return nz.normalize(ts) },
		func() ConstraintSetSet { return nz.normalize(t2) },
	}
	if len(pos) == 0 {
		return nz.joinAll(base...)
	}
	p, rest := pos[0], pos[1:]
	recBranch := func() ConstraintSetSet {
		cRestricted := nz.store.Intern(Intersect(nz.store.Resolve(t2), nz.store.Resolve(p.Codomain)))
		pDomain := funcTupleRef(nz.store, p.Domains)
		tsRemainder := nz.store.Intern(Diff(nz.store.Resolve(ts), nz.store.Resolve(pDomain)))
		return nz.meetAll(
			func() ConstraintSetSet { return nz.exploreNormalize(ts, cRestricted, rest) },
			func() ConstraintSetSet { return nz.exploreNormalize(tsRemainder, t2, rest) },
		)
	}
	return nz.joinAll(append(base, recBranch)...)
}

func (nz *Normalizer) tupleDnfNormalize(root Node, arity int) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		return nz.ntlvCoclause(placeTupleArity(arity), c, func(cp, cn []Atom) ConstraintSetSet {
			pos := make([]TupleAtom, len(cp))
			for i, a := range cp {
				pos[i] = a.(TupleAtom)
			}
			neg := make([]TupleAtom, len(cn))
			for i, a := range cn {
				neg[i] = a.(TupleAtom)
			}
			return nz.tupleCoclauseNormalize(arity, pos, neg)
		})
	})
}

func (nz *Normalizer) tupleCoclauseNormalize(arity int, pos, neg []TupleAtom) ConstraintSetSet {
	comps := make([]Ref, arity)
	for i := range comps {
		comps[i] = nz.store.Intern(Any())
	}
	for _, p := range pos {
		for i, d := range p.Elements {
			comps[i] = nz.store.Intern(Intersect(nz.store.Resolve(comps[i]), nz.store.Resolve(d)))
		}
	}
	return nz.tupleExploreNormalize(comps, neg)
}

func (nz *Normalizer) tupleExploreNormalize(comps []Ref, neg []TupleAtom) ConstraintSetSet {
	if len(neg) == 0 {
		fs := make([]func() ConstraintSetSet, len(comps))
		for i, c := range comps {
			c := c
			fs[i] = func() ConstraintSetSet { return nz.normalize(c) }
		}
		return nz.joinAll(fs...)
	}
	head, rest := neg[0], neg[1:]
	fs := make([]func() ConstraintSetSet, len(comps))
	for i := range comps {
		i := i
		fs[i] = func() ConstraintSetSet {
			split := append([]Ref{}, comps...)
			split[i] = nz.store.Intern(Diff(nz.store.Resolve(comps[i]), nz.store.Resolve(head.Elements[i])))
			return nz.tupleExploreNormalize(split, rest)
		}
	}
	return nz.meetAll(fs...)
}

func (nz *Normalizer) mapDnfNormalize(root Node) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		place := func(n Node) *Rec { return &Rec{MapT: n} }
		return nz.ntlvCoclause(place, c, func(cp, cn []Atom) ConstraintSetSet {
			pos := make([]TupleAtom, len(cp))
			for i, a := range cp {
				m := a.(MapAtom)
				pos[i] = TupleAtom{Elements: []Ref{m.KeyDomain, m.ValueRange}}
			}
			neg := make([]TupleAtom, len(cn))
			for i, a := range cn {
				m := a.(MapAtom)
				neg[i] = TupleAtom{Elements: []Ref{m.KeyDomain, m.ValueRange}}
			}
			return nz.tupleCoclauseNormalize(2, pos, neg)
		})
	})
}

func (nz *Normalizer) recordDnfNormalize(root Node) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		place := func(n Node) *Rec { return &Rec{Record: n} }
		return nz.ntlvCoclause(place, c, func(cp, cn []Atom) ConstraintSetSet {
			pos := make([]RecordAtom, len(cp))
			for i, a := range cp {
				pos[i] = a.(RecordAtom)
			}
			neg := make([]RecordAtom, len(cn))
			for i, a := range cn {
				neg[i] = a.(RecordAtom)
			}
			return nz.recordCoclauseNormalize(pos, neg)
		})
	})
}

func (nz *Normalizer) recordCoclauseNormalize(pos, neg []RecordAtom) ConstraintSetSet {
	names := recordFieldNames(pos, neg)
	comps := make(map[string]Ref, len(names))
	for nm := range names {
		comps[nm] = nz.store.Intern(Any())
	}
	for _, p := range pos {
		def := recordFieldDefault(nz.store, p)
		for nm := range names {
			v, ok := p.Fields[nm]
			if !ok {
				v = def
			}
			comps[nm] = nz.store.Intern(Intersect(nz.store.Resolve(comps[nm]), nz.store.Resolve(v)))
		}
	}
	return nz.recordExploreNormalize(comps, names, neg)
}

func (nz *Normalizer) recordExploreNormalize(comps map[string]Ref, names map[string]bool, neg []RecordAtom) ConstraintSetSet {
	if len(neg) == 0 {
		fs := make([]func() ConstraintSetSet, 0, len(names))
		for nm := range names {
			c := comps[nm]
			fs = append(fs, func() ConstraintSetSet { return nz.normalize(c) })
		}
		return nz.joinAll(fs...)
	}
	head, rest := neg[0], neg[1:]
	def := recordFieldDefault(nz.store, head)
	fs := make([]func() ConstraintSetSet, 0, len(names))
	for nm := range names {
		nm := nm
		fs = append(fs, func() ConstraintSetSet {
			v, ok := head.Fields[nm]
			if !ok {
				v = def
			}
			split := make(map[string]Ref, len(comps))
			for k, val := range comps {
				split[k] = val
			}
			split[nm] = nz.store.Intern(Diff(nz.store.Resolve(comps[nm]), nz.store.Resolve(v)))
			return nz.recordExploreNormalize(split, names, rest)
		})
	}
	return nz.meetAll(fs...)
}

func (nz *Normalizer) atomDnfNormalize(root Node) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		place := func(n Node) *Rec { return &Rec{AtomSet: n} }
		return nz.ntlvCoclause(place, c, func(cp, cn []Atom) ConstraintSetSet {
			return boolToCSS(atomEmptyCoclause(castAtomLits(cp), castAtomLits(cn)))
		})
	})
}

func (nz *Normalizer) intervalDnfNormalize(root Node) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		place := func(n Node) *Rec { return &Rec{Interval: n} }
		return nz.ntlvCoclause(place, c, func(cp, cn []Atom) ConstraintSetSet {
			return boolToCSS(intervalEmptyCoclause(castIntervals(cp), castIntervals(cn)))
		})
	})
}

func (nz *Normalizer) bitstringDnfNormalize(root Node) ConstraintSetSet {
	return nz.slotCoclauses(root, func(c Coclause) ConstraintSetSet {
		place := func(n Node) *Rec { return &Rec{Bitstring: n} }
		return nz.ntlvCoclause(place, c, func(cp, cn []Atom) ConstraintSetSet {
			return boolToCSS(bitEmptyCoclause(castBits(cp), castBits(cn)))
		})
	})
}
