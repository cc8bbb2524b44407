package types

// absentFieldSymbol is an unrepresentable atom used internally as the
// implicit type of a field a closed record does not have. It can never
// collide with a real program atom since it is not a valid source
// identifier.
const absentFieldSymbol = "\x00absent-field"

// defaultFieldDim is the synthetic field name standing in for every field
// the coclause's atoms do not mention explicitly. All unmentioned fields
// carry the same per-atom default (the row type, or the absent marker for a
// closed record), so one representative dimension is enough for the
// box-splitting walk. Without it, an open record's unnamed fields could
// never escape a closed negative's.
const defaultFieldDim = "\x00other-fields"

func recordAbsentRef(store *Store) Ref {
	return store.Intern(&Rec{AtomSet: sharedBDD.Leaf(AtomLit{Symbol: absentFieldSymbol})})
}

// recordFieldDefault is the type implicitly assigned to a field name this
// record atom does not mention: the row type if the record is open, or the
// absent-field marker if it is closed.
func recordFieldDefault(store *Store, r RecordAtom) Ref {
	if r.Row != nil {
		return *r.Row
	}
	return recordAbsentRef(store)
}

// recordEmptyCoclause decides emptiness of a single record-DNF coclause.
// Field-name sets across the coclause's atoms are first completed to their
// union (every atom implicitly ranges over every name via
// recordFieldDefault), which reduces the record atoms to named tuples and
// lets the same box-splitting argument as tupleExplore apply per field.
func recordEmptyCoclause(e *Engine, pos, neg []RecordAtom) bool {
	names := recordFieldNames(pos, neg)

	comps := make(map[string]Ref, len(names))
	for nm := range names {
		comps[nm] = e.store.Intern(Any())
	}
	for _, p := range pos {
		def := recordFieldDefault(e.store, p)
		for nm := range names {
			v, ok := p.Fields[nm]
			if !ok {
				v = def
			}
			comps[nm] = e.store.Intern(Intersect(e.store.Resolve(comps[nm]), e.store.Resolve(v)))
		}
	}
	return recordExplore(e, comps, names, neg)
}

func recordExplore(e *Engine, comps map[string]Ref, names map[string]bool, neg []RecordAtom) bool {
	if len(neg) == 0 {
		for nm := range names {
			if e.isEmpty(comps[nm]) {
				return true
			}
		}
		return false
	}

	head, rest := neg[0], neg[1:]
	def := recordFieldDefault(e.store, head)
	for nm := range names {
		v, ok := head.Fields[nm]
		if !ok {
			v = def
		}
		split := make(map[string]Ref, len(comps))
		for k, val := range comps {
			split[k] = val
		}
		split[nm] = e.store.Intern(Diff(e.store.Resolve(comps[nm]), e.store.Resolve(v)))
		if !recordExplore(e, split, names, rest) {
			return false
		}
	}
	return true
}

// recordFieldNames is the dimension set for the box-splitting walk: every
// explicitly-mentioned field plus the one representative default dimension.
func recordFieldNames(pos, neg []RecordAtom) map[string]bool {
	names := map[string]bool{defaultFieldDim: true}
	for _, p := range pos {
		for n := range p.Fields {
			names[n] = true
		}
	}
	for _, n := range neg {
		for nm := range n.Fields {
			names[nm] = true
		}
	}
	return names
}

func recordDnfEmpty(e *Engine, root Node) bool {
	return Dnf(sharedBDD, root, func(c Coclause) bool {
		vp, vn, cp, cn := splitVarAtoms(c)
		if varContradiction(vp, vn) {
			return true
		}
		pos := make([]RecordAtom, len(cp))
		for i, a := range cp {
			pos[i] = a.(RecordAtom)
		}
		neg := make([]RecordAtom, len(cn))
		for i, a := range cn {
			neg[i] = a.(RecordAtom)
		}
		return recordEmptyCoclause(e, pos, neg)
	}, func(acc, next bool) bool { return acc && next }, true, false)
}
