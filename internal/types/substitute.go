package types

import "sort"

// MapAtoms rebuilds root with the same Boolean shape (same lo/hi skeleton)
// but with every atom replaced by f(atom), reusing b.mkNode so the result is
// still properly hash-consed.
func MapAtoms(b *BDD, root Node, f func(Atom) Atom) Node {
	memo := map[Node]Node{}
	var walk func(Node) Node
	walk = func(n Node) Node {
		if n == BTrue || n == BFalse {
			return n
		}
		if v, ok := memo[n]; ok {
			return v
		}
		nd := b.nodeAt(n)
		lo := walk(nd.lo)
		hi := walk(nd.hi)
		out := b.mkNode(f(nd.atom), lo, hi)
		memo[n] = out
		return out
	}
	return walk(root)
}

// Substitute replaces every flexible variable named in subst with its
// mapped type, structurally, including inside recursive types. Fixed
// (rigid) variables are never substituted (I5), and the mapped types are
// substituted into as-is, never re-walked with subst themselves, so a
// mapping like alpha -> alpha ∨ int stays a one-shot rewrite instead of an
// accidental recursive type. Self-referential types are handled the same
// way FreshRecursive builds them: the output ref is reserved before its
// body is computed, so a self-reference inside the original resolves to the
// *substituted* recursive type, not the original one. Results that end up
// non-recursive are re-interned so hash-consing (I1) keeps holding for
// substitution outputs.
func Substitute(store *Store, ref Ref, subst map[string]Ref) Ref {
	return substRef(store, ref, subst, map[Ref]Ref{})
}

func substRef(store *Store, ref Ref, subst map[string]Ref, memo map[Ref]Ref) Ref {
	if v, ok := memo[ref]; ok {
		return v
	}
	id := store.FreshRecursive(func(out Ref) *Rec {
		memo[ref] = out
		return substRecBody(store, store.Resolve(ref), subst, memo)
	})
	if !recRefersTo(store, store.Resolve(id), id) {
		interned := store.Intern(store.Resolve(id))
		memo[ref] = interned
		return interned
	}
	return id
}

// recRefersTo reports whether target is transitively reachable from r's
// atoms.
func recRefersTo(store *Store, r *Rec, target Ref) bool {
	seen := map[Ref]bool{}
	var walkRef func(Ref) bool
	walkRef = func(x Ref) bool {
		if x == target {
			return true
		}
		if seen[x] {
			return false
		}
		seen[x] = true
		rec := store.Resolve(x)
		if rec == nil {
			// A slot reserved by an in-progress FreshRecursive higher up the
			// call stack; its id is already stable, so there is nothing more
			// to scan through it.
			return false
		}
		return scanRecRefs(rec, walkRef)
	}
	return scanRecRefs(r, walkRef)
}

// substRecBody substitutes slot by slot. Within a slot, each coclause's
// variable layer splits into the variables subst resolves (their mapped
// types intersect or subtract at the record level, which automatically
// restricts them to the slot's constructor universe) and the variables it
// leaves symbolic (rebuilt as var atoms in place); the constructor atoms
// underneath have their nested refs substituted recursively.
func substRecBody(store *Store, orig *Rec, subst map[string]Ref, memo map[Ref]Ref) *Rec {
	identity := func(a Atom) Atom { return a }

	result := substSlot(store, orig.FuncDefault, func(n Node) *Rec { return &Rec{FuncDefault: n} }, identity, subst, memo)
	result = Union(result, substSlot(store, orig.TupleDefault, func(n Node) *Rec { return &Rec{TupleDefault: n} }, identity, subst, memo))

	for arity, node := range orig.Functions {
		part := substSlot(store, node, placeFuncArity(arity), func(a Atom) Atom {
			fa := a.(FuncAtom)
			return FuncAtom{Domains: substRefs(store, fa.Domains, subst, memo), Codomain: substRef(store, fa.Codomain, subst, memo)}
		}, subst, memo)
		result = Union(result, part)
	}
	for arity, node := range orig.Tuples {
		part := substSlot(store, node, placeTupleArity(arity), func(a Atom) Atom {
			ta := a.(TupleAtom)
			return TupleAtom{Elements: substRefs(store, ta.Elements, subst, memo)}
		}, subst, memo)
		result = Union(result, part)
	}

	result = Union(result, substSlot(store, orig.Record, func(n Node) *Rec { return &Rec{Record: n} }, func(a Atom) Atom {
		return substRecordAtom(store, a.(RecordAtom), subst, memo)
	}, subst, memo))
	result = Union(result, substSlot(store, orig.AtomSet, func(n Node) *Rec { return &Rec{AtomSet: n} }, identity, subst, memo))
	result = Union(result, substSlot(store, orig.Interval, func(n Node) *Rec { return &Rec{Interval: n} }, identity, subst, memo))
	result = Union(result, substSlot(store, orig.Bitstring, func(n Node) *Rec { return &Rec{Bitstring: n} }, identity, subst, memo))
	result = Union(result, substSlot(store, orig.MapT, func(n Node) *Rec { return &Rec{MapT: n} }, func(a Atom) Atom {
		ma := a.(MapAtom)
		return MapAtom{KeyDomain: substRef(store, ma.KeyDomain, subst, memo), ValueRange: substRef(store, ma.ValueRange, subst, memo)}
	}, subst, memo))

	return result.normalize()
}

func substSlot(store *Store, root Node, place slotPlace, substAtom func(Atom) Atom, subst map[string]Ref, memo map[Ref]Ref) *Rec {
	out := Empty()
	Dnf(sharedBDD, root, func(c Coclause) bool {
		vp, vn, cp, cn := splitVarAtoms(c)

		n := BTrue
		var posT, negT []Ref
		for _, v := range vp {
			if t, ok := subst[v.Name]; ok && !v.Fixed {
				posT = append(posT, t)
			} else {
				n = sharedBDD.Intersect(n, sharedBDD.Leaf(v))
			}
		}
		for _, v := range vn {
			if t, ok := subst[v.Name]; ok && !v.Fixed {
				negT = append(negT, t)
			} else {
				n = sharedBDD.Intersect(n, sharedBDD.NLeaf(v))
			}
		}
		for _, a := range cp {
			n = sharedBDD.Intersect(n, sharedBDD.Leaf(substAtom(a)))
		}
		for _, a := range cn {
			n = sharedBDD.Intersect(n, sharedBDD.NLeaf(substAtom(a)))
		}

		part := place(n)
		for _, t := range posT {
			part = Intersect(part, store.Resolve(t))
		}
		for _, t := range negT {
			part = Diff(part, store.Resolve(t))
		}
		out = Union(out, part)
		return true
	}, func(acc, next bool) bool { return acc }, true, false)
	return out
}

func substRefs(store *Store, refs []Ref, subst map[string]Ref, memo map[Ref]Ref) []Ref {
	out := make([]Ref, len(refs))
	for i, r := range refs {
		out[i] = substRef(store, r, subst, memo)
	}
	return out
}

func substRecordAtom(store *Store, ra RecordAtom, subst map[string]Ref, memo map[Ref]Ref) RecordAtom {
	fc := make(map[string]Ref, len(ra.Fields))
	for k, v := range ra.Fields {
		fc[k] = substRef(store, v, subst, memo)
	}
	var row *Ref
	if ra.Row != nil {
		rr := substRef(store, *ra.Row, subst, memo)
		row = &rr
	}
	return RecordAtom{Fields: fc, Row: row}
}

// FreeVariables collects every distinct variable name reachable from ref,
// flexible or fixed, descending into recursive types without looping
// forever.
func FreeVariables(store *Store, ref Ref) []string {
	seen := map[Ref]bool{}
	names := map[string]bool{}
	var walk func(Ref)
	walk = func(r Ref) {
		if seen[r] {
			return
		}
		seen[r] = true
		rec := store.Resolve(r)
		for _, a := range recAtoms(rec) {
			if v, ok := a.(VarAtom); ok {
				names[v.Name] = true
			}
		}
		scanRecRefs(rec, func(nested Ref) bool {
			walk(nested)
			return false
		})
	}
	walk(ref)

	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
