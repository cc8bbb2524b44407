package types

import (
	"sort"
	"strings"
)

// sharedBDD is the process-wide node table every constructor DNF lives in.
// A single table (rather than one per constructor) is what lets variable
// atoms layer over any constructor's atoms inside one slot BDD: the global
// atom order (atomLess) puts variables above constructor atoms on every
// root-to-leaf path, realizing §4.2's "variable-DNFs carrying a
// constructor-DNF at their leaves" as a flattened mixed-atom BDD. Node ids
// are therefore canonical across all Recs and all Stores (I1, P9).
var sharedBDD = NewBDD()

// Rec is the type record (§3, §4.4): a tuple of per-constructor DNFs.
// Functions and tuples are keyed by arity; every other constructor has a
// single DNF. Each slot's BDD may carry variable atoms layered above the
// slot's own constructor atoms, which is how a type variable (an unknown
// subset of the whole value universe) intersects and subtracts against any
// constructor.
//
// FuncDefault/TupleDefault hold the DNF that applies to any arity *not*
// present in Functions/Tuples, which is what lets a finite Rec represent the
// infinite-arity universal type (Any): every arity's DNF is implicitly
// BTrue via the default, with no need to enumerate arities. Default nodes
// only ever carry variable atoms, since a function or tuple atom pins a
// concrete arity and therefore lives in the per-arity maps. The zero value
// of Rec (every field BFalse, both maps nil) is exactly the empty type,
// which is why Empty() below does not need to build anything.
type Rec struct {
	FuncDefault  Node
	Functions    map[int]Node
	TupleDefault Node
	Tuples       map[int]Node
	Record       Node
	AtomSet      Node
	Interval     Node
	Bitstring    Node
	MapT         Node
}

// Empty returns the bottom type (∅): no value belongs to it.
func Empty() *Rec { return &Rec{} }

// Any returns the top type (⊤): every value belongs to it.
func Any() *Rec {
	return &Rec{
		FuncDefault:  BTrue,
		TupleDefault: BTrue,
		Record:       BTrue,
		AtomSet:      BTrue,
		Interval:     BTrue,
		Bitstring:    BTrue,
		MapT:         BTrue,
	}
}

func arityNode(m map[int]Node, def Node, arity int) Node {
	if m == nil {
		return def
	}
	if n, ok := m[arity]; ok {
		return n
	}
	return def
}

// normalize prunes explicit per-arity entries that coincide with the
// default, keeping canonicalKey deterministic for structurally-equal Recs
// regardless of which arities happened to be touched while building them.
func (r *Rec) normalize() *Rec {
	r.Functions = pruneDefaults(r.Functions, r.FuncDefault)
	r.Tuples = pruneDefaults(r.Tuples, r.TupleDefault)
	return r
}

func pruneDefaults(m map[int]Node, def Node) map[int]Node {
	if len(m) == 0 {
		return nil
	}
	out := make(map[int]Node, len(m))
	for k, v := range m {
		if v != def {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Union computes the componentwise Boolean union of two type records.
func Union(a, b *Rec) *Rec {
	r := &Rec{
		FuncDefault:  sharedBDD.Union(a.FuncDefault, b.FuncDefault),
		Functions:    mergeArity(a.Functions, b.Functions, a.FuncDefault, b.FuncDefault, sharedBDD.Union),
		TupleDefault: sharedBDD.Union(a.TupleDefault, b.TupleDefault),
		Tuples:       mergeArity(a.Tuples, b.Tuples, a.TupleDefault, b.TupleDefault, sharedBDD.Union),
		Record:       sharedBDD.Union(a.Record, b.Record),
		AtomSet:      sharedBDD.Union(a.AtomSet, b.AtomSet),
		Interval:     sharedBDD.Union(a.Interval, b.Interval),
		Bitstring:    sharedBDD.Union(a.Bitstring, b.Bitstring),
		MapT:         sharedBDD.Union(a.MapT, b.MapT),
	}
	return r.normalize()
}

// Intersect computes the componentwise Boolean intersection of two type
// records.
func Intersect(a, b *Rec) *Rec {
	r := &Rec{
		FuncDefault:  sharedBDD.Intersect(a.FuncDefault, b.FuncDefault),
		Functions:    mergeArity(a.Functions, b.Functions, a.FuncDefault, b.FuncDefault, sharedBDD.Intersect),
		TupleDefault: sharedBDD.Intersect(a.TupleDefault, b.TupleDefault),
		Tuples:       mergeArity(a.Tuples, b.Tuples, a.TupleDefault, b.TupleDefault, sharedBDD.Intersect),
		Record:       sharedBDD.Intersect(a.Record, b.Record),
		AtomSet:      sharedBDD.Intersect(a.AtomSet, b.AtomSet),
		Interval:     sharedBDD.Intersect(a.Interval, b.Interval),
		Bitstring:    sharedBDD.Intersect(a.Bitstring, b.Bitstring),
		MapT:         sharedBDD.Intersect(a.MapT, b.MapT),
	}
	return r.normalize()
}

// mergeArity combines two arity-keyed slot maps entrywise, falling back to
// each side's default for an arity only the other side lists explicitly.
func mergeArity(a, b map[int]Node, aDef, bDef Node, combine func(x, y Node) Node) map[int]Node {
	keys := map[int]bool{}
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}
	out := map[int]Node{}
	for k := range keys {
		out[k] = combine(arityNode(a, aDef, k), arityNode(b, bDef, k))
	}
	return out
}

// Negate computes the componentwise Boolean negation of a type record.
// Negation distributes per constructor because the constructors partition
// the universe of values: a function value can never be a tuple, an atom,
// etc., so the part of ¬t belonging to each constructor's domain is exactly
// the negation of t's own component within that domain.
func Negate(a *Rec) *Rec {
	r := &Rec{
		FuncDefault:  sharedBDD.Negate(a.FuncDefault),
		Functions:    negateArity(a.Functions),
		TupleDefault: sharedBDD.Negate(a.TupleDefault),
		Tuples:       negateArity(a.Tuples),
		Record:       sharedBDD.Negate(a.Record),
		AtomSet:      sharedBDD.Negate(a.AtomSet),
		Interval:     sharedBDD.Negate(a.Interval),
		Bitstring:    sharedBDD.Negate(a.Bitstring),
		MapT:         sharedBDD.Negate(a.MapT),
	}
	return r.normalize()
}

func negateArity(m map[int]Node) map[int]Node {
	if len(m) == 0 {
		return nil
	}
	out := make(map[int]Node, len(m))
	for k, v := range m {
		out[k] = sharedBDD.Negate(v)
	}
	return out
}

// Diff is Intersect(a, Negate(b)).
func Diff(a, b *Rec) *Rec { return Intersect(a, Negate(b)) }

func (r *Rec) canonicalKey() string {
	var b strings.Builder
	b.WriteString("fd=")
	b.WriteString(nodeMemoKey(r.FuncDefault))
	b.WriteString(";fn=")
	writeArityMap(&b, r.Functions)
	b.WriteString(";td=")
	b.WriteString(nodeMemoKey(r.TupleDefault))
	b.WriteString(";tp=")
	writeArityMap(&b, r.Tuples)
	b.WriteString(";rec=")
	b.WriteString(nodeMemoKey(r.Record))
	b.WriteString(";atom=")
	b.WriteString(nodeMemoKey(r.AtomSet))
	b.WriteString(";iv=")
	b.WriteString(nodeMemoKey(r.Interval))
	b.WriteString(";bits=")
	b.WriteString(nodeMemoKey(r.Bitstring))
	b.WriteString(";map=")
	b.WriteString(nodeMemoKey(r.MapT))
	return b.String()
}

func writeArityMap(b *strings.Builder, m map[int]Node) {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		b.WriteByte('[')
		b.WriteString(itoa(k))
		b.WriteByte(':')
		b.WriteString(nodeMemoKey(m[k]))
		b.WriteByte(']')
	}
}

// recAtoms collects every distinct atom reachable from any of r's slots,
// defaults included.
func recAtoms(r *Rec) []Atom {
	var out []Atom
	out = append(out, AllAtoms(sharedBDD, r.FuncDefault)...)
	out = append(out, AllAtoms(sharedBDD, r.TupleDefault)...)
	for _, n := range r.Functions {
		out = append(out, AllAtoms(sharedBDD, n)...)
	}
	for _, n := range r.Tuples {
		out = append(out, AllAtoms(sharedBDD, n)...)
	}
	out = append(out, AllAtoms(sharedBDD, r.Record)...)
	out = append(out, AllAtoms(sharedBDD, r.AtomSet)...)
	out = append(out, AllAtoms(sharedBDD, r.Interval)...)
	out = append(out, AllAtoms(sharedBDD, r.Bitstring)...)
	out = append(out, AllAtoms(sharedBDD, r.MapT)...)
	return out
}

// scanRecRefs invokes f on every type reference nested directly inside r's
// atoms (function domains and codomains, tuple elements, record fields and
// rows, map key and value domains), stopping early when f returns true.
func scanRecRefs(r *Rec, f func(Ref) bool) bool {
	for _, a := range recAtoms(r) {
		switch at := a.(type) {
		case FuncAtom:
			for _, d := range at.Domains {
				if f(d) {
					return true
				}
			}
			if f(at.Codomain) {
				return true
			}
		case TupleAtom:
			for _, e := range at.Elements {
				if f(e) {
					return true
				}
			}
		case RecordAtom:
			for _, v := range at.Fields {
				if f(v) {
					return true
				}
			}
			if at.Row != nil && f(*at.Row) {
				return true
			}
		case MapAtom:
			if f(at.KeyDomain) || f(at.ValueRange) {
				return true
			}
		}
	}
	return false
}
