package types

// Builder provides a fluent API for constructing type references over a
// Store. This mirrors the host checker's own type-construction surface: it
// keeps callers away from raw Rec/Node literals and gives every constructor
// a single, readable entry point.
//
// Example usage:
//
//	b := NewBuilder(nil) // nil uses the shared DefaultStore
//	okOrError := b.Union(b.AtomLit("ok"), b.AtomLit("error"))
//	pair := b.Tuple(b.IntAny(), okOrError)
//	fn := b.Func([]Ref{pair}, b.IntAny())
type Builder struct {
	store *Store
}

// NewBuilder creates a Builder bound to store. A nil store uses the shared
// process-wide DefaultStore.
func NewBuilder(store *Store) *Builder {
	if store == nil {
		store = DefaultStore()
	}
	return &Builder{store: store}
}

func (b *Builder) intern(r *Rec) Ref { return b.store.Intern(r.normalize()) }

// Store returns the store this builder interns into.
func (b *Builder) Store() *Store { return b.store }

// Empty returns the bottom type ∅.
func (b *Builder) Empty() Ref { return b.intern(Empty()) }

// Any returns the top type, the union of every constructor at every arity.
func (b *Builder) Any() Ref { return b.intern(Any()) }

// Func builds the arrow type (domains...) -> codomain.
func (b *Builder) Func(domains []Ref, codomain Ref) Ref {
	arity := len(domains)
	ds := append([]Ref{}, domains...)
	node := sharedBDD.Leaf(FuncAtom{Domains: ds, Codomain: codomain})
	return b.intern(&Rec{Functions: map[int]Node{arity: node}})
}

// Tuple builds the product type (elements...).
func (b *Builder) Tuple(elements ...Ref) Ref {
	arity := len(elements)
	es := append([]Ref{}, elements...)
	node := sharedBDD.Leaf(TupleAtom{Elements: es})
	return b.intern(&Rec{Tuples: map[int]Node{arity: node}})
}

// Record builds a record type with the given fields. A nil row makes the
// record closed (exactly these fields); a non-nil row makes it open
// (these fields plus whatever the row variable's type describes).
func (b *Builder) Record(fields map[string]Ref, row *Ref) Ref {
	fc := make(map[string]Ref, len(fields))
	for k, v := range fields {
		fc[k] = v
	}
	node := sharedBDD.Leaf(RecordAtom{Fields: fc, Row: row})
	return b.intern(&Rec{Record: node})
}

// AtomLit builds the singleton atom type containing exactly this symbol.
func (b *Builder) AtomLit(symbol string) Ref {
	node := sharedBDD.Leaf(AtomLit{Symbol: canonicalizeSymbol(symbol)})
	return b.intern(&Rec{AtomSet: node})
}

// IntAny builds the unbounded integer type (-inf, +inf).
func (b *Builder) IntAny() Ref {
	node := sharedBDD.Leaf(IntervalAtom{})
	return b.intern(&Rec{Interval: node})
}

// IntRange builds the closed interval [lo, hi].
func (b *Builder) IntRange(lo, hi int64) Ref {
	node := sharedBDD.Leaf(IntervalAtom{Lo: lo, Hi: hi, HasLo: true, HasHi: true})
	return b.intern(&Rec{Interval: node})
}

// IntAtLeast builds the half-open interval [lo, +inf).
func (b *Builder) IntAtLeast(lo int64) Ref {
	node := sharedBDD.Leaf(IntervalAtom{Lo: lo, HasLo: true})
	return b.intern(&Rec{Interval: node})
}

// IntAtMost builds the half-open interval (-inf, hi].
func (b *Builder) IntAtMost(hi int64) Ref {
	node := sharedBDD.Leaf(IntervalAtom{Hi: hi, HasHi: true})
	return b.intern(&Rec{Interval: node})
}

// Bits builds the bitstring type matching exactly the given ternary pattern
// (each entry is 0, 1, or -1 for "don't care").
func (b *Builder) Bits(pattern []int8) Ref {
	p := append([]int8{}, pattern...)
	node := sharedBDD.Leaf(BitAtom{Bits: p})
	return b.intern(&Rec{Bitstring: node})
}

// Map builds the map type "every key in keyDomain maps to a value in
// valueRange".
func (b *Builder) Map(keyDomain, valueRange Ref) Ref {
	node := sharedBDD.Leaf(MapAtom{KeyDomain: keyDomain, ValueRange: valueRange})
	return b.intern(&Rec{MapT: node})
}

// Var builds a type-variable reference. A variable denotes an unknown
// subset of the whole value universe, so its leaf layers over every
// constructor slot, defaults included -- this is what lets it later
// intersect or subtract against any concrete constructor without collapsing
// (§4.2's variable-over-constructor nesting). Fixed variables are rigid
// skolems that tally (§6) will never substitute (I5).
func (b *Builder) Var(name string, fixed bool) Ref {
	leaf := sharedBDD.Leaf(VarAtom{Name: name, Fixed: fixed})
	return b.intern(&Rec{
		FuncDefault:  leaf,
		TupleDefault: leaf,
		Record:       leaf,
		AtomSet:      leaf,
		Interval:     leaf,
		Bitstring:    leaf,
		MapT:         leaf,
	})
}

// List builds the recursive list type "rec X. 'nil | (elem, X)", the
// standard encoding of lists as alternating nil/cons tuples (§9, cf. the
// "rec X. int ∨ (X, X)" scenario in §8).
func (b *Builder) List(elem Ref) Ref {
	return b.store.FreshRecursive(func(self Ref) *Rec {
		nilAtom := sharedBDD.Leaf(AtomLit{Symbol: "nil"})
		consNode := sharedBDD.Leaf(TupleAtom{Elements: []Ref{elem, self}})
		r := Union(&Rec{AtomSet: nilAtom}, &Rec{Tuples: map[int]Node{2: consNode}})
		return r.normalize()
	})
}

// Union, Intersect, Diff, and Negate are convenience wrappers so callers can
// chain Builder methods without reaching for the package-level functions in
// api.go.
func (b *Builder) Union(a, c Ref) Ref     { return b.intern(Union(b.store.Resolve(a), b.store.Resolve(c))) }
func (b *Builder) Intersect(a, c Ref) Ref { return b.intern(Intersect(b.store.Resolve(a), b.store.Resolve(c))) }
func (b *Builder) Diff(a, c Ref) Ref      { return b.intern(Diff(b.store.Resolve(a), b.store.Resolve(c))) }
func (b *Builder) Negate(a Ref) Ref       { return b.intern(Negate(b.store.Resolve(a))) }
