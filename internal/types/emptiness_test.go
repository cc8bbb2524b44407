package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomEmptinessAndSubtyping(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	ok := b.AtomLit("ok")
	err := b.AtomLit("error")
	union := b.Union(ok, err)

	require.False(t, IsEmpty(store, ok), "'ok is a non-empty singleton")
	require.True(t, IsEmpty(store, b.Empty()))
	require.False(t, IsEmpty(store, b.Any()))

	require.True(t, IsSubtype(store, ok, union))
	require.False(t, IsSubtype(store, union, ok))
	require.True(t, IsEmpty(store, b.Intersect(ok, err)), "'ok and 'error are disjoint atoms")
}

func TestIntervalEmptiness(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	lo := b.IntRange(1, 10)
	hi := b.IntRange(5, 20)
	disjoint := b.IntRange(100, 200)

	require.False(t, IsEmpty(store, b.Intersect(lo, hi)))
	require.True(t, IsEmpty(store, b.Intersect(lo, disjoint)))
	require.True(t, IsSubtype(store, b.IntRange(5, 10), lo))
}

func TestTupleEmptinessBoxSplitting(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	intAny := b.IntAny()
	okAtom := b.AtomLit("ok")
	pair := b.Tuple(intAny, okAtom)

	// (int, ok) minus (int, ok) is empty.
	require.True(t, IsEmpty(store, b.Diff(pair, pair)))

	// (int, ok) minus (int, error) is not empty: the 'ok component escapes.
	errPair := b.Tuple(intAny, b.AtomLit("error"))
	require.False(t, IsEmpty(store, b.Diff(pair, errPair)))
}

func TestFunctionArrowEmptinessCentralAlgorithm(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	intAny := b.IntAny()
	okAtom := b.AtomLit("ok")

	// (int -> ok) <= (int -> ok): diffing against itself is empty.
	f := b.Func([]Ref{intAny}, okAtom)
	require.True(t, IsEmpty(store, b.Diff(f, f)))

	// (int -> ok) is not a subtype of (int -> error): their difference is
	// witnessed by any argument, since the codomains are disjoint.
	g := b.Func([]Ref{intAny}, b.AtomLit("error"))
	require.False(t, IsEmpty(store, b.Diff(f, g)))

	// Covariance: a function returning a *subtype* is itself a subtype of
	// one returning the wider type.
	wide := b.Func([]Ref{intAny}, b.Union(okAtom, b.AtomLit("error")))
	require.True(t, IsSubtype(store, f, wide))
}

// TestFunctionDomainContravariance pins the two directions of domain
// variance: widening the domain strengthens the arrow, so any -> int is a
// subtype of int -> int but not the other way around, and widening the
// codomain weakens it, so int -> int is a subtype of int -> any.
func TestFunctionDomainContravariance(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	intAny := b.IntAny()
	intToInt := b.Func([]Ref{intAny}, intAny)
	anyToInt := b.Func([]Ref{b.Any()}, intAny)
	intToAny := b.Func([]Ref{intAny}, b.Any())

	require.True(t, IsSubtype(store, anyToInt, intToInt))
	require.False(t, IsSubtype(store, intToInt, anyToInt),
		"int -> int leaves non-integer arguments unconstrained, so it escapes any -> int")
	require.True(t, IsSubtype(store, intToInt, intToAny))
	require.False(t, IsEmpty(store, b.Diff(intToAny, intToInt)))
}

func TestRecordEmptinessOpenVsClosed(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	closedRec := b.Record(map[string]Ref{"x": b.IntAny()}, nil)
	openRec := b.Record(map[string]Ref{"x": b.IntAny()}, ref(b.Any()))

	// A closed record with exactly {x: int} is a subtype of the open
	// version (fewer values allowed).
	require.True(t, IsSubtype(store, closedRec, openRec))
	require.False(t, IsSubtype(store, openRec, closedRec))
}

func TestRecursiveListTypeDecidesEmptiness(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	list := b.List(b.IntAny())
	require.False(t, IsEmpty(store, list), "rec X. 'nil | (int, X) has inhabitants, e.g. 'nil")
	require.True(t, IsSubtype(store, b.AtomLit("nil"), list))
}

// TestRecursiveBinaryTreeEmptinessAndVariance covers the end-to-end scenario
// is_empty(rec X. int ∨ (X, X)) => false, plus
// is_subtype(rec X. (int, X), rec X. (any, X)) => true.
func TestRecursiveBinaryTreeEmptinessAndVariance(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	tree := store.FreshRecursive(func(self Ref) *Rec {
		pair := sharedBDD.Leaf(TupleAtom{Elements: []Ref{self, self}})
		r := Union(&Rec{Interval: sharedBDD.Leaf(IntervalAtom{})}, &Rec{Tuples: map[int]Node{2: pair}})
		return r.normalize()
	})
	require.False(t, IsEmpty(store, tree), "rec X. int ∨ (X, X) has inhabitants, e.g. any integer")

	narrow := store.FreshRecursive(func(self Ref) *Rec {
		pair := sharedBDD.Leaf(TupleAtom{Elements: []Ref{b.IntAny(), self}})
		return (&Rec{Tuples: map[int]Node{2: pair}}).normalize()
	})
	wide := store.FreshRecursive(func(self Ref) *Rec {
		pair := sharedBDD.Leaf(TupleAtom{Elements: []Ref{b.Any(), self}})
		return (&Rec{Tuples: map[int]Node{2: pair}}).normalize()
	})
	require.True(t, IsSubtype(store, narrow, wide), "rec X. (int, X) <= rec X. (any, X) by covariance on each component")
}

func ref(r Ref) *Ref { return &r }
