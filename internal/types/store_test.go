package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreInternHashConses(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	a1 := b.AtomLit("ok")
	a2 := b.AtomLit("ok")
	require.Equal(t, a1, a2, "interning the same structural type twice must return the same ref (I1)")

	tuple1 := b.Tuple(a1, b.IntAny())
	tuple2 := b.Tuple(a2, b.IntAny())
	require.Equal(t, tuple1, tuple2)

	distinct := b.AtomLit("error")
	require.NotEqual(t, a1, distinct)
}

func TestStoreResolvePanicsOnInvalidRef(t *testing.T) {
	store := NewStore()
	require.Panics(t, func() { store.Resolve(Ref(99)) })
}

func TestStoreFreshRecursiveSelfReference(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	self := store.FreshRecursive(func(id Ref) *Rec {
		nilAtom := sharedBDD.Leaf(AtomLit{Symbol: "nil"})
		cons := sharedBDD.Leaf(TupleAtom{Elements: []Ref{b.IntAny(), id}})
		r := Union(&Rec{AtomSet: nilAtom}, &Rec{Tuples: map[int]Node{2: cons}})
		return r.normalize()
	})

	require.False(t, IsEmpty(store, self))
	require.True(t, IsSubtype(store, b.AtomLit("nil"), self))
}

func TestStoreIsConcurrencySafeForIndependentInterns(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	done := make(chan Ref, 50)
	for i := 0; i < 50; i++ {
		go func(n int) {
			done <- b.IntRange(int64(n), int64(n+1))
		}(i)
	}
	seen := map[Ref]bool{}
	for i := 0; i < 50; i++ {
		seen[<-done] = true
	}
	require.Len(t, seen, 50, "50 distinct interval literals should intern to 50 distinct refs")
}
