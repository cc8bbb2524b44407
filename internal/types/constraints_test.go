package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func constSetSet(css ...ConstraintSet) ConstraintSetSet { return ConstraintSetSet(css) }

func TestMeetDropsContradictoryBounds(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	// alpha <= int, and separately error <= alpha: merging forces
	// error <= alpha <= int, which contradicts (error is not a subtype
	// of int), so the merged bound is dropped.
	csA := ConstraintSet{"alpha": {Lower: b.Empty(), Upper: b.IntAny()}}
	csB := ConstraintSet{"alpha": {Lower: b.AtomLit("error"), Upper: b.Any()}}

	out := Meet(store,
		func() ConstraintSetSet { return constSetSet(csA) },
		func() ConstraintSetSet { return constSetSet(csB) },
	)
	require.Empty(t, out, "merging alpha<=int with error<=alpha must contradict")
}

func TestMeetMergesCompatibleBounds(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	wide := b.Union(b.AtomLit("ok"), b.AtomLit("error"))
	csA := ConstraintSet{"alpha": {Lower: b.Empty(), Upper: wide}}
	csB := ConstraintSet{"alpha": {Lower: b.AtomLit("ok"), Upper: b.Any()}}

	out := Meet(store,
		func() ConstraintSetSet { return constSetSet(csA) },
		func() ConstraintSetSet { return constSetSet(csB) },
	)
	require.Len(t, out, 1)
	merged := out[0]["alpha"]
	require.True(t, IsSubtype(store, b.AtomLit("ok"), merged.Lower))
	require.True(t, IsSubtype(store, merged.Upper, wide))
}

func TestMeetShortCircuitsOnEmptyFirstOperand(t *testing.T) {
	store := NewStore()
	called := false
	out := Meet(store,
		func() ConstraintSetSet { return nil },
		func() ConstraintSetSet { called = true; return constSetSet(ConstraintSet{}) },
	)
	require.Nil(t, out)
	require.False(t, called, "Meet must not evaluate its second thunk once the first is already empty")
}

func TestJoinIsTriviallyTrueShortCircuits(t *testing.T) {
	store := NewStore()
	called := false
	out := Join(store,
		func() ConstraintSetSet { return constSetSet(ConstraintSet{}) },
		func() ConstraintSetSet { called = true; return nil },
	)
	require.True(t, isTriviallyTrue(out))
	require.False(t, called, "Join must not evaluate its second thunk once the first is trivially true")
}

func TestJoinUnionsAndPrunesDominatedSets(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	narrow := ConstraintSet{"alpha": {Lower: b.AtomLit("ok"), Upper: b.AtomLit("ok")}}
	wide := ConstraintSet{"alpha": {Lower: b.Empty(), Upper: b.Any()}}

	out := Join(store,
		func() ConstraintSetSet { return constSetSet(narrow) },
		func() ConstraintSetSet { return constSetSet(wide) },
	)
	require.Len(t, out, 1, "narrow's solutions are a subset of wide's, so narrow is pruned")
	if diff := cmp.Diff(constSetSet(wide), out); diff != "" {
		t.Errorf("join result mismatch (-want +got):\n%s", diff)
	}
}

func TestDominatesConstraintSetRequiresVariableSubset(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	a := ConstraintSet{"alpha": {Lower: b.Empty(), Upper: b.Any()}}
	bOther := ConstraintSet{"beta": {Lower: b.Empty(), Upper: b.Any()}}
	require.False(t, dominatesConstraintSet(store, a, bOther))
}
