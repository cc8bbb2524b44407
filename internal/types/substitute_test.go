package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreeVariablesCollectsFlexibleAndFixed(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	alpha := b.Var("alpha", false)
	beta := b.Var("beta", true)
	tup := b.Tuple(alpha, b.Func([]Ref{beta}, b.IntAny()))

	require.ElementsMatch(t, []string{"alpha", "beta"}, FreeVariables(store, tup))
}

func TestFreeVariablesIsEmptyForGroundType(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	require.Empty(t, FreeVariables(store, b.Tuple(b.IntAny(), b.AtomLit("ok"))))
}

func TestSubstituteReplacesFlexibleVariable(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	alpha := b.Var("alpha", false)
	tup := b.Tuple(alpha, b.AtomLit("ok"))

	replaced := Substitute(store, tup, map[string]Ref{"alpha": b.IntAny()})
	want := b.Tuple(b.IntAny(), b.AtomLit("ok"))
	require.Equal(t, want, replaced)
	require.Empty(t, FreeVariables(store, replaced))
}

func TestSubstituteNeverTouchesFixedVariables(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	fixedVar := b.Var("alpha", true)
	tup := b.Tuple(fixedVar, b.AtomLit("ok"))

	replaced := Substitute(store, tup, map[string]Ref{"alpha": b.IntAny()})
	require.Equal(t, tup, replaced, "a fixed variable must never be substituted (I5)")
	require.Contains(t, FreeVariables(store, replaced), "alpha")
}

func TestSubstitutePartialLeavesUnresolvedVariablesSymbolic(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	alpha := b.Var("alpha", false)
	beta := b.Var("beta", false)
	both := b.Union(alpha, beta)

	replaced := Substitute(store, both, map[string]Ref{"alpha": b.IntAny()})
	require.Contains(t, FreeVariables(store, replaced), "beta")
}

func TestSubstituteIntoRecursiveTypePreservesSelfReference(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	alpha := b.Var("alpha", false)
	list := b.List(alpha)

	replaced := Substitute(store, list, map[string]Ref{"alpha": b.AtomLit("ok")})
	require.False(t, IsEmpty(store, replaced))
	require.True(t, IsSubtype(store, b.AtomLit("nil"), replaced))

	consOfOk := b.Tuple(b.AtomLit("ok"), replaced)
	require.True(t, IsSubtype(store, consOfOk, replaced), "substituting into a recursive type must preserve its self-reference")
}
