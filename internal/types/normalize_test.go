package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTallyContradictionOnFixedAtom covers the end-to-end scenario
// tally([alpha <= int, atom <= alpha]) => {} : combining alpha's upper
// bound (int) with its lower bound (atom) contradicts, since atom is not a
// subtype of int.
func TestTallyContradictionOnFixedAtom(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	alpha := b.Var("alpha", false)
	intAny := b.IntAny()
	atomLit := b.AtomLit("atom")

	out := Tally(store, [][2]Ref{
		{alpha, intAny},
		{atomLit, alpha},
	}, nil)
	require.Empty(t, out)
}

// TestTallySingleUpperBound covers tally([alpha <= (int ∨ atom)]) =>
// {{alpha <= int ∨ atom}}: exactly one solution, bounding alpha above by
// int∨atom with no lower bound.
func TestTallySingleUpperBound(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	alpha := b.Var("alpha", false)
	bound := b.Union(b.IntAny(), b.AtomLit("atom"))

	out := Tally(store, [][2]Ref{{alpha, bound}}, nil)
	require.Len(t, out, 1)

	c, ok := out[0]["alpha"]
	require.True(t, ok)
	require.True(t, IsEmpty(store, c.Lower), "no lower bound was given")
	require.True(t, IsSubtype(store, c.Upper, bound))
	require.True(t, IsSubtype(store, bound, c.Upper))
}

func TestTallyFixedVariableNeverSolved(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	fixedVar := b.Var("alpha", true)
	intAny := b.IntAny()

	out := Tally(store, [][2]Ref{{fixedVar, intAny}}, map[string]bool{"alpha": true})
	for _, cs := range out {
		_, solved := cs["alpha"]
		require.False(t, solved, "tally must never bind a fixed variable (I5)")
	}
}

func TestNormalizeOfEmptyTypeIsTriviallyTrue(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	out := Normalize(store, b.Empty(), nil)
	require.True(t, isTriviallyTrue(out))
}

func TestNormalizeOfNonEmptyGroundTypeHasNoSolution(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	out := Normalize(store, b.AtomLit("ok"), nil)
	require.Empty(t, out, "a non-empty ground type can never be made empty by any substitution")
}

// TestTallyFunctionArgument exercises contravariance through tally: the
// domain of a function constraint flips the direction bounds propagate in.
func TestTallyFunctionArgument(t *testing.T) {
	store := NewStore()
	b := NewBuilder(store)

	alpha := b.Var("alpha", false)
	okAtom := b.AtomLit("ok")
	lhs := b.Func([]Ref{alpha}, okAtom)
	rhs := b.Func([]Ref{b.IntRange(1, 10)}, okAtom)

	out := Tally(store, [][2]Ref{{lhs, rhs}}, nil)
	require.NotEmpty(t, out, "alpha -> ok <= int[1,10] -> ok has a solution bounding alpha below by [1,10]")
	for _, cs := range out {
		c, ok := cs["alpha"]
		require.True(t, ok)
		require.True(t, IsSubtype(store, b.IntRange(1, 10), c.Lower))
	}
}
