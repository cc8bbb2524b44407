package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleScenarioYAML = `
types:
  intType:
    kind: int
  okAtom:
    kind: atom
    symbol: ok
  errAtom:
    kind: atom
    symbol: error
  resultPair:
    kind: union
    args:
      - {ref: okAtom}
      - {ref: errAtom}
  handler:
    kind: func
    args:
      - {ref: intType}
    result: {ref: resultPair}
  okAndErr:
    kind: intersect
    args:
      - {ref: okAtom}
      - {ref: errAtom}
checks:
  - name: ok-subtype-of-result
    op: is_subtype
    with: [okAtom, resultPair]
  - name: ok-and-err-disjoint
    op: is_empty
    with: [okAndErr]
`

func TestScenarioUnmarshalAndBuild(t *testing.T) {
	var sc Scenario
	require.NoError(t, yaml.Unmarshal([]byte(sampleScenarioYAML), &sc))
	require.Len(t, sc.Types, 6)
	require.Len(t, sc.Checks, 2)

	store := NewStore()
	b := NewBuilder(store)
	env, err := sc.Build(b)
	require.NoError(t, err)

	require.True(t, IsSubtype(store, env["okAtom"], env["resultPair"]))
	require.False(t, IsEmpty(store, env["okAtom"]))
}

func TestScenarioBuildDetectsUndefinedReference(t *testing.T) {
	sc := Scenario{
		Types: map[string]TypeExpr{
			"a": {Kind: "negate", Result: &TypeExpr{Ref: "missing"}},
		},
	}
	_, err := sc.Build(NewBuilder(NewStore()))
	require.Error(t, err)
}

func TestScenarioBuildDetectsCycle(t *testing.T) {
	sc := Scenario{
		Types: map[string]TypeExpr{
			"a": {Kind: "negate", Result: &TypeExpr{Ref: "b"}},
			"b": {Kind: "negate", Result: &TypeExpr{Ref: "a"}},
		},
	}
	_, err := sc.Build(NewBuilder(NewStore()))
	require.Error(t, err)
}

func TestScenarioBuildRejectsMalformedInterval(t *testing.T) {
	sc := Scenario{
		Types: map[string]TypeExpr{
			"bad": {Kind: "int", Lo: 10, Hi: 1, HasLo: true, HasHi: true},
		},
	}
	_, err := sc.Build(NewBuilder(NewStore()))
	require.Error(t, err)
}
