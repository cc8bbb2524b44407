package types

import "testing"

func TestBDDUnionIntersectDiff(t *testing.T) {
	b := NewBDD()
	ok := AtomLit{Symbol: "ok"}
	err := AtomLit{Symbol: "error"}

	okNode := b.Leaf(ok)
	errNode := b.Leaf(err)

	union := b.Union(okNode, errNode)
	if b.IsEmptyBoolean(union) {
		t.Fatalf("union of two distinct atoms should not be the empty Boolean function")
	}

	inter := b.Intersect(okNode, errNode)
	// At the BDD level two distinct atom leaves are independent Boolean
	// variables, so their naive intersection is not actually empty -- atom
	// emptiness (whether positive 'ok and positive 'error contradict) is
	// decided in dnf_atom.go, not here.
	if inter == BFalse {
		t.Fatalf("unexpected BFalse; atom exclusivity is a DNF-level concern, not a BDD-level one")
	}

	diff := b.Diff(okNode, okNode)
	if diff != BFalse {
		t.Errorf("x diff x should be BFalse, got %v", diff)
	}
}

func TestBDDNegateInvolution(t *testing.T) {
	b := NewBDD()
	ok := b.Leaf(AtomLit{Symbol: "ok"})
	errN := b.Leaf(AtomLit{Symbol: "error"})
	combo := b.Union(ok, errN)

	neg := b.Negate(combo)
	negNeg := b.Negate(neg)
	if negNeg != combo {
		t.Errorf("negating twice should be identity: got %v, want %v", negNeg, combo)
	}
}

func TestMkNodeCollapsesEqualChildren(t *testing.T) {
	b := NewBDD()
	ok := AtomLit{Symbol: "ok"}
	n := b.mkNode(ok, BTrue, BTrue)
	if n != BTrue {
		t.Errorf("mkNode with lo==hi should collapse to that child, got %v", n)
	}
}

func TestDnfFlattensCoclauses(t *testing.T) {
	b := NewBDD()
	ok := b.Leaf(AtomLit{Symbol: "ok"})
	errN := b.NLeaf(AtomLit{Symbol: "error"})
	root := b.Intersect(ok, errN)

	var coclauses []Coclause
	Dnf(b, root, func(c Coclause) bool {
		coclauses = append(coclauses, c)
		return true
	}, func(acc, next bool) bool { return acc && next }, true, false)

	if len(coclauses) != 1 {
		t.Fatalf("expected exactly one coclause, got %d", len(coclauses))
	}
	c := coclauses[0]
	if len(c.Pos) != 1 || c.Pos[0].(AtomLit).Symbol != "ok" {
		t.Errorf("expected single positive 'ok, got %+v", c.Pos)
	}
	if len(c.Neg) != 1 || c.Neg[0].(AtomLit).Symbol != "error" {
		t.Errorf("expected single negative 'error, got %+v", c.Neg)
	}
}
