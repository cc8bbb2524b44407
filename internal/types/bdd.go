package types

import "sync"

// Node is a handle into a BDD's node table. The two constants below are
// reserved terminals; every other Node value indexes into BDD.table.
type Node int32

const (
	// BFalse is the empty Boolean function (no satisfying coclause).
	BFalse Node = 0
	// BTrue is the universal Boolean function (the empty coclause).
	BTrue Node = 1
)

type bddNode struct {
	atom   Atom
	lo, hi Node // lo: atom present positively; hi: atom absent/negated (§3)
}

// BDD is a parameterized Boolean decision diagram machine (§4.2). It is
// generic over the Atom carried at each node. The per-constructor DNF
// modules (dnf_*.go) all work on the one process-wide instance, sharedBDD
// (tyrec.go), which holds atoms of every kind under the global atomLess order.
//
// Node identity is canonical (I2): hash-consing guarantees that two
// semantically-constructed-the-same nodes receive the same Node handle, and
// mkNode collapses {atom, x, x} to x so that no node ever has equal
// children. Because of this, Equal between two nodes from the same BDD is
// just Node equality (P9).
//
// BDD is safe for concurrent use: the node table is append-only and its
// mutex guards individual table/memo accesses without ever being held across
// a recursive call, so reentrant queries (emptiness calls substitution which
// calls emptiness, all on one goroutine) cannot deadlock, and independent
// top-level queries on separate goroutines may share one table. Two
// goroutines racing the same apply2 at worst duplicate work; canonical node
// ids make the duplicates converge on the same result.
type BDD struct {
	mu    sync.Mutex
	table []bddNode       // table[0], table[1] are unused placeholders for BFalse/BTrue
	cons  map[string]Node // atomKey|lo|hi -> Node, for hash-consing
	apply map[string]Node // memoized binary-op results, keyed by op|x|y
	neg   map[Node]Node   // memoized negation results
}

// NewBDD creates an empty BDD machine.
func NewBDD() *BDD {
	return &BDD{
		table: make([]bddNode, 2),
		cons:  make(map[string]Node),
		apply: make(map[string]Node),
		neg:   make(map[Node]Node),
	}
}

func (b *BDD) nodeAt(n Node) bddNode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.table[n]
}

// mkNode builds (or reuses) the node {atom, lo, hi}, collapsing lo==hi per
// the canonicalization rule in §4.2.
func (b *BDD) mkNode(atom Atom, lo, hi Node) Node {
	if lo == hi {
		return lo
	}
	key := atom.Key() + "|" + nodeMemoKey(lo) + "|" + nodeMemoKey(hi)
	b.mu.Lock()
	defer b.mu.Unlock()
	if n, ok := b.cons[key]; ok {
		return n
	}
	id := Node(len(b.table))
	b.table = append(b.table, bddNode{atom: atom, lo: lo, hi: hi})
	b.cons[key] = id
	return id
}

// Leaf wraps an atom in its own single-node BDD: {atom, True, False}, i.e.
// "exactly this atom, positively".
func (b *BDD) Leaf(atom Atom) Node {
	return b.mkNode(atom, BTrue, BFalse)
}

// NLeaf is the negation of Leaf: {atom, False, True}.
func (b *BDD) NLeaf(atom Atom) Node {
	return b.mkNode(atom, BFalse, BTrue)
}

func (b *BDD) IsAny(n Node) bool          { return n == BTrue }
func (b *BDD) IsEmptyBoolean(n Node) bool { return n == BFalse }

// Union is Boolean OR.
func (b *BDD) Union(x, y Node) Node { return b.apply2("|", x, y) }

// Intersect is Boolean AND.
func (b *BDD) Intersect(x, y Node) Node { return b.apply2("&", x, y) }

// Diff is x AND NOT y.
func (b *BDD) Diff(x, y Node) Node { return b.apply2("&", x, b.Negate(y)) }

func (b *BDD) apply2(op string, x, y Node) Node {
	switch op {
	case "&":
		if x == BFalse || y == BFalse {
			return BFalse
		}
		if x == BTrue {
			return y
		}
		if y == BTrue {
			return x
		}
	case "|":
		if x == BTrue || y == BTrue {
			return BTrue
		}
		if x == BFalse {
			return y
		}
		if y == BFalse {
			return x
		}
	}
	if x == y {
		return x
	}

	key := op + nodeMemoKey(x) + "," + nodeMemoKey(y)
	b.mu.Lock()
	v, ok := b.apply[key]
	b.mu.Unlock()
	if ok {
		return v
	}

	var atom Atom
	var lo, hi Node
	switch {
	case x >= 2 && y >= 2 && b.nodeAt(x).atom.Key() == b.nodeAt(y).atom.Key():
		nx, ny := b.nodeAt(x), b.nodeAt(y)
		atom = nx.atom
		lo = b.apply2(op, nx.lo, ny.lo)
		hi = b.apply2(op, nx.hi, ny.hi)
	case y < 2 || (x >= 2 && atomLess(b.nodeAt(x).atom, b.nodeAt(y).atom)):
		nx := b.nodeAt(x)
		atom = nx.atom
		lo = b.apply2(op, nx.lo, y)
		hi = b.apply2(op, nx.hi, y)
	default:
		ny := b.nodeAt(y)
		atom = ny.atom
		lo = b.apply2(op, x, ny.lo)
		hi = b.apply2(op, x, ny.hi)
	}
	result := b.mkNode(atom, lo, hi)
	b.mu.Lock()
	b.apply[key] = result
	b.mu.Unlock()
	return result
}

func nodeMemoKey(n Node) string {
	switch n {
	case BFalse:
		return "F"
	case BTrue:
		return "T"
	default:
		return "n" + itoa(int(n))
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Negate complements every terminal reachable from x, leaving the atom
// ordering and branch assignment untouched: atom present still selects lo,
// atom absent still selects hi.
func (b *BDD) Negate(x Node) Node {
	if x == BTrue {
		return BFalse
	}
	if x == BFalse {
		return BTrue
	}
	b.mu.Lock()
	v, ok := b.neg[x]
	b.mu.Unlock()
	if ok {
		return v
	}
	nx := b.nodeAt(x)
	lo := b.Negate(nx.lo)
	hi := b.Negate(nx.hi)
	result := b.mkNode(nx.atom, lo, hi)
	b.mu.Lock()
	b.neg[x] = result
	b.mu.Unlock()
	return result
}

// Coclause is one disjunct of the DNF view of a BDD: a conjunction of
// positively-occurring atoms, negatively-occurring atoms, and an implicit
// boolean terminal (always BTrue for coclauses reachable in the walk, since
// BFalse branches are pruned).
type Coclause struct {
	Pos, Neg []Atom
}

// Dnf flattens the BDD into its DNF view and folds coclauseFn over each
// coclause using combine, short-circuiting whenever the running result
// equals shortCircuitOn (the absorbing element supplied by the caller:
// typically AND for emptiness, where shortCircuitOn=false means "a
// non-empty witness coclause was already found, stop looking").
//
// combine must be associative; Dnf evaluates left-to-right.
func Dnf(b *BDD, root Node, coclauseFn func(Coclause) bool, combine func(acc, next bool) bool, init bool, shortCircuitOn bool) bool {
	return dnfWalk(b, root, nil, nil, coclauseFn, combine, init, shortCircuitOn)
}

func dnfWalk(b *BDD, n Node, pos, neg []Atom, coclauseFn func(Coclause) bool, combine func(acc, next bool) bool, acc bool, shortCircuitOn bool) bool {
	if acc == shortCircuitOn {
		return acc
	}
	if n == BFalse {
		return acc
	}
	if n == BTrue {
		return combine(acc, coclauseFn(Coclause{Pos: pos, Neg: neg}))
	}
	nd := b.nodeAt(n)
	newPos := append(append([]Atom{}, pos...), nd.atom)
	acc = dnfWalk(b, nd.lo, newPos, neg, coclauseFn, combine, acc, shortCircuitOn)
	if acc == shortCircuitOn {
		return acc
	}
	newNeg := append(append([]Atom{}, neg...), nd.atom)
	acc = dnfWalk(b, nd.hi, pos, newNeg, coclauseFn, combine, acc, shortCircuitOn)
	return acc
}

// AllAtoms collects every distinct atom reachable from root.
func AllAtoms(b *BDD, root Node) []Atom {
	seen := map[Node]bool{}
	var out []Atom
	var walk func(Node)
	walk = func(n Node) {
		if n == BTrue || n == BFalse || seen[n] {
			return
		}
		seen[n] = true
		nd := b.nodeAt(n)
		out = append(out, nd.atom)
		walk(nd.lo)
		walk(nd.hi)
	}
	walk(root)
	return out
}
