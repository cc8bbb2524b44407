package types

// emptyResult is the memoized verdict for one ref within one Engine's
// lifetime.
type emptyResult int

const (
	resultUnknown emptyResult = iota
	resultEmpty
	resultNonEmpty
)

// Engine runs the coinductive emptiness decision procedure (§4.5) over one
// Store. Its memo table is scoped to the engine instance, never shared
// across independent top-level queries, which is what the "per-query memo
// table" requirement in the concurrency model (§5) actually buys: two
// concurrent top-level IsEmpty calls against the same Store get their own
// Engine and therefore never race on pending/memo state, even though they
// share the same interned Refs and BDDs.
type Engine struct {
	store   *Store
	memo    map[Ref]emptyResult
	pending map[Ref]bool
	budget  *Budget
}

// NewEngine creates a fresh emptiness engine over store, with no budget
// (queries run to completion however long that takes).
func NewEngine(store *Store) *Engine {
	return &Engine{
		store:   store,
		memo:    make(map[Ref]emptyResult),
		pending: make(map[Ref]bool),
	}
}

// NewBoundedEngine creates a fresh emptiness engine whose recursion is
// capped by budget (§7's "Undecidable/timeout" failure mode). Once budget is
// spent, Undecidable reports true and further isEmpty calls conservatively
// answer "not empty" without being memoized as a real verdict.
func NewBoundedEngine(store *Store, budget *Budget) *Engine {
	e := NewEngine(store)
	e.budget = budget
	return e
}

// Undecidable reports whether this engine's budget ran out before its last
// query finished.
func (e *Engine) Undecidable() bool { return e.budget.Exhausted() }

// IsEmpty reports whether ref denotes the empty type, running a fresh
// engine (and therefore a fresh memo table) for the query.
func IsEmpty(store *Store, ref Ref) bool {
	return NewEngine(store).isEmpty(ref)
}

// IsSubtype reports whether a <= b, i.e. a \ b is empty.
func IsSubtype(store *Store, a, b Ref) bool {
	return NewEngine(store).isSubtype(a, b)
}

func (e *Engine) isSubtype(a, b Ref) bool {
	d := e.store.Intern(Diff(e.store.Resolve(a), e.store.Resolve(b)))
	return e.isEmpty(d)
}

// isEmpty is the coinductive fixpoint: a ref already on the pending stack is
// assumed empty (the greatest fixpoint assumption that makes recursive
// types like "rec X. (int, X)" decidable at all), and every other ref is
// computed once and cached for the remainder of this engine's life.
func (e *Engine) isEmpty(ref Ref) bool {
	if r, ok := e.memo[ref]; ok {
		return r == resultEmpty
	}
	if e.pending[ref] {
		return true
	}
	if !e.budget.tick() {
		// Conservative answer per §7: treat as "not empty" rather than
		// assert a verdict the engine never actually reached.
		return false
	}

	e.pending[ref] = true
	result := e.computeEmpty(ref)
	delete(e.pending, ref)

	if result {
		e.memo[ref] = resultEmpty
	} else {
		e.memo[ref] = resultNonEmpty
	}
	return result
}

// computeEmpty decides emptiness of the record as a whole: since the
// constructors partition the universe of values, the type is empty iff
// every constructor's component is empty (§4.4).
func (e *Engine) computeEmpty(ref Ref) bool {
	r := e.store.Resolve(ref)

	if !e.funcPartEmpty(r) {
		return false
	}
	if !e.tuplePartEmpty(r) {
		return false
	}
	if !recordDnfEmpty(e, r.Record) {
		return false
	}
	if !atomDnfEmpty(r.AtomSet) {
		return false
	}
	if !intervalDnfEmpty(r.Interval) {
		return false
	}
	if !bitstringDnfEmpty(r.Bitstring) {
		return false
	}
	if !mapDnfEmpty(e, r.MapT) {
		return false
	}
	return true
}

func (e *Engine) funcPartEmpty(r *Rec) bool {
	if !varOnlyDnfEmpty(r.FuncDefault) {
		return false
	}
	for _, node := range r.Functions {
		if !funcDnfEmpty(e, node) {
			return false
		}
	}
	return true
}

func (e *Engine) tuplePartEmpty(r *Rec) bool {
	if !varOnlyDnfEmpty(r.TupleDefault) {
		return false
	}
	for arity, node := range r.Tuples {
		if !tupleDnfEmpty(e, node, arity) {
			return false
		}
	}
	return true
}
