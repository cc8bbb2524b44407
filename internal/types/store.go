// Package types implements the set-theoretic type engine: an interned,
// per-constructor BDD representation of types and the decision procedures
// (emptiness, subtyping, tallying) that the rest of a type checker builds on.
package types

import (
	"sync"

	engerrors "github.com/sunholo/ailang/internal/errors"
)

// Ref is an opaque handle identifying a canonical type record. Two refs
// returned by Intern are equal iff they denote structurally equal type
// records (I1). Refs allocated by FreshRecursive are not deduplicated, so two
// separately built recursive types get distinct refs even when structurally
// equal.
type Ref int

// Nil is never a valid ref; it is used as a zero value sentinel.
const Nil Ref = -1

// Store is the process-wide intern table mapping refs to recursive type
// records. It hash-conses interned records so that structurally equal ones
// share the same ref, and it supports building self-referential records for
// recursive types (rec X. ...), which are not hash-consed (see
// FreshRecursive).
//
// Store is safe for concurrent use: interning is serialized with a mutex,
// while Resolve on an already-published ref is lock-free-ish (it still takes
// a read lock, since the underlying slice can grow).
type Store struct {
	mu      sync.RWMutex
	records []*Rec
	index   map[string]Ref // canonical structural key -> ref
}

// NewStore creates an empty type reference store.
func NewStore() *Store {
	return &Store{
		records: make([]*Rec, 0, 64),
		index:   make(map[string]Ref, 64),
	}
}

// Resolve returns the type record for ref. It panics with a dangling-ref
// structural report on an out-of-range ref, since that indicates a bug in
// the caller (refs are never fabricated by users of this package, only
// returned by Store/Builder operations).
func (s *Store) Resolve(ref Ref) *Rec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(ref) < 0 || int(ref) >= len(s.records) {
		panic(engerrors.WrapReport(engerrors.DanglingRef(int(ref))))
	}
	return s.records[ref]
}

// Intern returns an existing ref if a structurally equal record is already
// stored, else allocates and publishes a fresh one.
func (s *Store) Intern(r *Rec) Ref {
	key := r.canonicalKey()

	s.mu.Lock()
	defer s.mu.Unlock()
	if ref, ok := s.index[key]; ok {
		return ref
	}
	ref := Ref(len(s.records))
	s.records = append(s.records, r)
	s.index[key] = ref
	return ref
}

// FreshRecursive allocates a ref up front and invokes mk(id) to build a
// record that may refer to id (directly or through other freshly interned
// types), then stores the result under that id. This is the only way to
// build self- or mutually-recursive type records: the id exists before the
// record's contents are known.
//
// Unlike Intern, the resulting ref is not hash-consed against the index,
// since recursive records are rarely structurally identical to anything
// already published and attempting to dedupe them would require comparing
// under an equivalence relation the store does not implement.
func (s *Store) FreshRecursive(mk func(id Ref) *Rec) Ref {
	s.mu.Lock()
	id := Ref(len(s.records))
	s.records = append(s.records, nil) // reserve the slot
	s.mu.Unlock()

	rec := mk(id)

	s.mu.Lock()
	s.records[id] = rec
	s.mu.Unlock()
	return id
}

// defaultStore is the package-level store a Builder binds to when it is
// given no store (NewBuilder(nil), Make(nil)). Hosting a single process-wide store matches
// the data model's lifetime guarantee (I1, "lifetime is process-wide") while
// still allowing tests to build private stores via NewStore for isolation.
var defaultStore = NewStore()

// DefaultStore returns the shared, process-wide store that NewBuilder (and
// so Make) uses when passed a nil store. Functions that take a *Store
// argument, such as IsEmpty, never fall back to it.
func DefaultStore() *Store { return defaultStore }
