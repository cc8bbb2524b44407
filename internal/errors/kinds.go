// Package errors classifies everything that can go wrong while building,
// querying, or normalizing a type, per the engine's three-failure-mode
// design: a structural error is fatal and unrecoverable, an
// undecidable/timeout result is a distinct caller-recoverable variant, and a
// tally returning no solution (an empty constraint-set-set) is simply a
// normal result, not an error.
package errors

// Kind tags a Structural error with a precise, stable label a caller can
// switch on without parsing Message.
type Kind string

const (
	// KindArity: a constructor was fed the wrong number of components, e.g.
	// a tuple pattern with 3 negative elements against a 2-ary positive one.
	KindArity Kind = "arity-mismatch"
	// KindUnknownConstructor: an atom carries a constructor tag the engine
	// doesn't recognize (e.g. fed in from a malformed external encoding).
	KindUnknownConstructor Kind = "unknown-constructor"
	// KindDanglingRef: a Ref was resolved against a Store that never
	// interned it.
	KindDanglingRef Kind = "dangling-ref"
	// KindMalformedInterval: an interval atom's Lo/Hi bounds are
	// inconsistent (HasLo && HasHi && Lo > Hi).
	KindMalformedInterval Kind = "malformed-interval"
	// KindMalformedBitstring: a bitstring atom carries a byte outside
	// {-1, 0, 1}.
	KindMalformedBitstring Kind = "malformed-bitstring"
)
