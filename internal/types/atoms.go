package types

import (
	"fmt"
	"sort"
	"strings"
)

// Atom is the per-constructor payload carried by a BDD node. Each constructor
// (function, tuple, record, atom, interval, bitstring, map, variable) has its
// own concrete atom type; all of them must be totally ordered (via atomLess)
// and hash-consable (via Key) so that the BDD in bdd.go can canonicalize
// nodes regardless of what they carry (§4.2).
type Atom interface {
	Key() string
	kind() atomKind
}

// atomKind ranks atom types in the global BDD order. Variables come first so
// that within any constructor slot the variable layer sits above the
// constructor atoms on every root-to-leaf path, which is what lets one slot
// BDD carry a variable-DNF with constructor atoms underneath.
type atomKind int

const (
	kindVar atomKind = iota
	kindFunc
	kindTuple
	kindRecord
	kindAtomLit
	kindInterval
	kindBit
	kindMap
)

// atomLess is the total order all BDD nodes are canonicalized under (I2):
// kind rank first, canonical key within a kind.
func atomLess(a, b Atom) bool {
	ka, kb := a.kind(), b.kind()
	if ka != kb {
		return ka < kb
	}
	return a.Key() < b.Key()
}

// FuncAtom is the DNF atom for function types: (D1,...,Dn) -> C. Arity is
// part of the atom's identity, so functions of different arity are never
// compared against each other inside one BDD (they live in different
// per-arity DNFs, keyed in Rec.Functions).
type FuncAtom struct {
	Domains  []Ref
	Codomain Ref
}

func (a FuncAtom) Key() string {
	var b strings.Builder
	b.WriteString("fn(")
	for i, d := range a.Domains {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", d)
	}
	b.WriteString(")->")
	fmt.Fprintf(&b, "%d", a.Codomain)
	return b.String()
}

func (FuncAtom) kind() atomKind { return kindFunc }

// TupleAtom is the DNF atom for tuple types (T1,...,Tn), partitioned by arity
// the same way FuncAtom is.
type TupleAtom struct {
	Elements []Ref
}

func (a TupleAtom) Key() string {
	var b strings.Builder
	b.WriteString("tup(")
	for i, e := range a.Elements {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", e)
	}
	b.WriteByte(')')
	return b.String()
}

func (TupleAtom) kind() atomKind { return kindTuple }

// RecordAtom is the DNF atom for record types: a finite set of named fields
// plus an optional row (nil Row means the record is closed, i.e. has exactly
// these fields).
type RecordAtom struct {
	Fields map[string]Ref
	Row    *Ref
}

func (a RecordAtom) sortedNames() []string {
	names := make([]string, 0, len(a.Fields))
	for n := range a.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a RecordAtom) Key() string {
	var b strings.Builder
	b.WriteString("rec{")
	for i, n := range a.sortedNames() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s:%d", n, a.Fields[n])
	}
	b.WriteByte('}')
	if a.Row != nil {
		fmt.Fprintf(&b, "|%d", *a.Row)
	} else {
		b.WriteString("|closed")
	}
	return b.String()
}

func (RecordAtom) kind() atomKind { return kindRecord }

// AtomLit is the DNF atom for the atom (symbol) constructor: a single
// interned symbol such as 'ok or 'error. Unions/negations of these literals,
// combined by the generic BDD, represent arbitrary finite/cofinite sets of
// symbols (§3, "atom-DNF").
type AtomLit struct {
	Symbol string
}

func (a AtomLit) Key() string  { return "atom:" + a.Symbol }
func (AtomLit) kind() atomKind { return kindAtomLit }

// IntervalAtom is the DNF atom for the interval constructor: a single closed
// or half-open integer interval. Lo/Hi use hasLo/hasHi to represent
// unbounded ends (-inf / +inf).
type IntervalAtom struct {
	Lo, Hi       int64
	HasLo, HasHi bool
}

func (a IntervalAtom) Key() string {
	lo, hi := "-inf", "+inf"
	if a.HasLo {
		lo = fmt.Sprintf("%d", a.Lo)
	}
	if a.HasHi {
		hi = fmt.Sprintf("%d", a.Hi)
	}
	return fmt.Sprintf("iv[%s,%s]", lo, hi)
}

func (IntervalAtom) kind() atomKind { return kindInterval }

// contains reports whether n lies within the interval.
func (a IntervalAtom) contains(n int64) bool {
	if a.HasLo && n < a.Lo {
		return false
	}
	if a.HasHi && n > a.Hi {
		return false
	}
	return true
}

// intersect computes the (possibly empty) intersection of two intervals.
func (a IntervalAtom) intersect(o IntervalAtom) (IntervalAtom, bool) {
	r := IntervalAtom{}
	r.HasLo, r.Lo = pickGreaterLo(a, o)
	r.HasHi, r.Hi = pickLesserHi(a, o)
	if r.HasLo && r.HasHi && r.Lo > r.Hi {
		return IntervalAtom{}, false
	}
	return r, true
}

func pickGreaterLo(a, o IntervalAtom) (bool, int64) {
	switch {
	case a.HasLo && o.HasLo:
		if a.Lo > o.Lo {
			return true, a.Lo
		}
		return true, o.Lo
	case a.HasLo:
		return true, a.Lo
	case o.HasLo:
		return true, o.Lo
	default:
		return false, 0
	}
}

func pickLesserHi(a, o IntervalAtom) (bool, int64) {
	switch {
	case a.HasHi && o.HasHi:
		if a.Hi < o.Hi {
			return true, a.Hi
		}
		return true, o.Hi
	case a.HasHi:
		return true, a.Hi
	case o.HasHi:
		return true, o.Hi
	default:
		return false, 0
	}
}

// BitAtom is the DNF atom for the bitstring constructor: a fixed-width
// ternary pattern where each component is 0, 1, or "don't care".
type BitAtom struct {
	Bits []int8 // 0, 1, or -1 for don't-care
}

func (a BitAtom) Key() string {
	var b strings.Builder
	b.WriteString("bits[")
	for _, bit := range a.Bits {
		switch bit {
		case -1:
			b.WriteByte('_')
		case 0:
			b.WriteByte('0')
		default:
			b.WriteByte('1')
		}
	}
	b.WriteByte(']')
	return b.String()
}

func (BitAtom) kind() atomKind { return kindBit }

// compatible reports whether two bit patterns of equal width agree on every
// concrete (non-don't-care) position, and if so returns their meet (the
// pattern that is concrete wherever either operand is concrete).
func (a BitAtom) compatible(o BitAtom) (BitAtom, bool) {
	if len(a.Bits) != len(o.Bits) {
		return BitAtom{}, false
	}
	out := make([]int8, len(a.Bits))
	for i := range a.Bits {
		switch {
		case a.Bits[i] == -1:
			out[i] = o.Bits[i]
		case o.Bits[i] == -1:
			out[i] = a.Bits[i]
		case a.Bits[i] != o.Bits[i]:
			return BitAtom{}, false
		default:
			out[i] = a.Bits[i]
		}
	}
	return BitAtom{Bits: out}, true
}

// covers reports whether o's set of concrete strings is a subset of a's.
func (a BitAtom) covers(o BitAtom) bool {
	if len(a.Bits) != len(o.Bits) {
		return false
	}
	for i := range a.Bits {
		if a.Bits[i] != -1 && a.Bits[i] != o.Bits[i] {
			return false
		}
	}
	return true
}

// MapAtom is the DNF atom for the map constructor. A single atom denotes
// "every key in KeyDomain maps to a value in ValueRange"; its emptiness
// follows the same componentwise shape as a 2-element tuple (KeyDomain,
// ValueRange), which is why mapCoclauseEmpty in dnf_map.go simply delegates
// to the tuple emptiness walk.
type MapAtom struct {
	KeyDomain  Ref
	ValueRange Ref
}

func (a MapAtom) Key() string {
	return fmt.Sprintf("map(%d->%d)", a.KeyDomain, a.ValueRange)
}

func (MapAtom) kind() atomKind { return kindMap }

// VarAtom is the DNF atom for the variable constructor: a single type
// variable, flexible or fixed (I5).
type VarAtom struct {
	Name  string
	Fixed bool
}

func (a VarAtom) Key() string {
	if a.Fixed {
		return "fixvar:" + a.Name
	}
	return "var:" + a.Name
}

func (VarAtom) kind() atomKind { return kindVar }
