package types

// bitMask tracks, for one bit position, which concrete values ({0}, {1}, or
// both) are still reachable. A bitstring pattern is just a fixed-width
// tuple of such positions, so its emptiness follows the exact same
// box-splitting argument as tupleExplore in dnf_tuple.go: subtracting one
// negative pattern from a product of per-position domains decomposes into
// the union of boxes obtained by shrinking exactly one position.
type bitMask int8

const (
	maskNone bitMask = 0
	maskZero bitMask = 1
	maskOne  bitMask = 2
	maskBoth bitMask = 3
)

func bitValMask(v int8) bitMask {
	switch v {
	case 0:
		return maskZero
	case 1:
		return maskOne
	default:
		return maskBoth
	}
}

// bitEmptyCoclause decides emptiness of a single bitstring-DNF coclause.
func bitEmptyCoclause(pos, neg []BitAtom) bool {
	// Patterns of different widths are disjoint, like tuples of different
	// arity. With no positive pattern, bitstrings of other widths than the
	// negatives' remain, so the coclause is never empty.
	width := 0
	switch {
	case len(pos) > 0:
		width = len(pos[0].Bits)
	default:
		return false
	}

	comps := make([]bitMask, width)
	for i := range comps {
		comps[i] = maskBoth
	}
	for _, p := range pos {
		if len(p.Bits) != width {
			return true
		}
		for i, v := range p.Bits {
			comps[i] &= bitValMask(v)
		}
	}
	for _, c := range comps {
		if c == maskNone {
			return true
		}
	}
	var sameWidth []BitAtom
	for _, n := range neg {
		if len(n.Bits) == width {
			sameWidth = append(sameWidth, n)
		}
	}
	return bitExplore(comps, sameWidth)
}

func bitExplore(comps []bitMask, neg []BitAtom) bool {
	if len(neg) == 0 {
		for _, c := range comps {
			if c == maskNone {
				return true
			}
		}
		return false
	}

	head, rest := neg[0], neg[1:]
	for i := range comps {
		split := append([]bitMask{}, comps...)
		split[i] = comps[i] &^ bitValMask(head.Bits[i])
		if !bitExplore(split, rest) {
			return false
		}
	}
	return true
}

func bitstringDnfEmpty(root Node) bool {
	return Dnf(sharedBDD, root, func(c Coclause) bool {
		vp, vn, cp, cn := splitVarAtoms(c)
		if varContradiction(vp, vn) {
			return true
		}
		return bitEmptyCoclause(castBits(cp), castBits(cn))
	}, func(acc, next bool) bool { return acc && next }, true, false)
}

func castBits(atoms []Atom) []BitAtom {
	out := make([]BitAtom, len(atoms))
	for i, a := range atoms {
		out[i] = a.(BitAtom)
	}
	return out
}
