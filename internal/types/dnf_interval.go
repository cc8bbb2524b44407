package types

// intervalEmptyCoclause decides emptiness of a single interval-DNF
// coclause. The positive intervals are intersected down to one region
// (possibly already empty), then each negative interval is subtracted from
// the surviving pieces. Subtracting a single interval from another can
// split it into a left remainder and a right remainder, so the surviving
// region is carried as a slice of disjoint intervals rather than one.
func intervalEmptyCoclause(pos, neg []IntervalAtom) bool {
	cur := []IntervalAtom{{}} // {} is the unbounded interval (-inf, +inf)
	for _, p := range pos {
		var next []IntervalAtom
		for _, c := range cur {
			if inter, ok := c.intersect(p); ok {
				next = append(next, inter)
			}
		}
		cur = next
		if len(cur) == 0 {
			return true
		}
	}
	for _, n := range neg {
		var next []IntervalAtom
		for _, c := range cur {
			next = append(next, subtractInterval(c, n)...)
		}
		cur = next
		if len(cur) == 0 {
			return true
		}
	}
	return len(cur) == 0
}

// subtractInterval computes c \ n as zero, one, or two disjoint intervals.
func subtractInterval(c, n IntervalAtom) []IntervalAtom {
	overlap, ok := c.intersect(n)
	if !ok {
		return []IntervalAtom{c}
	}

	var out []IntervalAtom

	if overlap.HasLo {
		leftHi := overlap.Lo - 1
		switch {
		case !c.HasLo:
			out = append(out, IntervalAtom{HasHi: true, Hi: leftHi})
		case leftHi >= c.Lo:
			out = append(out, IntervalAtom{HasLo: true, Lo: c.Lo, HasHi: true, Hi: leftHi})
		}
	}

	if overlap.HasHi {
		rightLo := overlap.Hi + 1
		switch {
		case !c.HasHi:
			out = append(out, IntervalAtom{HasLo: true, Lo: rightLo})
		case rightLo <= c.Hi:
			out = append(out, IntervalAtom{HasLo: true, Lo: rightLo, HasHi: true, Hi: c.Hi})
		}
	}

	return out
}

func intervalDnfEmpty(root Node) bool {
	return Dnf(sharedBDD, root, func(c Coclause) bool {
		vp, vn, cp, cn := splitVarAtoms(c)
		if varContradiction(vp, vn) {
			return true
		}
		return intervalEmptyCoclause(castIntervals(cp), castIntervals(cn))
	}, func(acc, next bool) bool { return acc && next }, true, false)
}

func castIntervals(atoms []Atom) []IntervalAtom {
	out := make([]IntervalAtom, len(atoms))
	for i, a := range atoms {
		out[i] = a.(IntervalAtom)
	}
	return out
}
