package types

import (
	"fmt"

	engerrors "github.com/sunholo/ailang/internal/errors"
)

// ValidateInterval checks an interval atom's bounds before it reaches
// Builder.IntRange, catching the one malformed shape the type itself cannot
// represent structurally: a non-empty-looking range whose low bound exceeds
// its high bound. Returns a structural Report wrapped as an error (§7).
func ValidateInterval(lo, hi int64, hasLo, hasHi bool) error {
	if hasLo && hasHi && lo > hi {
		return engerrors.WrapReport(engerrors.NewStructural(
			engerrors.KindMalformedInterval,
			fmt.Sprintf("interval lower bound %d exceeds upper bound %d", lo, hi),
			map[string]any{"lo": lo, "hi": hi},
		).WithFix("swap the lo and hi bounds", 0.9))
	}
	return nil
}

// ValidateBits checks that every entry of a bitstring pattern is one of the
// three ternary values this engine understands: 0, 1, or -1 ("don't care").
func ValidateBits(pattern []int8) error {
	for i, v := range pattern {
		if v != 0 && v != 1 && v != -1 {
			return engerrors.WrapReport(engerrors.NewStructural(
				engerrors.KindMalformedBitstring,
				fmt.Sprintf("bit %d has value %d, want -1, 0, or 1", i, v),
				map[string]any{"index": i, "value": v},
			))
		}
	}
	return nil
}

// ValidateTupleArity checks that a constructor expression was fed the
// number of components it expects, catching the "mismatched arities fed to
// a tuple constructor" failure named in §7 at the scenario boundary before
// a malformed atom can reach a BDD.
func ValidateTupleArity(constructor string, want, got int) error {
	if want != got {
		return engerrors.WrapReport(engerrors.ArityMismatch(constructor, want, got))
	}
	return nil
}
