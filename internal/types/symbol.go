package types

import "golang.org/x/text/unicode/norm"

// canonicalizeSymbol normalizes an atom symbol to NFC so that two source
// atoms written with different Unicode decompositions (e.g. a precomposed
// accented letter vs. a combining-mark sequence) intern to the same AtomLit.
// Atom identity is structural (I1), so this normalization has to happen
// before the symbol ever reaches sharedBDD.Leaf.
func canonicalizeSymbol(s string) string {
	return norm.NFC.String(s)
}
