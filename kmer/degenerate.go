package kmer

import "github.com/coreseq/coreseq/codec"

// expansionLimit is the fixed combinatorial budget a degenerate window's
// Cartesian product of concrete bases must not exceed (spec.md §4.2: "10
// in the reference").
const expansionLimit = 10

// degenerateClass buckets an IUPAC ambiguity code by how many concrete
// bases it can stand for, matching the three classes spec.md §4.2's
// short-circuit rule names.
type degenerateClass int

const (
	classNone degenerateClass = iota
	classN           // 4-way: N
	classVHDB        // 3-way: V, H, D, B
	classMRWSYK      // 2-way: M, R, W, S, Y, K
)

func classify(c byte) degenerateClass {
	switch c {
	case 'N':
		return classN
	case 'V', 'H', 'D', 'B':
		return classVHDB
	case 'M', 'R', 'W', 'S', 'Y', 'K':
		return classMRWSYK
	default:
		return classNone
	}
}

// windowClassCounts counts a window's degenerate bases by class. window
// must already be uppercase canonical text (as codec.Decode produces).
func windowClassCounts(window []byte) (nN, nVHDB, nMRWSYK int) {
	for _, c := range window {
		switch classify(c) {
		case classN:
			nN++
		case classVHDB:
			nVHDB++
		case classMRWSYK:
			nMRWSYK++
		}
	}
	return
}

// exceedsExpansionBound implements spec.md §4.2's exact short-circuit
// enumeration: the window is skipped if any of these hold, each one a
// cheap sufficient condition for "Cartesian product of concrete bases
// exceeds expansionLimit" that avoids computing the product itself.
func exceedsExpansionBound(nN, nVHDB, nMRWSYK int) bool {
	switch {
	case nN >= 2:
		return true
	case nN >= 1 && nVHDB >= 1:
		return true
	case nN >= 1 && nMRWSYK >= 2:
		return true
	case nVHDB >= 3:
		return true
	case nVHDB >= 2 && nMRWSYK >= 1:
		return true
	case nVHDB >= 1 && nMRWSYK >= 2:
		return true
	case nMRWSYK >= 4:
		return true
	default:
		return false
	}
}

// expandWindow returns every concrete canonical-base combination a
// degenerate window can stand for, first-position-major, with each
// position's options in codec.DegenerateBases order (not always
// alphabetical: S yields G before C).
// Callers must first confirm !exceedsExpansionBound for the window;
// expandWindow does not itself re-check the bound.
func expandWindow(window []byte) [][]byte {
	choices := make([][]byte, len(window))
	for i, c := range window {
		if bases := codec.DegenerateBases(c); bases != nil {
			choices[i] = bases
		} else {
			choices[i] = []byte{c}
		}
	}
	total := 1
	for _, c := range choices {
		total *= len(c)
	}
	out := make([][]byte, total)
	for i := range out {
		out[i] = make([]byte, len(window))
	}
	stride := total
	for pos, opts := range choices {
		stride /= len(opts)
		for i := range out {
			out[i][pos] = opts[(i/stride)%len(opts)]
		}
	}
	return out
}

