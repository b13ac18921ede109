// Package swizzle validates and types vector swizzle selectors such as
// `.xyz`, `.rgba`, or `.st`.
package swizzle

import "fmt"

var componentSets = [3][4]byte{
	{'x', 'y', 'z', 'w'},
	{'r', 'g', 'b', 'a'},
	{'s', 't', 'p', 'q'},
}

var setNames = [3]string{"xyzw", "rgba", "stpq"}

// Result is the outcome of evaluating a swizzle selector against a vector
// of a given size.
type Result struct {
	Valid   bool
	Error   string
	Indices []int // position mapping, one per selector character

	// Scalar is true when the result is a single component (len(selector)
	// == 1); otherwise the result is a vector of ResultSize.
	Scalar     bool
	ResultSize int

	// Writable is true iff every character in the selector is distinct.
	Writable bool
}

// Evaluate validates selector against a vector of vecSize components
// (2, 3, or 4) and reports the resulting type shape.
func Evaluate(vecSize int, selector string) Result {
	if len(selector) == 0 || len(selector) > 4 {
		return Result{Error: fmt.Sprintf("swizzle selector %q must have between 1 and 4 components", selector)}
	}

	setIdx := setIndexOf(selector[0])
	if setIdx < 0 {
		return Result{Error: fmt.Sprintf("unknown swizzle component %q", string(selector[0]))}
	}

	indices := make([]int, len(selector))
	seen := make(map[byte]bool, len(selector))
	for i := 0; i < len(selector); i++ {
		c := selector[i]
		if setIndexOf(c) != setIdx {
			return Result{Error: fmt.Sprintf("swizzle %q mixes component sets (expected all from %q)", selector, setNames[setIdx])}
		}
		pos := positionIn(componentSets[setIdx], c)
		if pos > vecSize-1 {
			return Result{Error: fmt.Sprintf("swizzle component %q is out of range for vec%d", string(c), vecSize)}
		}
		indices[i] = pos
		seen[c] = true
	}

	return Result{
		Valid:      true,
		Indices:    indices,
		Scalar:     len(selector) == 1,
		ResultSize: len(selector),
		Writable:   len(seen) == len(selector),
	}
}

func setIndexOf(c byte) int {
	for s, set := range componentSets {
		if positionIn(set, c) >= 0 {
			return s
		}
	}
	return -1
}

func positionIn(set [4]byte, c byte) int {
	for i, ch := range set {
		if ch == c {
			return i
		}
	}
	return -1
}

// AllSwizzles enumerates every valid swizzle selector (lengths 1 through
// 4) over the canonical xyzw component set for a vector of the given
// size. Exposed for tooling (autocomplete, exhaustive test generation).
func AllSwizzles(size int) []string {
	if size < 2 || size > 4 {
		return nil
	}
	comps := componentSets[0][:size]
	var out []string
	var rec func(prefix []byte, depth int)
	rec = func(prefix []byte, depth int) {
		if depth > 0 {
			out = append(out, string(prefix))
		}
		if depth == 4 {
			return
		}
		for _, c := range comps {
			rec(append(prefix, c), depth+1)
		}
	}
	rec(nil, 0)
	return out
}
