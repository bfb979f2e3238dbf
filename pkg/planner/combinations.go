package planner

import "iter"

// Assignments yields every ordered selection with repetition of k symbols
// from objs, varying the last position fastest. The yielded slice is reused
// between iterations; copy it to keep it.
//
// k == 0 yields a single empty assignment. An empty objs with k > 0 yields
// nothing.
func Assignments(objs []Symbol, k int) iter.Seq[[]Symbol] {
	return func(yield func([]Symbol) bool) {
		if k > 0 && len(objs) == 0 {
			return
		}
		digits := make([]int, k)
		out := make([]Symbol, k)
		for {
			for i, d := range digits {
				out[i] = objs[d]
			}
			if !yield(out) {
				return
			}
			i := k - 1
			for ; i >= 0; i-- {
				digits[i]++
				if digits[i] < len(objs) {
					break
				}
				digits[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// Subsets yields every k-element subset of {0, ..., n-1} as increasing
// positions, in lexicographic order. The yielded slice is reused.
func Subsets(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 0 || k > n {
			return
		}
		pos := make([]int, k)
		for i := range pos {
			pos[i] = i
		}
		for {
			if !yield(pos) {
				return
			}
			i := k - 1
			for i >= 0 && pos[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			pos[i]++
			for j := i + 1; j < k; j++ {
				pos[j] = pos[j-1] + 1
			}
		}
	}
}
