package reconcile

import "sort"

// Sequence returns the positions of a longest strictly increasing
// subsequence of src, in ascending order. Negative entries mark unmatched
// slots and are never part of the result.
//
//	Sequence([]int{2, 0, 1})     // [1 2]
//	Sequence([]int{-1, 3, 1, 2}) // [2 3]
func Sequence(src []int) []int {
	// pred[i] is the position preceding i in the best run ending at i.
	pred := make([]int, len(src))
	// tails[k] is the position of the smallest tail of a run of length k+1.
	var tails []int

	for i, v := range src {
		if v < 0 {
			continue
		}
		n := len(tails)
		if n == 0 || src[tails[n-1]] < v {
			if n > 0 {
				pred[i] = tails[n-1]
			} else {
				pred[i] = -1
			}
			tails = append(tails, i)
			continue
		}

		k := sort.Search(n, func(k int) bool { return src[tails[k]] >= v })
		if k > 0 {
			pred[i] = tails[k-1]
		} else {
			pred[i] = -1
		}
		tails[k] = i
	}

	out := make([]int, len(tails))
	if len(tails) == 0 {
		return out
	}
	for k, i := len(tails)-1, tails[len(tails)-1]; k >= 0; k-- {
		out[k] = i
		i = pred[i]
	}
	return out
}
