package commons

import (
	"iter"
	"slices"
)

// DistinctPermutations yields every distinct arrangement of xs (a multiset)
// exactly once, in ascending lexicographic order. Each yielded slice is a
// fresh copy owned by the caller. An empty input yields one empty slice.
//
// Complexity: O(n) amortized per permutation.
func DistinctPermutations(xs []int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		cur := slices.Clone(xs)
		slices.Sort(cur)
		for {
			if !yield(slices.Clone(cur)) {
				return
			}
			if !nextPermutation(cur) {
				return
			}
		}
	}
}

// nextPermutation rearranges a into its lexicographic successor and reports
// whether one existed.
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(a) - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	slices.Reverse(a[i+1:])

	return true
}

// IsomorphicTemplates yields every reordering template of n sorted items that
// only exchanges items inside runs of consecutive equal ones (same(i, i+1)
// reports whether neighbours are interchangeable). A template t sends item i
// to position t[i]. The identity template is always first.
//
// Complexity: Π (run length)! templates, O(n) each.
func IsomorphicTemplates(n int, same func(i, j int) bool) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		var runs [][2]int
		for start := 0; start < n; {
			end := start + 1
			for end < n && same(end-1, end) {
				end++
			}
			runs = append(runs, [2]int{start, end})
			start = end
		}

		template := make([]int, n)
		var fill func(r int) bool
		fill = func(r int) bool {
			if r == len(runs) {
				return yield(slices.Clone(template))
			}
			start, end := runs[r][0], runs[r][1]
			positions := make([]int, end-start)
			for i := range positions {
				positions[i] = start + i
			}
			for perm := range DistinctPermutations(positions) {
				copy(template[start:end], perm)
				if !fill(r + 1) {
					return false
				}
			}
			return true
		}
		fill(0)
	}
}
