package commons

// Partition returns every way to write n as an ordered sum of k non-negative
// integers. Tuples are produced in lexicographic order, so (0,…,0,n) comes
// first and (n,0,…,0) last.
//
// Errors:
//   - ErrBadPartition - n < 0 or k < 1.
//
// Complexity: O(k · C(n+k-1, k-1)) time and space.
func Partition(n, k int) ([][]int, error) {
	if n < 0 || k < 1 {
		return nil, commonsErrorf("Partition", "n=%d k=%d", ErrBadPartition, n, k)
	}

	var (
		out  [][]int
		cur  = make([]int, k)
		fill func(pos, left int)
	)
	fill = func(pos, left int) {
		if pos == k-1 {
			cur[pos] = left
			out = append(out, append([]int(nil), cur...))
			return
		}
		for v := 0; v <= left; v++ {
			cur[pos] = v
			fill(pos+1, left-v)
		}
	}
	fill(0, n)

	return out, nil
}

// CompList is a budget vector compared lexicographically. The enumerator
// uses it to force every factor of a product to be no larger than the one
// built before it, so each multiset of factors is reached along one path.
type CompList []int

// Compare returns -1, 0 or +1 comparing c to other lexicographically.
// A strict prefix sorts first.
func (c CompList) Compare(other CompList) int {
	n := min(len(c), len(other))
	for i := 0; i < n; i++ {
		switch {
		case c[i] < other[i]:
			return -1
		case c[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(c) < len(other):
		return -1
	case len(c) > len(other):
		return 1
	}

	return 0
}

// LessEq reports c <= other. A nil other is an absent bound and always holds.
func (c CompList) LessEq(other CompList) bool {
	if other == nil {
		return true
	}

	return c.Compare(other) <= 0
}
