package library

import (
	"iter"
	"slices"

	"github.com/katalvlaran/spider/commons"
)

// Canonicalize returns the unique minimal representative of t under
// reordering of interchangeable factors and relabelling of dummy indices,
// and records on t whether t is that representative (see IsCanonical).
//
// Algorithm:
//  1. StructureCanonicalize: stably sort factors, carrying their bins along.
//  2. If the cache already maps that structural form, return the stored
//     representative.
//  3. Otherwise, for every isomorphism template over the sorted factors
//     (permutations inside runs of identical factors) build the reordered
//     term, and for each of those every arrangement of its commuting slots
//     (the ids of a derivative bin, the ids of a run of equal observables).
//  4. IndexCanonicalize each candidate: renumber ids by first appearance,
//     sort derivative bins, sort indices inside runs of equal observables.
//  5. The candidate with the smallest string form wins; every candidate and
//     the structural form are registered in the cache against the winner.
//
// Steps 3 and 4 see the whole orbit of t, so two algebraically identical
// terms always reduce to the same winner, with or without a cache.
//
// A nil cache disables memoization.
func (t *LibraryTerm) Canonicalize(c *Cache) *LibraryTerm {
	s := t.StructureCanonicalize()
	canon := c.resolve(s.Key(), func() *LibraryTerm {
		return s.searchCanonical(c)
	})
	if t != canon {
		t.canonical = t.Equal(canon)
	}

	return canon
}

// searchCanonical runs steps 3–5 on a structurally canonical term.
func (t *LibraryTerm) searchCanonical(c *Cache) *LibraryTerm {
	factors := t.tensor.factors
	same := func(i, j int) bool { return factors[i].Equal(factors[j]) }

	seen := make(map[string]struct{})
	found := make(map[string]struct{})
	var alts []*LibraryTerm
	for template := range commons.IsomorphicTemplates(len(factors), same) {
		for variant := range t.Reorder(template).slotVariants() {
			key := variant.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			alt := variant.IndexCanonicalize()
			if _, dup := found[alt.Key()]; dup {
				continue
			}
			found[alt.Key()] = struct{}{}
			alts = append(alts, alt)
		}
	}

	winner, winnerStr := alts[0], alts[0].String()
	for _, alt := range alts[1:] {
		s := alt.String()
		if s < winnerStr || (s == winnerStr && alt.Key() < winner.Key()) {
			winner, winnerStr = alt, s
		}
	}
	winner.canonical = true

	keys := make([]string, 0, len(alts)+1)
	keys = append(keys, t.Key())
	for _, alt := range alts {
		keys = append(keys, alt.Key())
	}
	c.register(keys, winner)

	return winner
}

// slotVariants yields t with the ids of its commuting slots rearranged in
// every distinct way: each derivative bin as a whole, and each run of equal
// rank>0 observables inside an observable bin. Factors and bins stay put.
func (t *LibraryTerm) slotVariants() iter.Seq[*LibraryTerm] {
	return func(yield func(*LibraryTerm) bool) {
		choices := make([][][]int, len(t.index))
		for b, bin := range t.index {
			if len(bin) < 2 {
				choices[b] = [][]int{bin}
				continue
			}
			if b%2 == 0 {
				choices[b] = slices.Collect(commons.DistinctPermutations(bin))
				continue
			}
			opts := [][]int{bin}
			t.tensor.factors[b/2].cgp.eachRun(func(lo, hi int) bool {
				var next [][]int
				for _, o := range opts {
					for perm := range commons.DistinctPermutations(o[lo:hi]) {
						nb := slices.Clone(o)
						copy(nb[lo:hi], perm)
						next = append(next, nb)
					}
				}
				opts = next
				return true
			}, len(bin))
			choices[b] = opts
		}

		// odometer over the per-bin choices
		pick := make([]int, len(choices))
		for {
			index := make([][]int, len(choices))
			for b, opts := range choices {
				index[b] = opts[pick[b]]
			}
			if !yield(newTerm(t.tensor, index)) {
				return
			}
			b := len(pick) - 1
			for ; b >= 0; b-- {
				if pick[b]++; pick[b] < len(choices[b]) {
					break
				}
				pick[b] = 0
			}
			if b < 0 {
				return
			}
		}
	}
}

// StructureCanonicalize stably sorts the factors by primitive order, carrying
// each factor's bins along. It returns t itself when already sorted.
func (t *LibraryTerm) StructureCanonicalize() *LibraryTerm {
	factors := t.tensor.factors
	order := make([]int, len(factors))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return factors[a].Compare(factors[b]) })
	if slices.IsSorted(order) {
		return t
	}

	return t.permute(order)
}

// Reorder moves factor i to position template[i], carrying its bins.
// template must be a permutation of 0..n-1.
func (t *LibraryTerm) Reorder(template []int) *LibraryTerm {
	order := make([]int, len(template))
	for i, pos := range template {
		order[pos] = i
	}
	if slices.IsSorted(order) {
		return t
	}

	return t.permute(order)
}

// permute builds the term whose k-th factor is t's factor order[k].
func (t *LibraryTerm) permute(order []int) *LibraryTerm {
	factors := make([]LibraryPrimitive, len(order))
	index := make([][]int, 0, len(t.index))
	for k, i := range order {
		factors[k] = t.tensor.factors[i]
		index = append(index, t.index[2*i], t.index[2*i+1])
	}

	return newTerm(NewLibraryTensor(factors...), index)
}

// IndexCanonicalize renumbers index ids by order of first appearance (the
// free index stays 0), sorts every derivative bin and puts every observable
// bin into its CGP's canonical order. It returns t itself when nothing
// changes.
func (t *LibraryTerm) IndexCanonicalize() *LibraryTerm {
	subs := commons.CanonicalizeIndices(flatten(t.index))
	index := make([][]int, len(t.index))
	for b, bin := range t.index {
		nb := make([]int, len(bin))
		for i, id := range bin {
			nb[i] = subs[id]
		}
		if b%2 == 0 {
			slices.Sort(nb)
		} else {
			nb = t.tensor.factors[b/2].cgp.IndexCanon(nb)
		}
		index[b] = nb
	}
	if slices.EqualFunc(index, t.index, func(a, b []int) bool { return slices.Equal(a, b) }) {
		return t
	}

	return newTerm(t.tensor, index)
}
