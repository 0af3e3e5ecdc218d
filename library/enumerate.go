package library

import (
	"iter"
	"slices"

	"github.com/katalvlaran/spider/commons"
)

// RawLibraryTensors lazily enumerates every unindexed tensor that spends the
// budget vector orders exactly:
//
//	orders = [count per observable…, rho count, time derivatives, space derivatives]
//
// Observables are consumed in the given order (the driver passes them in
// descending order) and every primitive receives its observables back in
// ascending order. Each multiset of factors is produced once: every factor
// must take at least one unit of the first observable still available, and
// its budget vector may not exceed the previous factor's lexicographically.
//
// The last factor that carries an observable takes every derivative still
// unspent, so a bare rho is differentiated only when no observable is
// budgeted at all: [1 0 2 0 1] over (v, rho) yields rho * dx rho[v] but never
// dx rho * rho[v].
//
// A budget that cannot be spent completely yields nothing, as does an orders
// vector whose length is not len(observables)+3. Each call returns an
// independent sequence.
func RawLibraryTensors(observables []commons.Observable, orders []int) iter.Seq[LibraryTensor] {
	return func(yield func(LibraryTensor) bool) {
		if len(orders) != len(observables)+3 {
			return
		}
		obs := slices.Clone(observables)
		rawLibraryTensors(obs, slices.Clone(orders), nil, 0, yield)
	}
}

// rawLibraryTensors owns orders. It returns false once yield asks to stop.
func rawLibraryTensors(obs []commons.Observable, orders []int, bound commons.CompList, zeroIdx int, yield func(LibraryTensor) bool) bool {
	n := len(obs)
	if orders[n] == 0 {
		if sum(orders) > 0 {
			return true
		}
		return yield(LibraryTensor{})
	}
	for zeroIdx < n && orders[zeroIdx] == 0 {
		zeroIdx++
	}
	if zeroIdx < n {
		orders[zeroIdx]--
	}

	bounds := slices.Clone(orders)
	bounds[n] = 0
	for tup := range legalTuples(bounds) {
		rest := make([]int, len(orders))
		for i := range orders {
			rest[i] = orders[i] - tup[i]
		}
		rest[n]--
		// Every observable and rho is spent but derivatives are left over:
		// no factor remains to carry them.
		if sum(rest[:n+1]) == 0 && rest[n+1]+rest[n+2] > 0 {
			continue
		}

		popped := slices.Clone(tup)
		if zeroIdx < n {
			popped[zeroIdx]++
		}
		popped[n]++
		if !commons.CompList(popped).LessEq(bound) {
			continue
		}

		factor := NewLibraryTensor(primitiveFromPopped(obs, popped))
		ok := rawLibraryTensors(obs, rest, popped, zeroIdx, func(t LibraryTensor) bool {
			return yield(t.Mul(factor))
		})
		if !ok {
			return false
		}
	}

	return true
}

// legalTuples yields every sub-allocation of bounds. Once no observable is
// left, the remaining derivatives must all go to the current factor, so only
// bounds itself is legal.
func legalTuples(bounds []int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if sum(bounds[:len(bounds)-2]) == 0 {
			yield(slices.Clone(bounds))
			return
		}
		cur := make([]int, len(bounds))
		for {
			if !yield(slices.Clone(cur)) {
				return
			}
			// odometer, last position fastest
			k := len(cur) - 1
			for k >= 0 && cur[k] == bounds[k] {
				cur[k] = 0
				k--
			}
			if k < 0 {
				return
			}
			cur[k]++
		}
	}
}

// primitiveFromPopped turns one factor's budget vector into a primitive.
func primitiveFromPopped(obs []commons.Observable, popped []int) LibraryPrimitive {
	n := len(obs)
	var list []commons.Observable
	for i, count := range popped[:n] {
		for range count {
			list = append(list, obs[i])
		}
	}
	slices.Reverse(list)
	dorder := commons.DerivativeOrder{TOrder: popped[n+1], XOrder: popped[n+2]}

	return NewLibraryPrimitive(dorder, NewCoarseGrainedPrimitive(list...))
}

// ListLabels enumerates the contraction patterns of tensor's bins.
func ListLabels(tensor LibraryTensor) iter.Seq[commons.BinLabels] {
	return commons.ListLabels(tensor.BinSizes())
}

// GetValidReorderings yields every arrangement of the observable bins in
// obsIndex, one bin per factor, where each bin is a distinct permutation of
// its ids that its factor's CGP accepts as index-canonical.
func GetValidReorderings(factors []LibraryPrimitive, obsIndex [][]int) iter.Seq[[][]int] {
	return func(yield func([][]int) bool) {
		if len(factors) != len(obsIndex) {
			return
		}
		acc := make([][]int, len(obsIndex))
		var fill func(i int) bool
		fill = func(i int) bool {
			if i == len(obsIndex) {
				return yield(cloneIndex(acc))
			}
			for perm := range commons.DistinctPermutations(obsIndex[i]) {
				if !factors[i].cgp.IsIndexCanon(perm) {
					continue
				}
				acc[i] = perm
				if !fill(i + 1) {
					return false
				}
			}
			return true
		}
		fill(0)
	}
}

// GetLibraryTerms yields the terms obtained from a bin-level index list by
// every valid arrangement of the observable bins. Derivative bins are used
// as given. An index list that does not fit tensor yields nothing.
func GetLibraryTerms(tensor LibraryTensor, index [][]int) iter.Seq[*LibraryTerm] {
	return func(yield func(*LibraryTerm) bool) {
		if _, err := NewLibraryTerm(tensor, index); err != nil {
			return
		}
		der := everyOther(index, 0)
		for obs := range GetValidReorderings(tensor.factors, everyOther(index, 1)) {
			full := make([][]int, 0, len(index))
			for i := range der {
				full = append(full, slices.Clone(der[i]), obs[i])
			}
			if !yield(newTerm(tensor, full)) {
				return
			}
		}
	}
}

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}

	return s
}
