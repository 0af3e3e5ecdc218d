package commons

import (
	"iter"
	"slices"
)

// Slot addresses one index position: Bin is the bin number in the
// interleaved [der₀, obs₀, der₁, obs₁, …] layout and Pos the position inside
// that bin.
type Slot struct {
	Bin int
	Pos int
}

// Labels maps an index id to the ordered slots it occupies. A free index
// occupies one slot, a contracted pair two.
type Labels map[int][]Slot

// BinLabels maps an index id to the bins it occurs in, with multiplicity.
// It is the position-free form produced by ListLabels.
type BinLabels map[int][]int

// LabelsToOrderedIndexList lays labels out on bins of the given sizes.
//
// Errors:
//   - ErrLabelMismatch - a slot is out of range, used twice, or left empty.
//
// Complexity: O(total slots + ids·log ids).
func LabelsToOrderedIndexList(labels Labels, sizes []int) ([][]int, error) {
	const empty = -1

	index := make([][]int, len(sizes))
	for i, size := range sizes {
		index[i] = slices.Repeat([]int{empty}, size)
	}
	for _, id := range sortedKeys(labels) {
		for _, s := range labels[id] {
			if s.Bin < 0 || s.Bin >= len(index) || s.Pos < 0 || s.Pos >= len(index[s.Bin]) {
				return nil, commonsErrorf("LabelsToOrderedIndexList", "id %d at %v", ErrLabelMismatch, id, s)
			}
			if index[s.Bin][s.Pos] != empty {
				return nil, commonsErrorf("LabelsToOrderedIndexList", "slot %v used twice", ErrLabelMismatch, s)
			}
			index[s.Bin][s.Pos] = id
		}
	}
	for b, bin := range index {
		if slices.Contains(bin, empty) {
			return nil, commonsErrorf("LabelsToOrderedIndexList", "bin %d not filled", ErrLabelMismatch, b)
		}
	}

	return index, nil
}

// OrderedIndexListToLabels is the inverse of LabelsToOrderedIndexList: slots
// are collected per id in bin-major, position-minor order.
func OrderedIndexListToLabels(index [][]int) Labels {
	labels := make(Labels)
	for b, bin := range index {
		for p, id := range bin {
			labels[id] = append(labels[id], Slot{Bin: b, Pos: p})
		}
	}

	return labels
}

// LabelsToIndexList turns bin-level labels over nFactors factors into an
// interleaved index list. Positions inside a bin are interchangeable, so
// each bin is returned sorted.
func LabelsToIndexList(labels BinLabels, nFactors int) [][]int {
	index := make([][]int, 2*nFactors)
	for i := range index {
		index[i] = []int{}
	}
	for _, id := range sortedKeys(labels) {
		for _, b := range labels[id] {
			index[b] = append(index[b], id)
		}
	}
	for _, bin := range index {
		slices.Sort(bin)
	}

	return index
}

// ListLabels enumerates every way to bind the slots of bins with the given
// sizes into contracted pairs, leaving exactly one free index when the total
// slot count is odd. The result rank is therefore always 0 or 1.
//
// Each pattern is produced once, as a multigraph over bins: the first open
// slot is bound either to the free index (id 0) or to a partner bin at or
// after its own, and successive choices within one bin never decrease.
// Contracted pairs are numbered from 1 in the order they are made.
//
// Complexity: proportional to the number of distinct patterns.
func ListLabels(sizes []int) iter.Seq[BinLabels] {
	return func(yield func(BinLabels) bool) {
		total := 0
		for _, s := range sizes {
			total += s
		}
		w := &labelWalker{
			open:     slices.Clone(sizes),
			needFree: total%2 == 1,
			labels:   make(BinLabels),
			yield:    yield,
		}
		w.walk(-1, -2)
	}
}

// freeChoice orders the free index ahead of every partner bin.
const freeChoice = -1

type labelWalker struct {
	open     []int
	needFree bool
	nextID   int
	labels   BinLabels
	yield    func(BinLabels) bool
}

func (w *labelWalker) walk(lastBin, lastChoice int) bool {
	b := slices.IndexFunc(w.open, func(n int) bool { return n > 0 })
	if b < 0 {
		if w.needFree {
			return true
		}
		out := make(BinLabels, len(w.labels))
		for id, bins := range w.labels {
			out[id] = slices.Clone(bins)
		}
		return w.yield(out)
	}
	floor := freeChoice
	if b == lastBin {
		floor = lastChoice
	}

	if floor == freeChoice && w.needFree {
		w.open[b]--
		w.needFree = false
		w.labels[0] = []int{b}
		ok := w.walk(b, freeChoice)
		delete(w.labels, 0)
		w.needFree = true
		w.open[b]++
		if !ok {
			return false
		}
	}

	for c := max(b, floor); c < len(w.open); c++ {
		if w.open[c] == 0 || (c == b && w.open[b] < 2) {
			continue
		}
		w.nextID++
		id := w.nextID
		w.open[b]--
		w.open[c]--
		w.labels[id] = []int{b, c}
		ok := w.walk(b, c)
		delete(w.labels, id)
		w.open[c]++
		w.open[b]++
		w.nextID--
		if !ok {
			return false
		}
	}

	return true
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
