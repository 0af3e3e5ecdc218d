package library

import (
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/spider/commons"
)

// LibraryTerm is a library tensor with an explicit index assignment.
//
// The assignment is an interleaved index list [der₀, obs₀, der₁, obs₁, …]:
// one bin of space-derivative indices and one bin of observable indices per
// factor. Id 0 is the free index of a vector term; every other id is a
// contracted pair and appears exactly twice.
//
// Index lists are never mutated after construction; every derived term gets
// fresh slices. The only mutable state is the canonical flag, written by
// Canonicalize on its receiver.
type LibraryTerm struct {
	tensor    LibraryTensor
	index     [][]int
	labels    commons.Labels
	canonical bool
}

// NewLibraryTerm validates index against tensor and builds a term.
//
// Errors:
//   - ErrEmptyTerm    - tensor has no factors.
//   - ErrBadIndexList - bins do not match tensor.BinSizes(), an id is negative
//     or occurs more than twice, the number of free indices is not
//     tensor.Rank() mod 2, or the free index is not 0 (id 0 is reserved for
//     it and may not label a contracted pair).
func NewLibraryTerm(tensor LibraryTensor, index [][]int) (*LibraryTerm, error) {
	if tensor.IsIdentity() {
		return nil, ErrEmptyTerm
	}
	sizes := tensor.BinSizes()
	if len(index) != len(sizes) {
		return nil, libraryErrorf("NewLibraryTerm", "%d bins for %d factors", ErrBadIndexList, len(index), tensor.Len())
	}
	counts := make(map[int]int)
	for b, bin := range index {
		if len(bin) != sizes[b] {
			return nil, libraryErrorf("NewLibraryTerm", "bin %d has %d slots, want %d", ErrBadIndexList, b, len(bin), sizes[b])
		}
		for _, id := range bin {
			counts[id]++
		}
	}
	free := 0
	for id, n := range counts {
		switch {
		case id < 0:
			return nil, libraryErrorf("NewLibraryTerm", "negative id %d", ErrBadIndexList, id)
		case n > 2:
			return nil, libraryErrorf("NewLibraryTerm", "id %d used %d times", ErrBadIndexList, id, n)
		case n == 2 && id == 0:
			return nil, libraryErrorf("NewLibraryTerm", "id 0 contracted", ErrBadIndexList)
		case n == 1 && id != 0:
			return nil, libraryErrorf("NewLibraryTerm", "free index has id %d, want 0", ErrBadIndexList, id)
		case n == 1:
			free++
		}
	}
	if free != tensor.Rank()%2 {
		return nil, libraryErrorf("NewLibraryTerm", "%d free indices for rank %d", ErrBadIndexList, free, tensor.Rank()%2)
	}

	return newTerm(tensor, cloneIndex(index)), nil
}

// NewLibraryTermFromLabels lays labels out on the tensor bins and builds a term.
func NewLibraryTermFromLabels(tensor LibraryTensor, labels commons.Labels) (*LibraryTerm, error) {
	index, err := commons.LabelsToOrderedIndexList(labels, tensor.BinSizes())
	if err != nil {
		return nil, err
	}

	return NewLibraryTerm(tensor, index)
}

// newTerm wraps a trusted, already-owned index list.
func newTerm(tensor LibraryTensor, index [][]int) *LibraryTerm {
	return &LibraryTerm{
		tensor: tensor,
		index:  index,
		labels: commons.OrderedIndexListToLabels(index),
	}
}

func (*LibraryTerm) element() {}
func (*LibraryTerm) term()    {}

// Tensor returns the unindexed shape.
func (t *LibraryTerm) Tensor() LibraryTensor { return t.tensor }

// Factors returns a copy of the factor sequence.
func (t *LibraryTerm) Factors() []LibraryPrimitive { return t.tensor.Factors() }

// IndexList returns a deep copy of the interleaved index list.
func (t *LibraryTerm) IndexList() [][]int { return cloneIndex(t.index) }

// DerIndexList returns a copy of the derivative bins, one per factor.
func (t *LibraryTerm) DerIndexList() [][]int { return cloneIndex(everyOther(t.index, 0)) }

// ObsIndexList returns a copy of the observable bins, one per factor.
func (t *LibraryTerm) ObsIndexList() [][]int { return cloneIndex(everyOther(t.index, 1)) }

// Labels returns a copy of the id → slots view of the assignment.
func (t *LibraryTerm) Labels() commons.Labels {
	out := make(commons.Labels, len(t.labels))
	for id, slots := range t.labels {
		out[id] = slices.Clone(slots)
	}

	return out
}

// Rank is 0 for a scalar term and 1 for a vector term.
func (t *LibraryTerm) Rank() int { return t.tensor.rank % 2 }

// Complexity is the tensor complexity.
func (t *LibraryTerm) Complexity() float64 { return t.tensor.complexity }

// IsCanonical reports whether the last Canonicalize call on t found t to be
// its own canonical form. It is false before Canonicalize has been called.
func (t *LibraryTerm) IsCanonical() bool { return t.canonical }

// String renders the term with abstract index letters, e.g.
// "dj rho[v_i] * rho[v_j]".
func (t *LibraryTerm) String() string {
	parts := make([]string, t.tensor.Len())
	for i, f := range t.tensor.factors {
		parts[i] = labelRepr(f, t.index[2*i], t.index[2*i+1])
	}

	return strings.Join(parts, " * ")
}

// Key is an exact structural encoding of the factor sequence and index list;
// two terms are Equal iff their keys match.
func (t *LibraryTerm) Key() string {
	var sb strings.Builder
	for i, f := range t.tensor.factors {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(f.String())
		for _, bin := range t.index[2*i : 2*i+2] {
			sb.WriteByte('|')
			for j, id := range bin {
				if j > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(strconv.Itoa(id))
			}
		}
	}

	return sb.String()
}

// Equal reports strict equality: same factor sequence and same index list,
// including the exact numbering. Use Canonicalize to compare algebraically.
func (t *LibraryTerm) Equal(other *LibraryTerm) bool {
	if t == other {
		return true
	}
	if other == nil || t.tensor.Len() != other.tensor.Len() {
		return false
	}
	if !slices.EqualFunc(t.tensor.factors, other.tensor.factors, LibraryPrimitive.Equal) {
		return false
	}

	return slices.EqualFunc(t.index, other.index, func(a, b []int) bool { return slices.Equal(a, b) })
}

// Less orders terms by their string form.
func (t *LibraryTerm) Less(other *LibraryTerm) bool { return t.String() < other.String() }

// IncrementIndices returns t with every index id shifted by inc.
func (t *LibraryTerm) IncrementIndices(inc int) *LibraryTerm {
	return t.relabel(func(id int) int { return id + inc })
}

func (t *LibraryTerm) relabel(fn func(int) int) *LibraryTerm {
	index := make([][]int, len(t.index))
	for b, bin := range t.index {
		index[b] = make([]int, len(bin))
		for i, id := range bin {
			index[b][i] = fn(id)
		}
	}

	return newTerm(t.tensor, index)
}

// maxLabel is the largest index id in use, or 0 for an index-free term.
func (t *LibraryTerm) maxLabel() int {
	m := 0
	for id := range t.labels {
		m = max(m, id)
	}

	return m
}

// Add returns the formal sum t + other.
func (t *LibraryTerm) Add(other Element) (Element, error) { return Add(t, other) }

// Mul multiplies t by other and canonicalizes the product. Two vector terms
// contract their free indices into a dot product; a ConstantTerm is absorbed.
func (t *LibraryTerm) Mul(other Element, c *Cache) (Element, error) { return Mul(t, other, c) }

// mulTerm forms the product of two library terms with disjoint dummy ids.
func (t *LibraryTerm) mulTerm(other *LibraryTerm, c *Cache) *LibraryTerm {
	a, b := t, other
	if a.Rank() < b.Rank() {
		a, b = b, a
	}
	shift := a.maxLabel()
	if b.Rank() == 1 {
		a = a.IncrementIndices(1)
		b = b.relabel(func(id int) int {
			if id == 0 {
				return 1
			}
			return id + shift + 1
		})
	} else {
		b = b.IncrementIndices(shift)
	}
	prod := newTerm(a.tensor.Mul(b.tensor), slices.Concat(a.index, b.index))

	return prod.Canonicalize(c)
}

// Dt applies a time derivative by the product rule: one variant per factor,
// each canonicalized, merged into an equation.
func (t *LibraryTerm) Dt(c *Cache) *Equation {
	terms := make([]Term, 0, t.tensor.Len())
	for i, f := range t.tensor.factors {
		lt := newTerm(t.tensor.withFactor(i, f.Dt()), t.index)
		terms = append(terms, lt.Canonicalize(c))
	}

	return NewTermSum(terms...).Canonicalize()
}

// Dx applies a space derivative by the product rule. The new derivative index
// takes id 0: it is the free index of a scalar's gradient, or it contracts
// with the existing free index of a vector (a divergence), in which case all
// ids shift up by one to keep 0 reserved.
func (t *LibraryTerm) Dx(c *Cache) *Equation {
	terms := make([]Term, 0, t.tensor.Len())
	for i, f := range t.tensor.factors {
		index := cloneIndex(t.index)
		index[2*i] = slices.Insert(index[2*i], 0, 0)
		lt := newTerm(t.tensor.withFactor(i, f.Dx()), index)
		if lt.Rank() == 0 {
			lt = lt.IncrementIndices(1)
		}
		terms = append(terms, lt.Canonicalize(c))
	}

	return NewTermSum(terms...).Canonicalize()
}

// labelRepr renders one indexed factor: time prefix, compressed derivative
// letters, then the CGP with its observable indices.
func labelRepr(p LibraryPrimitive, der, obs []int) string {
	tstring, _ := commons.CreateDerivativeString(p.dorder.TOrder, 0)
	var sb strings.Builder
	sb.WriteString(tstring)
	letters := make([]string, len(der))
	for i, id := range der {
		letters[i] = commons.NumToLet(id)
	}
	for _, let := range commons.Compress(letters) {
		sb.WriteString("d")
		sb.WriteString(let)
		sb.WriteString(" ")
	}
	sb.WriteString(p.cgp.IndexStr(obs, false))

	return sb.String()
}

func cloneIndex(index [][]int) [][]int {
	out := make([][]int, len(index))
	for i, bin := range index {
		out[i] = slices.Clone(bin)
		if out[i] == nil {
			out[i] = []int{}
		}
	}

	return out
}

func everyOther(index [][]int, offset int) [][]int {
	out := make([][]int, 0, (len(index)+1)/2)
	for i := offset; i < len(index); i += 2 {
		out = append(out, index[i])
	}

	return out
}

func flatten(index [][]int) []int {
	n := 0
	for _, bin := range index {
		n += len(bin)
	}
	flat := make([]int, 0, n)
	for _, bin := range index {
		flat = append(flat, bin...)
	}

	return flat
}
