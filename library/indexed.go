package library

import (
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/spider/commons"
)

// IndexedPrimitive is a library primitive realized in coordinates: every
// abstract index is replaced by a concrete spatial dimension.
//
// dimOrders holds one derivative count per spatial dimension followed by the
// time-derivative count, so len(dimOrders) is the number of spatial
// dimensions plus one. obsDims holds the dimension of every observable slot.
type IndexedPrimitive struct {
	prim      LibraryPrimitive
	dimOrders []int
	obsDims   []int
}

// NewIndexedPrimitive binds prim to per-dimension space-derivative counts and
// observable-slot dimensions. The time order is taken from prim.
//
// Errors:
//   - ErrBadDimension - spaceOrders does not add up to prim's space order, a
//     count is negative, obsDims does not fill prim's observable slots, or a
//     slot dimension falls outside [0, len(spaceOrders)).
func NewIndexedPrimitive(prim LibraryPrimitive, spaceOrders, obsDims []int) (IndexedPrimitive, error) {
	total := 0
	for _, o := range spaceOrders {
		if o < 0 {
			return IndexedPrimitive{}, libraryErrorf("NewIndexedPrimitive", "negative order in %v", ErrBadDimension, spaceOrders)
		}
		total += o
	}
	if total != prim.dorder.XOrder {
		return IndexedPrimitive{}, libraryErrorf("NewIndexedPrimitive", "orders %v for space order %d", ErrBadDimension, spaceOrders, prim.dorder.XOrder)
	}
	if len(obsDims) != prim.cgp.rank {
		return IndexedPrimitive{}, libraryErrorf("NewIndexedPrimitive", "%d slot dimensions for rank %d", ErrBadDimension, len(obsDims), prim.cgp.rank)
	}
	for _, d := range obsDims {
		if d < 0 || d >= len(spaceOrders) {
			return IndexedPrimitive{}, libraryErrorf("NewIndexedPrimitive", "slot dimension %d of %d", ErrBadDimension, d, len(spaceOrders))
		}
	}

	return IndexedPrimitive{
		prim:      prim,
		dimOrders: append(slices.Clone(spaceOrders), prim.dorder.TOrder),
		obsDims:   slices.Clone(obsDims),
	}, nil
}

// Primitive returns the abstract primitive.
func (p IndexedPrimitive) Primitive() LibraryPrimitive { return p.prim }

// DimOrders returns a copy of the derivative counts, time last.
func (p IndexedPrimitive) DimOrders() []int { return slices.Clone(p.dimOrders) }

// ObsDims returns a copy of the observable-slot dimensions.
func (p IndexedPrimitive) ObsDims() []int { return slices.Clone(p.obsDims) }

// NDims is the number of differentiable dimensions, time included.
func (p IndexedPrimitive) NDims() int { return len(p.dimOrders) }

// NDerivs is the total derivative count over all dimensions.
func (p IndexedPrimitive) NDerivs() int {
	n := 0
	for _, o := range p.dimOrders {
		n += o
	}

	return n
}

// Rank is the abstract primitive's rank.
func (p IndexedPrimitive) Rank() int { return p.prim.Rank() }

// Complexity is the abstract primitive's complexity.
func (p IndexedPrimitive) Complexity() float64 { return p.prim.Complexity() }

// Diff returns p with one more derivative in dim; dim NDims()-1 is time.
//
// Errors:
//   - ErrBadDimension - dim ∉ [0, NDims()).
func (p IndexedPrimitive) Diff(dim int) (IndexedPrimitive, error) {
	if dim < 0 || dim >= len(p.dimOrders) {
		return IndexedPrimitive{}, libraryErrorf("Diff", "dimension %d of %d", ErrBadDimension, dim, len(p.dimOrders))
	}
	orders := slices.Clone(p.dimOrders)
	orders[dim]++
	prim := p.prim.Dx()
	if dim == len(orders)-1 {
		prim = p.prim.Dt()
	}

	return IndexedPrimitive{prim: prim, dimOrders: orders, obsDims: p.obsDims}, nil
}

// Succeeds reports whether p is other with exactly one more derivative in
// dim: same CGP and slot dimensions, equal counts everywhere else. An
// evaluator uses it to build p's derivative from other's.
func (p IndexedPrimitive) Succeeds(other IndexedPrimitive, dim int) bool {
	if dim < 0 || dim >= len(p.dimOrders) || len(p.dimOrders) != len(other.dimOrders) {
		return false
	}
	if !p.prim.cgp.Equal(other.prim.cgp) || !slices.Equal(p.obsDims, other.obsDims) {
		return false
	}
	for i, o := range p.dimOrders {
		want := other.dimOrders[i]
		if i == dim {
			want++
		}
		if o != want {
			return false
		}
	}

	return true
}

// Equal compares derivative counts, CGP and slot dimensions.
func (p IndexedPrimitive) Equal(other IndexedPrimitive) bool {
	return slices.Equal(p.dimOrders, other.dimOrders) &&
		p.prim.cgp.Equal(other.prim.cgp) &&
		slices.Equal(p.obsDims, other.obsDims)
}

// String renders e.g. "dt dx dy^2 rho[v_z]".
func (p IndexedPrimitive) String() string {
	var sb strings.Builder
	last := len(p.dimOrders) - 1
	tstring, _ := commons.CreateDerivativeString(p.dimOrders[last], 0)
	sb.WriteString(tstring)
	for d, o := range p.dimOrders[:last] {
		if o == 0 {
			continue
		}
		sb.WriteString("d")
		sb.WriteString(commons.DimToLet(d))
		if o > 1 {
			sb.WriteString("^")
			sb.WriteString(strconv.Itoa(o))
		}
		sb.WriteString(" ")
	}
	sb.WriteString(p.prim.cgp.IndexStr(p.obsDims, true))

	return sb.String()
}

// IndexedTerm is a product of indexed primitives: a library term evaluated at
// one concrete assignment of its indices to spatial dimensions. The empty
// product renders as "1".
type IndexedTerm struct {
	factors []IndexedPrimitive
	rank    int
}

// NewIndexedTerm realizes term with per-factor space orders and slot
// dimensions, one entry per factor.
//
// Errors:
//   - ErrLengthMismatch - spaceOrders or obsDims do not have one entry per
//     factor.
//   - ErrBadDimension   - see NewIndexedPrimitive.
func NewIndexedTerm(term *LibraryTerm, spaceOrders, obsDims [][]int) (IndexedTerm, error) {
	n := term.tensor.Len()
	if len(spaceOrders) != n || len(obsDims) != n {
		return IndexedTerm{}, libraryErrorf("NewIndexedTerm", "%d/%d entries for %d factors", ErrLengthMismatch, len(spaceOrders), len(obsDims), n)
	}
	factors := make([]IndexedPrimitive, n)
	for i, f := range term.tensor.factors {
		p, err := NewIndexedPrimitive(f, spaceOrders[i], obsDims[i])
		if err != nil {
			return IndexedTerm{}, err
		}
		factors[i] = p
	}

	return IndexedTerm{factors: factors, rank: term.Rank()}, nil
}

// IndexedTermOf builds the product of the given factors. The rank is taken
// from the first factor, as for a single realized primitive.
func IndexedTermOf(factors ...IndexedPrimitive) IndexedTerm {
	it := IndexedTerm{factors: slices.Clone(factors)}
	if len(factors) > 0 {
		it.rank = factors[0].Rank() % 2
	}

	return it
}

// Factors returns a copy of the factor sequence.
func (t IndexedTerm) Factors() []IndexedPrimitive { return slices.Clone(t.factors) }

// Len is the number of factors.
func (t IndexedTerm) Len() int { return len(t.factors) }

// Rank is the rank of the library term the factors were realized from.
func (t IndexedTerm) Rank() int { return t.rank }

// Complexity sums the factor complexities.
func (t IndexedTerm) Complexity() float64 {
	total := 0.0
	for _, f := range t.factors {
		total += f.Complexity()
	}

	return total
}

// NDims is the number of differentiable dimensions, or 0 for "1".
func (t IndexedTerm) NDims() int {
	if len(t.factors) == 0 {
		return 0
	}

	return t.factors[0].NDims()
}

// NDerivs is the largest derivative count of any factor.
func (t IndexedTerm) NDerivs() int {
	n := 0
	for _, f := range t.factors {
		n = max(n, f.NDerivs())
	}

	return n
}

// Mul concatenates the factors of t and other, keeping t's rank.
func (t IndexedTerm) Mul(other IndexedTerm) IndexedTerm {
	return IndexedTerm{factors: slices.Concat(t.factors, other.factors), rank: t.rank}
}

// Drop removes the first factor equal to p. t is returned unchanged when p
// does not occur.
func (t IndexedTerm) Drop(p IndexedPrimitive) IndexedTerm {
	i := slices.IndexFunc(t.factors, p.Equal)
	if i < 0 {
		return t
	}

	return IndexedTerm{factors: slices.Delete(slices.Clone(t.factors), i, i+1), rank: t.rank}
}

// DropAll removes every factor equal to p.
func (t IndexedTerm) DropAll(p IndexedPrimitive) IndexedTerm {
	return IndexedTerm{
		factors: slices.DeleteFunc(slices.Clone(t.factors), p.Equal),
		rank:    t.rank,
	}
}

// Diff applies the product rule in dim: one product per factor, in factor
// order, with the differentiated factor moved to the front.
//
// Errors:
//   - ErrBadDimension - dim ∉ [0, NDims()).
func (t IndexedTerm) Diff(dim int) ([]IndexedTerm, error) {
	out := make([]IndexedTerm, 0, len(t.factors))
	for i, f := range t.factors {
		d, err := f.Diff(dim)
		if err != nil {
			return nil, err
		}
		rest := slices.Delete(slices.Clone(t.factors), i, i+1)
		out = append(out, IndexedTerm{factors: append([]IndexedPrimitive{d}, rest...), rank: t.rank})
	}

	return out, nil
}

// String renders the factors joined by " * ", or "1" for the empty product.
func (t IndexedTerm) String() string {
	if len(t.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(t.factors))
	for i, f := range t.factors {
		parts[i] = f.String()
	}

	return strings.Join(parts, " * ")
}

// Realize enumerates every binding of t's contracted index ids to spatial
// dimensions 0..ndims-1, with the free index of a vector term pinned to
// free (ignored for scalars). Bindings are produced in lexicographic order
// of the dimensions given to ids 1, 2, …; summing the results over all
// bindings evaluates the contraction.
//
// Errors:
//   - ErrBadDimension - ndims < 1, or free ∉ [0, ndims) for a vector term.
func (t *LibraryTerm) Realize(ndims, free int) ([]IndexedTerm, error) {
	if ndims < 1 {
		return nil, libraryErrorf("Realize", "ndims=%d", ErrBadDimension, ndims)
	}
	if t.Rank() == 1 && (free < 0 || free >= ndims) {
		return nil, libraryErrorf("Realize", "free dimension %d of %d", ErrBadDimension, free, ndims)
	}
	ids := make([]int, 0, len(t.labels))
	for id := range t.labels {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	dims := map[int]int{0: free}
	choice := make([]int, len(ids))
	var out []IndexedTerm
	for {
		for k, id := range ids {
			dims[id] = choice[k]
		}
		it, err := t.bind(ndims, dims)
		if err != nil {
			return nil, err
		}
		out = append(out, it)

		// odometer over choice, last id fastest
		k := len(choice) - 1
		for k >= 0 && choice[k] == ndims-1 {
			choice[k] = 0
			k--
		}
		if k < 0 {
			return out, nil
		}
		choice[k]++
	}
}

// bind realizes t under one id → dimension assignment.
func (t *LibraryTerm) bind(ndims int, dims map[int]int) (IndexedTerm, error) {
	n := t.tensor.Len()
	spaceOrders := make([][]int, n)
	obsDims := make([][]int, n)
	for i := range n {
		orders := make([]int, ndims)
		for _, id := range t.index[2*i] {
			orders[dims[id]]++
		}
		slots := make([]int, len(t.index[2*i+1]))
		for j, id := range t.index[2*i+1] {
			slots[j] = dims[id]
		}
		spaceOrders[i], obsDims[i] = orders, slots
	}

	return NewIndexedTerm(t, spaceOrders, obsDims)
}
