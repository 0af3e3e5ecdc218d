package library

import (
	"slices"
	"strings"

	"github.com/katalvlaran/spider/commons"
)

// emptyCGPCost is the complexity of the observable-free ρ[1] factor, which
// is kept just above one so that a bare ρ never ties with ρ[field].
const emptyCGPCost = 0.33

// CoarseGrainedPrimitive is the coarse-graining operator applied to a product
// of observables, ρ[obs₁·obs₂·…]. The observable list is kept in the order
// given; canonical terms always carry it ascending. Values are immutable.
type CoarseGrainedPrimitive struct {
	obsList    []commons.Observable
	rank       int
	complexity float64
}

// NewCoarseGrainedPrimitive copies obs into a new primitive. Pass obs in
// ascending order to obtain the canonical representative.
func NewCoarseGrainedPrimitive(obs ...commons.Observable) CoarseGrainedPrimitive {
	cgp := CoarseGrainedPrimitive{obsList: slices.Clone(obs)}
	for _, o := range obs {
		cgp.rank += o.Rank
	}
	if len(obs) == 0 {
		cgp.complexity = emptyCGPCost + 1
	} else {
		cgp.complexity = float64(len(obs)) + 1
	}

	return cgp
}

// ObsList returns a copy of the observables under the operator.
func (p CoarseGrainedPrimitive) ObsList() []commons.Observable { return slices.Clone(p.obsList) }

// Rank is the sum of the observable ranks, i.e. the number of index slots.
func (p CoarseGrainedPrimitive) Rank() int { return p.rank }

// Complexity counts one per observable (0.33 for an empty list) plus one for
// the operator itself.
func (p CoarseGrainedPrimitive) Complexity() float64 { return p.complexity }

// String renders "rho[v * w]", or "rho" for the empty product.
func (p CoarseGrainedPrimitive) String() string {
	if len(p.obsList) == 0 {
		return "rho"
	}
	names := make([]string, len(p.obsList))
	for i, o := range p.obsList {
		names[i] = o.String()
	}

	return "rho[" + strings.Join(names, " * ") + "]"
}

// IndexStr renders the primitive with its observable slots labelled by inds.
// With coord set, labels are spatial dimensions (x/y/z); otherwise they are
// abstract index letters (i/j/k…).
func (p CoarseGrainedPrimitive) IndexStr(inds []int, coord bool) string {
	if len(p.obsList) == 0 {
		return "rho"
	}
	parts := make([]string, 0, len(p.obsList))
	slot := 0
	for _, o := range p.obsList {
		if o.Rank == 0 || slot >= len(inds) {
			parts = append(parts, o.String())
			continue
		}
		let := commons.NumToLet(inds[slot])
		if coord {
			let = commons.DimToLet(inds[slot])
		}
		parts = append(parts, o.String()+"_"+let)
		slot++
	}

	return "rho[" + strings.Join(parts, " * ") + "]"
}

// Compare orders primitives by their observable lists element-wise; when one
// list is a prefix of the other, the shorter sorts first.
func (p CoarseGrainedPrimitive) Compare(other CoarseGrainedPrimitive) int {
	return slices.CompareFunc(p.obsList, other.obsList, commons.Observable.Compare)
}

// Equal reports whether both observable sequences match exactly.
func (p CoarseGrainedPrimitive) Equal(other CoarseGrainedPrimitive) bool {
	return slices.Equal(p.obsList, other.obsList)
}

// IndexCanon returns the canonical arrangement of the indices occupying this
// primitive's observable slots: inside every maximal run of equal rank>0
// observables the indices are sorted ascending, since permuting them among
// identical factors does not change the term. Rank-0 runs carry no indices.
func (p CoarseGrainedPrimitive) IndexCanon(inds []int) []int {
	out := slices.Clone(inds)
	p.eachRun(func(lo, hi int) bool {
		slices.Sort(out[lo:hi])
		return true
	}, len(out))

	return out
}

// IsIndexCanon reports whether inds already equals IndexCanon(inds), without
// allocating.
func (p CoarseGrainedPrimitive) IsIndexCanon(inds []int) bool {
	return p.eachRun(func(lo, hi int) bool {
		return slices.IsSorted(inds[lo:hi])
	}, len(inds))
}

// eachRun calls fn with the index window [lo, hi) of every run of equal
// rank>0 observables, left to right, stopping early when fn returns false.
func (p CoarseGrainedPrimitive) eachRun(fn func(lo, hi int) bool, nInds int) bool {
	ind := 0
	for start := 0; start < len(p.obsList); {
		end := start + 1
		for end < len(p.obsList) && p.obsList[end] == p.obsList[start] {
			end++
		}
		width := (end - start) * p.obsList[start].Rank
		if width > 0 && ind+width <= nInds {
			if !fn(ind, ind+width) {
				return false
			}
		}
		ind += width
		start = end
	}

	return true
}

// LibraryPrimitive is a coarse-grained primitive decorated with derivatives.
// Primitives sort by CGP first and derivative order second.
type LibraryPrimitive struct {
	dorder commons.DerivativeOrder
	cgp    CoarseGrainedPrimitive
}

// NewLibraryPrimitive pairs a derivative order with a coarse-grained primitive.
func NewLibraryPrimitive(dorder commons.DerivativeOrder, cgp CoarseGrainedPrimitive) LibraryPrimitive {
	return LibraryPrimitive{dorder: dorder, cgp: cgp}
}

// DOrder returns the derivative order.
func (p LibraryPrimitive) DOrder() commons.DerivativeOrder { return p.dorder }

// CGP returns the coarse-grained primitive.
func (p LibraryPrimitive) CGP() CoarseGrainedPrimitive { return p.cgp }

// Rank is the number of index slots: one per space derivative plus the CGP rank.
func (p LibraryPrimitive) Rank() int { return p.dorder.XOrder + p.cgp.rank }

// Complexity adds the derivative count to the CGP complexity.
func (p LibraryPrimitive) Complexity() float64 {
	return float64(p.dorder.Complexity()) + p.cgp.complexity
}

// String renders e.g. "dt dx^2 rho[v]".
func (p LibraryPrimitive) String() string {
	tstring, xstring := commons.CreateDerivativeString(p.dorder.TOrder, p.dorder.XOrder)

	return tstring + xstring + p.cgp.String()
}

// Compare orders by CGP, then by ascending derivative order.
func (p LibraryPrimitive) Compare(other LibraryPrimitive) int {
	if c := p.cgp.Compare(other.cgp); c != 0 {
		return c
	}

	return p.dorder.Compare(other.dorder)
}

// Less reports whether p sorts before other.
func (p LibraryPrimitive) Less(other LibraryPrimitive) bool { return p.Compare(other) < 0 }

// Equal reports whether both the CGP and the derivative order match.
func (p LibraryPrimitive) Equal(other LibraryPrimitive) bool {
	return p.dorder == other.dorder && p.cgp.Equal(other.cgp)
}

// Dt returns the primitive with one more time derivative.
func (p LibraryPrimitive) Dt() LibraryPrimitive { return LibraryPrimitive{dorder: p.dorder.Dt(), cgp: p.cgp} }

// Dx returns the primitive with one more space derivative.
func (p LibraryPrimitive) Dx() LibraryPrimitive { return LibraryPrimitive{dorder: p.dorder.Dx(), cgp: p.cgp} }
