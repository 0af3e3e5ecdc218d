package library

import (
	"slices"
	"strings"
)

// LibraryTensor is an unindexed product of library primitives, kept as an
// ordered sequence. Rank and complexity are additive over factors. The zero
// value is the empty product (the multiplicative identity).
type LibraryTensor struct {
	factors    []LibraryPrimitive
	rank       int
	complexity float64
}

// NewLibraryTensor builds the product of the given primitives in order.
func NewLibraryTensor(factors ...LibraryPrimitive) LibraryTensor {
	t := LibraryTensor{factors: slices.Clone(factors)}
	for _, f := range factors {
		t.rank += f.Rank()
		t.complexity += f.Complexity()
	}

	return t
}

// Factors returns a copy of the factor sequence.
func (t LibraryTensor) Factors() []LibraryPrimitive { return slices.Clone(t.factors) }

// Factor returns the i-th factor.
func (t LibraryTensor) Factor(i int) LibraryPrimitive { return t.factors[i] }

// Len is the number of factors.
func (t LibraryTensor) Len() int { return len(t.factors) }

// IsIdentity reports whether t is the empty product.
func (t LibraryTensor) IsIdentity() bool { return len(t.factors) == 0 }

// Rank is the total number of index slots.
func (t LibraryTensor) Rank() int { return t.rank }

// Complexity is the summed factor complexity.
func (t LibraryTensor) Complexity() float64 { return t.complexity }

// Mul concatenates the factors of t and other.
func (t LibraryTensor) Mul(other LibraryTensor) LibraryTensor {
	if t.IsIdentity() {
		return other
	}
	if other.IsIdentity() {
		return t
	}

	return NewLibraryTensor(slices.Concat(t.factors, other.factors)...)
}

// BinSizes returns the interleaved slot counts [xorder₀, cgprank₀, xorder₁, …].
func (t LibraryTensor) BinSizes() []int {
	sizes := make([]int, 0, 2*len(t.factors))
	for _, f := range t.factors {
		sizes = append(sizes, f.dorder.XOrder, f.cgp.rank)
	}

	return sizes
}

// Sorted returns the tensor with its factors stably sorted by primitive order.
func (t LibraryTensor) Sorted() LibraryTensor {
	if slices.IsSortedFunc(t.factors, LibraryPrimitive.Compare) {
		return t
	}
	factors := slices.Clone(t.factors)
	slices.SortStableFunc(factors, LibraryPrimitive.Compare)

	return NewLibraryTensor(factors...)
}

// withFactor returns a copy of t with factor i replaced by p.
func (t LibraryTensor) withFactor(i int, p LibraryPrimitive) LibraryTensor {
	factors := slices.Clone(t.factors)
	factors[i] = p

	return NewLibraryTensor(factors...)
}

// String renders the factors joined by " * ", or "1" for the empty product.
func (t LibraryTensor) String() string {
	if t.IsIdentity() {
		return "1"
	}
	parts := make([]string, len(t.factors))
	for i, f := range t.factors {
		parts[i] = f.String()
	}

	return strings.Join(parts, " * ")
}
