// Package library enumerates and canonicalizes library terms: the tensor
// monomials (scalars and vectors) over a set of observables, their
// coarse-grained products and derivatives that make up the candidate basis
// of a sparse-regression PDE search.
//
// 🚀 Layers, leaves first:
//
//	– CoarseGrainedPrimitive, LibraryPrimitive: one derivative-decorated
//	  factor ρ[obs₁·obs₂·…].
//	– LibraryTensor: an unindexed product of factors.
//	– LibraryTerm: a tensor with an explicit contraction pattern, plus
//	  Canonicalize, the reduction to a unique representative under factor
//	  reordering and dummy-index relabelling.
//	– IndexedPrimitive, IndexedTerm: a term realized in coordinates.
//	– RawLibraryTensors, GetValidReorderings, GetLibraryTerms, Generator:
//	  exhaustive, duplicate-free enumeration under a complexity budget.
//	– Equation, TermSum: linear combinations, differentiation and
//	  elimination of the most complex term.
//
// ✨ Variants:
//
//	*LibraryTerm, ConstantTerm, *Equation and *TermSum form a closed set
//	behind Element. Add, Mul and Equal dispatch over it.
//
// ⚙️ Cache:
//
//	Canonical forms are memoized in a *Cache owned by the caller (one per
//	Generator by default). A nil cache is valid and only costs time.
//
// Known gap:
//
//	RawLibraryTensors hands all derivatives left after the last
//	observable-carrying factor to that factor, so a differentiated bare
//	rho only appears in tensors with no observables at all, and then as
//	the single differentiated factor. dx rho * rho[v] and dx rho * dx rho
//	are never enumerated, although Dx and Mul can produce them.
//
// Quick start:
//
//	terms, err := library.GenerateTermsTo(3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range terms {
//	    fmt.Println(t)
//	}
package library
