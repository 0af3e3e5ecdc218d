// Package spider builds candidate term libraries for sparse-regression
// discovery of partial differential equations.
//
// 🚀 What is spider?
//
//	Given a set of fields (scalars and vectors), a coarse-graining operator
//	rho[·] and a complexity budget, spider enumerates every algebraically
//	distinct scalar and vector monomial: products of coarse-grained fields
//	carrying space and time derivatives, with all tensor indices either
//	contracted or left as a single free index. Each term is reduced to one
//	canonical representative, so the library has no duplicates up to
//	relabelling of dummy indices and reordering of identical factors.
//
// ✨ Why use it?
//
//   - Exhaustive – every term under the budget, nothing twice
//   - Deterministic – same input, same library, same order, any worker count
//   - Composable – terms multiply, differentiate and combine into equations
//   - Pure Go – small, documented dependency set
//
// Packages:
//
//	commons/  - observables, derivative orders, partitions, index labels and
//	            the combinatorial helpers behind enumeration
//	library/  - primitives, tensors, terms, canonicalization, the generator,
//	            equations and coordinate realization
//	config/   - YAML run descriptions validated into generator options
//	examples/ - runnable programs
//
// Quick example:
//
//	terms, _ := library.GenerateTermsTo(2)
//	// 1, rho, rho[rho], rho[v_i]
//
//	go get github.com/katalvlaran/spider
package spider
