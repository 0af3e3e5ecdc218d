// Package commons provides the small value types and combinatorial helpers
// that the term library is built on.
//
// 🚀 What lives here?
//
//	The pieces every library term is assembled from, none of which know
//	anything about canonical forms:
//	  • Observable      - a named field of rank 0 (scalar) or 1 (vector)
//	  • DerivativeOrder - (time, space) derivative counts with a complexity
//	  • Partition       - every ordered split of n into k non-negative parts
//	  • CompList        - lexicographic budget comparator for the enumerator
//	  • Labels          - index id → slot occurrences, and the conversions to
//	                      and from per-bin index lists
//	  • ListLabels      - every contraction pattern over a row of bins
//	  • IsomorphicTemplates / DistinctPermutations - symmetry enumeration
//	  • NumToLet, DimToLet, Compress, CreateDerivativeString - display
//
// ✨ Conventions:
//
//   - Index lists are interleaved per factor: [der₀, obs₀, der₁, obs₁, …].
//     A factor's derivative bin holds its space-derivative indices, its
//     observable bin the indices carried by the observables inside ρ[…].
//   - Index id 0 is reserved for the free index of a vector-valued term;
//     contracted (dummy) pairs are numbered from 1.
//   - Every helper is pure and deterministic. Sequences are returned as
//     iter.Seq values: finite, lazily produced, restartable per call.
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/spider/commons"
//
//	for labels := range commons.ListLabels([]int{1, 1, 0, 1}) {
//	    index := commons.LabelsToIndexList(labels, 2)
//	    fmt.Println(index)
//	}
package commons
