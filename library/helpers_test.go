package library_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spider/commons"
	"github.com/katalvlaran/spider/library"
)

// Shared fixtures. rho and v are the default fields; w is a second vector.
var (
	rho = library.Rho
	v   = library.V
	w   = commons.MustObservable("w", 1)
)

// prim builds a primitive with torder time and xorder space derivatives.
func prim(torder, xorder int, obs ...commons.Observable) library.LibraryPrimitive {
	return library.NewLibraryPrimitive(
		commons.DerivativeOrder{TOrder: torder, XOrder: xorder},
		library.NewCoarseGrainedPrimitive(obs...),
	)
}

// term builds a validated term over factors with the given interleaved index.
func term(t testing.TB, index [][]int, factors ...library.LibraryPrimitive) *library.LibraryTerm {
	t.Helper()
	lt, err := library.NewLibraryTerm(library.NewLibraryTensor(factors...), index)
	require.NoError(t, err)

	return lt
}

// strs renders elements for compact assertions.
func strs[E interface{ String() string }](xs []E) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.String()
	}

	return out
}
