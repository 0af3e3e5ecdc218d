package library_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spider/commons"
	"github.com/katalvlaran/spider/library"
)

// ------------------------------------------------------------------------
// 1. Construction and views
// ------------------------------------------------------------------------

func TestNewLibraryTerm_Validation(t *testing.T) {
	tensor := library.NewLibraryTensor(prim(0, 1, v))

	_, err := library.NewLibraryTerm(library.NewLibraryTensor(), nil)
	assert.ErrorIs(t, err, library.ErrEmptyTerm)

	tests := []struct {
		name  string
		index [][]int
	}{
		{"bin count", [][]int{{1}}},
		{"bin size", [][]int{{1, 1}, {}}},
		{"id used three times", [][]int{{1}, {1}, {}, {1}}},
		{"two free ids", [][]int{{1}, {2}}},
		{"negative id", [][]int{{-1}, {-1}}},
		{"contracted id 0", [][]int{{0}, {0}}},
		{"free id not 0", [][]int{{}, {5}}},
		{"free id not 0 beside a pair", [][]int{{3}, {4}, {}, {3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tn := tensor
			switch {
			case len(tc.index) == 4:
				tn = library.NewLibraryTensor(prim(0, 1, v), prim(0, 0, v))
			case len(tc.index[0]) == 0:
				tn = library.NewLibraryTensor(prim(0, 0, v))
			}
			_, err := library.NewLibraryTerm(tn, tc.index)
			assert.ErrorIs(t, err, library.ErrBadIndexList)
		})
	}

	lt, err := library.NewLibraryTerm(tensor, [][]int{{1}, {1}})
	require.NoError(t, err)
	assert.Equal(t, "dj rho[v_j]", lt.String())
	assert.Equal(t, 0, lt.Rank())
	assert.InDelta(t, 3.0, lt.Complexity(), 1e-12)
	assert.False(t, lt.IsCanonical(), "flag is only set by Canonicalize")
}

func TestLibraryTerm_Views(t *testing.T) {
	lt := term(t, [][]int{{0}, {1}, {}, {1}}, prim(0, 1, v), prim(1, 0, v))

	assert.Equal(t, "di rho[v_j] * dt rho[v_j]", lt.String())
	assert.Equal(t, 1, lt.Rank())
	assert.Equal(t, [][]int{{0}, {}}, lt.DerIndexList())
	assert.Equal(t, [][]int{{1}, {1}}, lt.ObsIndexList())
	assert.Equal(t, commons.Labels{
		0: {{Bin: 0, Pos: 0}},
		1: {{Bin: 1, Pos: 0}, {Bin: 3, Pos: 0}},
	}, lt.Labels())

	// accessors hand out copies
	idx := lt.IndexList()
	idx[1][0] = 9
	assert.Equal(t, [][]int{{0}, {1}, {}, {1}}, lt.IndexList())

	again, err := library.NewLibraryTermFromLabels(lt.Tensor(), lt.Labels())
	require.NoError(t, err)
	assert.True(t, again.Equal(lt))
	assert.Equal(t, lt.Key(), again.Key())
}

func TestLibraryTerm_StringForms(t *testing.T) {
	tests := []struct {
		want string
		lt   *library.LibraryTerm
	}{
		{"rho", term(t, [][]int{{}, {}}, prim(0, 0))},
		{"di rho", term(t, [][]int{{0}, {}}, prim(0, 1))},
		{"dj^2 rho[v_i]", term(t, [][]int{{1, 1}, {0}}, prim(0, 2, v))},
		{"dt^2 rho[v_j * v_j]", term(t, [][]int{{}, {1, 1}}, prim(2, 0, v, v))},
		{"rho[rho * v_i]", term(t, [][]int{{}, {0}}, prim(0, 0, rho, v))},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.lt.String())
	}
}

func TestLibraryTerm_IncrementIndices(t *testing.T) {
	lt := term(t, [][]int{{0}, {1}, {}, {1}}, prim(0, 1, v), prim(0, 0, v))
	up := lt.IncrementIndices(2)
	assert.Equal(t, [][]int{{2}, {3}, {}, {3}}, up.IndexList())
	assert.Equal(t, [][]int{{0}, {1}, {}, {1}}, lt.IndexList())
}

// ------------------------------------------------------------------------
// 2. Canonicalization
// ------------------------------------------------------------------------

func TestCanonicalize_Renumbers(t *testing.T) {
	lt := term(t, [][]int{{}, {2}, {}, {2}}, prim(0, 0, v), prim(0, 0, v))
	canon := lt.Canonicalize(nil)

	assert.Equal(t, "rho[v_j] * rho[v_j]", canon.String())
	assert.Equal(t, [][]int{{}, {1}, {}, {1}}, canon.IndexList())
	assert.True(t, canon.IsCanonical())
	assert.False(t, lt.IsCanonical())

	// a term that already is its canonical form reports so
	same := term(t, [][]int{{}, {1}, {}, {1}}, prim(0, 0, v), prim(0, 0, v))
	assert.True(t, same.Canonicalize(nil).Equal(same))
	assert.True(t, same.IsCanonical())
}

func TestCanonicalize_SortsFactorsAndBins(t *testing.T) {
	lt := term(t, [][]int{{2, 1}, {0}, {}, {2}, {}, {1}},
		prim(0, 2, v), prim(1, 0, w), prim(0, 0, rho, w))

	s := lt.StructureCanonicalize()
	assert.Equal(t, "rho[rho * w_j] * dk dj rho[v_i] * dt rho[w_k]", s.String())

	canon := lt.Canonicalize(library.NewCache())
	assert.Equal(t, "rho[rho * w_j] * dj dk rho[v_i] * dt rho[w_k]", canon.String())
}

func TestCanonicalize_InterchangeableFactors(t *testing.T) {
	// dj rho[v_k] * rho[v_j] * rho[v_k], written with the two plain
	// factors in both orders and two numberings
	variants := []*library.LibraryTerm{
		term(t, [][]int{{1}, {2}, {}, {1}, {}, {2}}, prim(0, 1, v), prim(0, 0, v), prim(0, 0, v)),
		term(t, [][]int{{1}, {2}, {}, {2}, {}, {1}}, prim(0, 1, v), prim(0, 0, v), prim(0, 0, v)),
		term(t, [][]int{{}, {3}, {7}, {3}, {}, {7}}, prim(0, 0, v), prim(0, 1, v), prim(0, 0, v)),
	}
	want := variants[0].Canonicalize(nil)
	for _, lt := range variants {
		assert.Equal(t, want.Key(), lt.Canonicalize(nil).Key(), lt.String())
	}
}

func TestCanonicalize_CommutingSlots(t *testing.T) {
	// dj dj dk rho[v_k], with the derivative ids in every order
	ders := []*library.LibraryTerm{
		term(t, [][]int{{1, 1, 2}, {2}}, prim(0, 3, v)),
		term(t, [][]int{{1, 2, 1}, {2}}, prim(0, 3, v)),
		term(t, [][]int{{2, 1, 1}, {2}}, prim(0, 3, v)),
		term(t, [][]int{{1, 2, 2}, {1}}, prim(0, 3, v)),
	}
	cache := library.NewCache()
	for _, lt := range ders {
		assert.Equal(t, "dj dk^2 rho[v_j]", lt.Canonicalize(nil).String(), lt.String())
		assert.Equal(t, "dj dk^2 rho[v_j]", lt.Canonicalize(cache).String(), lt.String())
	}

	// dj rho[v_j * v_k] * dk rho[rho], with the equal observables swapped
	obs := []*library.LibraryTerm{
		term(t, [][]int{{2}, {}, {1}, {1, 2}}, prim(0, 1, rho), prim(0, 1, v, v)),
		term(t, [][]int{{2}, {}, {1}, {2, 1}}, prim(0, 1, rho), prim(0, 1, v, v)),
		term(t, [][]int{{1}, {}, {2}, {1, 2}}, prim(0, 1, rho), prim(0, 1, v, v)),
	}
	want := obs[0].Canonicalize(nil)
	for _, lt := range obs {
		assert.Equal(t, want.Key(), lt.Canonicalize(nil).Key(), lt.String())
		assert.Equal(t, want.Key(), lt.Canonicalize(cache).Key(), lt.String())
	}
}

func TestCanonicalize_CacheIsPureMemo(t *testing.T) {
	terms, err := library.GenerateTermsTo(4, library.WithCache(nil))
	require.NoError(t, err)

	cache := library.NewCache()
	for _, el := range terms[1:] {
		lt := el.(*library.LibraryTerm)
		assert.Equal(t, lt.Canonicalize(nil).Key(), lt.Canonicalize(cache).Key(), lt.String())
	}
	hits, misses := cache.Stats()
	assert.Equal(t, int64(len(terms)-1), hits+misses)
}

func TestCanonicalize_Idempotent(t *testing.T) {
	g := library.NewGenerator()
	terms, err := g.TermsTo(4)
	require.NoError(t, err)

	for _, el := range terms[1:] {
		lt := el.(*library.LibraryTerm)
		assert.True(t, lt.IsCanonical(), lt.String())
		assert.True(t, lt.Canonicalize(g.Cache()).Equal(lt), lt.String())
		assert.True(t, lt.Canonicalize(nil).Equal(lt), lt.String())
	}
}

// TestCanonicalize_StableUnderSymmetry relabels dummy ids and shuffles
// factors at random; the canonical form must not move.
func TestCanonicalize_StableUnderSymmetry(t *testing.T) {
	terms, err := library.GenerateTermsTo(4)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(11))

	for _, el := range terms[1:] {
		lt := el.(*library.LibraryTerm)
		want := lt.Canonicalize(nil).Key()
		for trial := 0; trial < 5; trial++ {
			// random relabelling of the dummy ids
			maxID := 0
			for id := range lt.Labels() {
				maxID = max(maxID, id)
			}
			perm := rng.Perm(maxID)
			index := lt.IndexList()
			for _, bin := range index {
				for i, id := range bin {
					if id != 0 {
						bin[i] = perm[id-1] + 10
					}
				}
			}

			// random factor order, bins carried along
			order := rng.Perm(lt.Tensor().Len())
			factors := make([]library.LibraryPrimitive, len(order))
			shuffled := make([][]int, 0, len(index))
			for k, i := range order {
				factors[k] = lt.Tensor().Factor(i)
				shuffled = append(shuffled, index[2*i], index[2*i+1])
			}

			moved, err := library.NewLibraryTerm(library.NewLibraryTensor(factors...), shuffled)
			require.NoError(t, err)
			assert.Equal(t, want, moved.Canonicalize(nil).Key(), "%s from %s", moved, lt)
		}
	}
}

// ------------------------------------------------------------------------
// 3. Differentiation and products
// ------------------------------------------------------------------------

func TestLibraryTerm_Dx(t *testing.T) {
	vec := term(t, [][]int{{}, {0}}, prim(0, 0, v))
	assert.Equal(t, "1 * dj rho[v_j]", vec.Dx(nil).String())

	scalar := term(t, [][]int{{}, {}}, prim(0, 0, rho))
	assert.Equal(t, "1 * di rho[rho]", scalar.Dx(nil).String())

	// product rule over two identical factors merges into one term
	dot := term(t, [][]int{{}, {1}, {}, {1}}, prim(0, 0, v), prim(0, 0, v))
	assert.Equal(t, "2 * rho[v_j] * di rho[v_j]", dot.Dx(nil).String())
}

func TestLibraryTerm_Dt(t *testing.T) {
	dot := term(t, [][]int{{}, {1}, {}, {1}}, prim(0, 0, v), prim(0, 0, v))
	assert.Equal(t, "2 * rho[v_j] * dt rho[v_j]", dot.Dt(nil).String())

	mixed := term(t, [][]int{{}, {}, {}, {0}}, prim(0, 0, rho), prim(0, 0, v))
	assert.Equal(t, "1 * dt rho[rho] * rho[v_i] + 1 * rho[rho] * dt rho[v_i]", mixed.Dt(nil).String())
}

func TestMul(t *testing.T) {
	vec := term(t, [][]int{{}, {0}}, prim(0, 0, v))
	scalar := term(t, [][]int{{}, {}}, prim(0, 0, rho))
	cache := library.NewCache()

	dot, err := vec.Mul(vec, cache)
	require.NoError(t, err)
	assert.Equal(t, "rho[v_j] * rho[v_j]", dot.String())
	assert.Equal(t, 0, dot.Rank())

	scaled, err := scalar.Mul(vec, cache)
	require.NoError(t, err)
	assert.Equal(t, "rho[rho] * rho[v_i]", scaled.String())
	assert.Equal(t, 1, scaled.Rank())

	// contracting a vector that already carries a dummy pair
	grad := term(t, [][]int{{0}, {1, 1}}, prim(0, 1, v, v))
	prod, err := library.Mul(grad, vec, cache)
	require.NoError(t, err)
	assert.Equal(t, "rho[v_j] * dj rho[v_k * v_k]", prod.String())

	one, err := library.Mul(library.ConstantTerm{}, vec, cache)
	require.NoError(t, err)
	assert.Same(t, vec, one)
	one, err = vec.Mul(library.ConstantTerm{}, cache)
	require.NoError(t, err)
	assert.Same(t, vec, one)
}

func TestMul_Sums(t *testing.T) {
	a := term(t, [][]int{{}, {}}, prim(0, 0, rho))
	b := term(t, [][]int{{}, {0}}, prim(0, 0, v))

	eq, err := library.NewEquation([]library.Term{a, b}, []float64{2, 3})
	require.NoError(t, err)
	got, err := library.Mul(eq, b, nil)
	require.NoError(t, err)
	assert.Equal(t, "2 * rho[rho] * rho[v_i] + 3 * rho[v_j] * rho[v_j]", got.String())

	sum := library.NewTermSum(a, b)
	got, err = library.Mul(b, sum, nil)
	require.NoError(t, err)
	assert.IsType(t, &library.Equation{}, got)

	_, err = library.Mul(sum, eq, nil)
	assert.ErrorIs(t, err, library.ErrTypeMismatch)
	_, err = library.Mul(nil, a, nil)
	assert.ErrorIs(t, err, library.ErrTypeMismatch)
	_, err = library.Mul(library.NewTermSum(), a, nil)
	assert.ErrorIs(t, err, library.ErrEmptyEquation)
}

func TestAdd(t *testing.T) {
	a := term(t, [][]int{{}, {}}, prim(0, 0, rho))
	b := term(t, [][]int{{}, {1, 1}}, prim(0, 0, v, v))

	s, err := b.Add(a)
	require.NoError(t, err)
	require.IsType(t, &library.TermSum{}, s)
	assert.Equal(t, "rho[rho] + rho[v_j * v_j]", s.String())

	s2, err := s.(*library.TermSum).Add(library.ConstantTerm{})
	require.NoError(t, err)
	assert.Equal(t, "1 + rho[rho] + rho[v_j * v_j]", s2.String())

	eq, err := library.NewEquation([]library.Term{a}, []float64{-1})
	require.NoError(t, err)
	e2, err := library.Add(s, eq)
	require.NoError(t, err)
	require.IsType(t, &library.Equation{}, e2)
	assert.Equal(t, "1 * rho[rho] + -1 * rho[rho] + 1 * rho[v_j * v_j]", e2.String())
	assert.Equal(t, "0 * rho[rho] + 1 * rho[v_j * v_j]", e2.(*library.Equation).Canonicalize().String())

	_, err = library.Add(a, nil)
	assert.ErrorIs(t, err, library.ErrTypeMismatch)

	assert.True(t, library.Equal(library.ConstantTerm{}, library.ConstantTerm{}))
	assert.False(t, library.Equal(a, library.ConstantTerm{}))
	assert.True(t, library.Equal(s, library.NewTermSum(a, b)))
	assert.True(t, slices.ContainsFunc([]library.Term{a, b}, func(x library.Term) bool { return library.Equal(x, b) }))
}
