package library_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/spider/commons"
	"github.com/katalvlaran/spider/library"
)

// descending, as the driver passes them
var obsDesc = []commons.Observable{v, rho}

func TestRawLibraryTensors(t *testing.T) {
	tests := []struct {
		name   string
		orders []int
		want   []string
	}{
		{"bare operator", []int{0, 0, 1, 0, 0}, []string{"rho"}},
		{"derivative on a field", []int{1, 0, 1, 0, 1}, []string{"dx rho[v]"}},
		{"mixed product", []int{1, 1, 1, 0, 0}, []string{"rho[rho * v]"}},
		{"two operators, two fields", []int{2, 0, 2, 0, 0}, []string{"rho[v] * rho[v]", "rho * rho[v * v]"}},
		{"derivative on a bare operator", []int{0, 0, 2, 0, 1}, []string{"rho * dx rho"}},
		{"no operator", []int{1, 0, 0, 0, 0}, nil},
		{"derivatives left over", []int{0, 0, 0, 1, 0}, nil},
		{"wrong length", []int{1, 1}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := strs(slices.Collect(library.RawLibraryTensors(obsDesc, tc.orders)))
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestRawLibraryTensors_BareOperatorDerivatives pins which placements of
// derivatives on a bare rho are enumerated.
func TestRawLibraryTensors_BareOperatorDerivatives(t *testing.T) {
	collect := func(orders ...int) []string {
		return strs(slices.Collect(library.RawLibraryTensors(obsDesc, orders)))
	}

	// next to a field, the field takes the derivatives
	assert.Equal(t, []string{"rho * dx rho[v]"}, collect(1, 0, 2, 0, 1))
	assert.Equal(t, []string{"rho * dt rho[v]"}, collect(1, 0, 2, 1, 0))

	// among bare operators, one takes them all
	assert.Equal(t, []string{"rho * dx^2 rho"}, collect(0, 0, 2, 0, 2))
	assert.Equal(t, []string{"rho * dt dx rho"}, collect(0, 0, 2, 1, 1))
}

func TestRawLibraryTensors_Properties(t *testing.T) {
	orders := []int{2, 1, 2, 1, 1}
	seen := make(map[string]bool)
	for tensor := range library.RawLibraryTensors(obsDesc, orders) {
		key := tensor.Sorted().String()
		assert.False(t, seen[key], "tensor %s produced twice", key)
		seen[key] = true

		// every factor carries its observables in ascending order and the
		// whole budget is spent
		spent := make([]int, len(orders))
		for _, f := range tensor.Factors() {
			obs := f.CGP().ObsList()
			assert.True(t, slices.IsSortedFunc(obs, commons.Observable.Compare))
			for _, o := range obs {
				spent[slices.Index(obsDesc, o)]++
			}
			spent[2]++
			spent[3] += f.DOrder().TOrder
			spent[4] += f.DOrder().XOrder
		}
		assert.Equal(t, orders, spent)
	}
	assert.NotEmpty(t, seen)

	// restartable and stoppable
	a := slices.Collect(library.RawLibraryTensors(obsDesc, orders))
	b := slices.Collect(library.RawLibraryTensors(obsDesc, orders))
	assert.Equal(t, strs(a), strs(b))
	for range library.RawLibraryTensors(obsDesc, orders) {
		break
	}
}

func TestGetValidReorderings(t *testing.T) {
	vv := []library.LibraryPrimitive{prim(0, 0, v, v)}
	got := slices.Collect(library.GetValidReorderings(vv, [][]int{{2, 1}}))
	assert.Equal(t, [][][]int{{{1, 2}}}, got)

	vw := []library.LibraryPrimitive{prim(0, 0, v, w)}
	got = slices.Collect(library.GetValidReorderings(vw, [][]int{{2, 1}}))
	assert.Equal(t, [][][]int{{{1, 2}}, {{2, 1}}}, got)

	two := []library.LibraryPrimitive{prim(0, 0), prim(0, 0, v)}
	got = slices.Collect(library.GetValidReorderings(two, [][]int{{}, {0}}))
	assert.Equal(t, [][][]int{{{}, {0}}}, got)

	assert.Empty(t, slices.Collect(library.GetValidReorderings(two, [][]int{{}})))
}

func TestGetLibraryTerms(t *testing.T) {
	tensor := library.NewLibraryTensor(prim(0, 1, v, w))
	terms := slices.Collect(library.GetLibraryTerms(tensor, [][]int{{0}, {1, 1}}))
	assert.Equal(t, []string{"di rho[v_j * w_j]"}, strs(terms))

	terms = slices.Collect(library.GetLibraryTerms(tensor, [][]int{{1}, {0, 1}}))
	assert.Equal(t, []string{"dj rho[v_i * w_j]", "dj rho[v_j * w_i]"}, strs(terms))

	assert.Empty(t, slices.Collect(library.GetLibraryTerms(tensor, [][]int{{1}, {2, 3}})))
}

func TestListLabels_OfTensor(t *testing.T) {
	tensor := library.NewLibraryTensor(prim(0, 1, v, v))
	var idx [][][]int
	for labels := range library.ListLabels(tensor) {
		idx = append(idx, commons.LabelsToIndexList(labels, tensor.Len()))
	}
	assert.Equal(t, [][][]int{{{0}, {1, 1}}, {{1}, {0, 1}}}, idx)
}
