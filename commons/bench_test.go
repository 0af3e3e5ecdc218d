package commons_test

import (
	"testing"

	"github.com/katalvlaran/spider/commons"
)

// BenchmarkListLabels walks every contraction pattern of a wide tensor.
func BenchmarkListLabels(b *testing.B) {
	sizes := []int{1, 2, 2, 1, 0, 2}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range commons.ListLabels(sizes) {
		}
	}
}

// BenchmarkPartition splits a budget of 8 over 5 slots.
func BenchmarkPartition(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := commons.Partition(8, 5); err != nil {
			b.Fatalf("Partition failed: %v", err)
		}
	}
}

// BenchmarkDistinctPermutations permutes a multiset with repeats.
func BenchmarkDistinctPermutations(b *testing.B) {
	xs := []int{1, 1, 2, 2, 3, 4}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for range commons.DistinctPermutations(xs) {
		}
	}
}
