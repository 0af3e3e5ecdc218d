package commons

import (
	"strconv"
	"strings"
)

// indexLetters names abstract indices: 0 → i (the free index), 1 → j, …
// The letters o, t and v are skipped to keep them apart from 0, time and
// the default velocity field.
const indexLetters = "ijklmnpqrsuwyzabcdefgh"

// dimLetters names concrete spatial dimensions.
const dimLetters = "xyz"

// CanonicalizeIndices returns the substitution that renumbers the ids in
// flat by order of first appearance. Id 0 (the free index) is always mapped
// to itself; every other id is numbered from 1 upward.
//
// Complexity: O(len(flat)).
func CanonicalizeIndices(flat []int) map[int]int {
	subs := map[int]int{0: 0}
	next := 1
	for _, id := range flat {
		if _, ok := subs[id]; ok {
			continue
		}
		subs[id] = next
		next++
	}

	return subs
}

// NumToLet returns the display letter of abstract index id n. Ids beyond
// the alphabet get a numeric suffix.
func NumToLet(n int) string {
	if n >= 0 && n < len(indexLetters) {
		return indexLetters[n : n+1]
	}

	return "i" + strconv.Itoa(n)
}

// DimToLet returns the coordinate letter (x, y, z) of spatial dimension d.
func DimToLet(d int) string {
	if d >= 0 && d < len(dimLetters) {
		return dimLetters[d : d+1]
	}

	return "x" + strconv.Itoa(d)
}

// Compress collapses runs of equal adjacent letters into powers:
// [j j k] → [j^2 k].
func Compress(letters []string) []string {
	out := make([]string, 0, len(letters))
	for i := 0; i < len(letters); {
		j := i
		for j < len(letters) && letters[j] == letters[i] {
			j++
		}
		if reps := j - i; reps > 1 {
			out = append(out, letters[i]+"^"+strconv.Itoa(reps))
		} else {
			out = append(out, letters[i])
		}
		i = j
	}

	return out
}

// CreateDerivativeString renders the time and space derivative prefixes of
// a factor, each with a trailing space when present: (2, 1) → ("dt^2 ", "dx ").
func CreateDerivativeString(torder, xorder int) (tstring, xstring string) {
	return derivativeString("t", torder), derivativeString("x", xorder)
}

func derivativeString(variable string, order int) string {
	switch {
	case order <= 0:
		return ""
	case order == 1:
		return "d" + variable + " "
	default:
		var sb strings.Builder
		sb.WriteString("d")
		sb.WriteString(variable)
		sb.WriteString("^")
		sb.WriteString(strconv.Itoa(order))
		sb.WriteString(" ")
		return sb.String()
	}
}
