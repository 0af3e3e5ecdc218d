package commons

import (
	"cmp"
	"fmt"
)

// Observable is a named physical field (density, velocity, …) with a tensor
// rank. It is an immutable value type, ordered by name and then by rank.
type Observable struct {
	// Name is the display name, e.g. "rho" or "v".
	Name string

	// Rank is 0 for a scalar field and 1 for a vector field.
	Rank int
}

// NewObservable validates and returns an Observable.
//
// Errors:
//   - ErrEmptyName       - name == "".
//   - ErrUnsupportedRank - rank ∉ {0, 1}.
func NewObservable(name string, rank int) (Observable, error) {
	if name == "" {
		return Observable{}, ErrEmptyName
	}
	if rank != 0 && rank != 1 {
		return Observable{}, commonsErrorf("NewObservable", "%q has rank %d", ErrUnsupportedRank, name, rank)
	}

	return Observable{Name: name, Rank: rank}, nil
}

// MustObservable is NewObservable for package-level fixtures; it panics on
// invalid input.
func MustObservable(name string, rank int) Observable {
	o, err := NewObservable(name, rank)
	if err != nil {
		panic(err)
	}

	return o
}

// String returns the observable name.
func (o Observable) String() string { return o.Name }

// Compare orders observables by name, then by rank.
func (o Observable) Compare(other Observable) int {
	if c := cmp.Compare(o.Name, other.Name); c != 0 {
		return c
	}

	return cmp.Compare(o.Rank, other.Rank)
}

// Less reports whether o sorts before other.
func (o Observable) Less(other Observable) bool { return o.Compare(other) < 0 }

// GoString is used by %#v in test failure output.
func (o Observable) GoString() string { return fmt.Sprintf("Observable(%s, %d)", o.Name, o.Rank) }
