package library

import "fmt"

// Element is anything that can appear in a linear combination: the closed
// set *LibraryTerm, ConstantTerm, *Equation and *TermSum. The set is sealed
// by an unexported method; Add, Mul and Equal dispatch over it exhaustively.
type Element interface {
	fmt.Stringer

	// Rank is 0 for scalars and 1 for vectors.
	Rank() int

	// Complexity is the enumeration cost (summed over members for sums).
	Complexity() float64

	// Dt and Dx differentiate by the product rule and canonicalize the
	// result. They return nil when there is no derivative content.
	Dt(c *Cache) *Equation
	Dx(c *Cache) *Equation

	element()
}

// Term is a single basis element: a *LibraryTerm or the ConstantTerm.
type Term interface {
	Element
	term()
}

// ConstantTerm is the multiplicative identity "1": no factors, rank 0,
// complexity 0. It absorbs under multiplication and has no derivative.
type ConstantTerm struct{}

func (ConstantTerm) element() {}
func (ConstantTerm) term()    {}

// String returns "1".
func (ConstantTerm) String() string { return "1" }

// Rank is 0.
func (ConstantTerm) Rank() int { return 0 }

// Complexity is 0.
func (ConstantTerm) Complexity() float64 { return 0 }

// IsCanonical is always true.
func (ConstantTerm) IsCanonical() bool { return true }

// Dt returns nil.
func (ConstantTerm) Dt(*Cache) *Equation { return nil }

// Dx returns nil.
func (ConstantTerm) Dx(*Cache) *Equation { return nil }

// Add returns the formal sum 1 + other.
func (k ConstantTerm) Add(other Element) (Element, error) { return Add(k, other) }

// Mul returns other unchanged.
func (k ConstantTerm) Mul(other Element, c *Cache) (Element, error) { return Mul(k, other, c) }

// Add returns the formal sum a + b:
//
//	Term     + Term     → *TermSum
//	Term     + *TermSum → *TermSum (and symmetrically)
//	*TermSum + *TermSum → *TermSum
//	anything + *Equation, *Equation + anything → *Equation (unit coefficients
//	for terms and term sums)
//
// Errors:
//   - ErrTypeMismatch - either operand is nil.
func Add(a, b Element) (Element, error) {
	if a == nil || b == nil {
		return nil, libraryErrorf("Add", "%T + %T", ErrTypeMismatch, a, b)
	}
	ea, aIsEq := a.(*Equation)
	eb, bIsEq := b.(*Equation)
	if aIsEq || bIsEq {
		if !aIsEq {
			ea = asEquation(a)
		}
		if !bIsEq {
			eb = asEquation(b)
		}
		return ea.Add(eb), nil
	}

	return NewTermSum(append(sumMembers(a), sumMembers(b)...)...), nil
}

// Mul multiplies a by b, canonicalizing every resulting term:
//
//	ConstantTerm  × x            → x (either side)
//	*LibraryTerm  × *LibraryTerm → *LibraryTerm
//	*Equation     × Term         → *Equation (member-wise, either side)
//	*TermSum      × Term         → *Equation (member-wise, either side)
//
// Errors:
//   - ErrTypeMismatch - nil operands, or a product of two sums.
func Mul(a, b Element, c *Cache) (Element, error) {
	if a == nil || b == nil {
		return nil, libraryErrorf("Mul", "%T × %T", ErrTypeMismatch, a, b)
	}
	if _, ok := a.(ConstantTerm); ok {
		return b, nil
	}
	if _, ok := b.(ConstantTerm); ok {
		return a, nil
	}
	ta, aIsTerm := a.(Term)
	tb, bIsTerm := b.(Term)
	switch {
	case aIsTerm && bIsTerm:
		return mulTerms(ta, tb, c), nil
	case aIsTerm:
		a, tb = b, ta
		fallthrough
	case bIsTerm:
		eq := asEquation(a)
		if eq == nil {
			return nil, libraryErrorf("Mul", "%T has no terms", ErrEmptyEquation, a)
		}
		return eq.mulTerm(tb, c), nil
	}

	return nil, libraryErrorf("Mul", "%T × %T", ErrTypeMismatch, a, b)
}

// mulTerms multiplies two terms; ConstantTerm is absorbed.
func mulTerms(a, b Term, c *Cache) Term {
	la, aok := a.(*LibraryTerm)
	lb, bok := b.(*LibraryTerm)
	switch {
	case aok && bok:
		return la.mulTerm(lb, c)
	case aok:
		return la
	case bok:
		return lb
	}

	return ConstantTerm{}
}

// Equal reports strict equality within one variant; different variants are
// never equal.
func Equal(a, b Element) bool {
	switch x := a.(type) {
	case ConstantTerm:
		_, ok := b.(ConstantTerm)
		return ok
	case *LibraryTerm:
		y, ok := b.(*LibraryTerm)
		return ok && x.Equal(y)
	case *Equation:
		y, ok := b.(*Equation)
		return ok && x.Equal(y)
	case *TermSum:
		y, ok := b.(*TermSum)
		return ok && x.Equal(y)
	}

	return false
}

// termsEqual is Equal restricted to terms.
func termsEqual(a, b Term) bool { return Equal(a, b) }

// compareTerms orders terms by their string form.
func compareTerms(a, b Term) int {
	sa, sb := a.String(), b.String()
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}

	return 0
}

// sumMembers flattens a term or term sum into its terms.
func sumMembers(e Element) []Term {
	switch x := e.(type) {
	case *TermSum:
		return x.Terms()
	case Term:
		return []Term{x}
	}

	return nil
}

// asEquation views any element as an equation with unit coefficients where
// none are given.
func asEquation(e Element) *Equation {
	switch x := e.(type) {
	case *Equation:
		return x
	case *TermSum:
		return x.Equation()
	case Term:
		return newEquation([]Term{x}, []float64{1})
	}

	return nil
}
