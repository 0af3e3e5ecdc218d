package library

import (
	"slices"
	"strconv"
	"strings"
)

// Equation is a linear combination Σ cᵢ·termᵢ, read either as an expression
// or as the equation expression = 0. Terms are kept sorted by string form,
// which fixes the display and comparison order. Rank and complexity are
// derived from the members; mixing ranks is the caller's responsibility.
type Equation struct {
	terms  []Term
	coeffs []float64
}

// NewEquation pairs terms with coefficients and sorts the pairs by term.
//
// Errors:
//   - ErrLengthMismatch - len(terms) != len(coeffs).
//   - ErrEmptyEquation  - no terms.
func NewEquation(terms []Term, coeffs []float64) (*Equation, error) {
	if len(terms) != len(coeffs) {
		return nil, libraryErrorf("NewEquation", "%d terms, %d coefficients", ErrLengthMismatch, len(terms), len(coeffs))
	}
	if len(terms) == 0 {
		return nil, ErrEmptyEquation
	}

	return newEquation(slices.Clone(terms), slices.Clone(coeffs)), nil
}

// newEquation sorts owned, length-checked slices in place.
func newEquation(terms []Term, coeffs []float64) *Equation {
	order := make([]int, len(terms))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return compareTerms(terms[a], terms[b]) })
	e := &Equation{terms: make([]Term, len(terms)), coeffs: make([]float64, len(terms))}
	for k, i := range order {
		e.terms[k] = terms[i]
		e.coeffs[k] = coeffs[i]
	}

	return e
}

func (*Equation) element() {}

// Terms returns a copy of the sorted term list.
func (e *Equation) Terms() []Term { return slices.Clone(e.terms) }

// Coeffs returns a copy of the coefficients, parallel to Terms.
func (e *Equation) Coeffs() []float64 { return slices.Clone(e.coeffs) }

// Len is the number of (term, coefficient) pairs; 0 for a nil equation.
func (e *Equation) Len() int {
	if e == nil {
		return 0
	}

	return len(e.terms)
}

// Rank is the rank of the first term, or 0 when there is none.
func (e *Equation) Rank() int {
	if e.Len() == 0 {
		return 0
	}

	return e.terms[0].Rank()
}

// Complexity sums the term complexities.
func (e *Equation) Complexity() float64 {
	total := 0.0
	for _, t := range e.terms {
		total += t.Complexity()
	}

	return total
}

// String renders the expression "c₁ * term₁ + c₂ * term₂".
func (e *Equation) String() string {
	parts := make([]string, len(e.terms))
	for i, t := range e.terms {
		parts[i] = formatCoeff(e.coeffs[i]) + " * " + t.String()
	}

	return strings.Join(parts, " + ")
}

// Format renders the equation "… = 0".
func (e *Equation) Format() string { return e.String() + " = 0" }

// Equal reports identical term lists and coefficients.
func (e *Equation) Equal(other *Equation) bool {
	if other == nil {
		return false
	}

	return slices.EqualFunc(e.terms, other.terms, termsEqual) && slices.Equal(e.coeffs, other.coeffs)
}

// Add concatenates two equations without merging like terms. Either side
// may be nil.
func (e *Equation) Add(other *Equation) *Equation {
	switch {
	case e == nil:
		return other
	case other == nil:
		return e
	}

	return newEquation(slices.Concat(e.terms, other.terms), slices.Concat(e.coeffs, other.coeffs))
}

// Scale multiplies every coefficient by k.
func (e *Equation) Scale(k float64) *Equation {
	if e == nil {
		return nil
	}
	coeffs := make([]float64, len(e.coeffs))
	for i, c := range e.coeffs {
		coeffs[i] = k * c
	}

	return &Equation{terms: slices.Clone(e.terms), coeffs: coeffs}
}

// mulTerm multiplies every member by t, canonicalizing each product.
func (e *Equation) mulTerm(t Term, c *Cache) *Equation {
	terms := make([]Term, len(e.terms))
	for i, m := range e.terms {
		terms[i] = mulTerms(m, t, c)
	}

	return newEquation(terms, slices.Clone(e.coeffs))
}

// Canonicalize merges runs of equal adjacent terms by summing their
// coefficients. Terms must already be canonical for equal terms to meet;
// the merge relies on the sorted order rather than hashing.
func (e *Equation) Canonicalize() *Equation {
	if e == nil || len(e.terms) == 0 {
		return e
	}
	var (
		terms  []Term
		coeffs []float64
	)
	for i := 0; i < len(e.terms); {
		prev := e.terms[i]
		sum := 0.0
		for i < len(e.terms) && termsEqual(prev, e.terms[i]) {
			sum += e.coeffs[i]
			i++
		}
		terms = append(terms, prev)
		coeffs = append(coeffs, sum)
	}

	return newEquation(terms, coeffs)
}

// Dt differentiates every non-constant term in time, scales by its
// coefficient, sums and merges. It returns nil when every term is constant.
func (e *Equation) Dt(c *Cache) *Equation {
	return e.differentiate(func(t Term) *Equation { return t.Dt(c) })
}

// Dx is Dt for a space derivative.
func (e *Equation) Dx(c *Cache) *Equation {
	return e.differentiate(func(t Term) *Equation { return t.Dx(c) })
}

func (e *Equation) differentiate(d func(Term) *Equation) *Equation {
	if e == nil {
		return nil
	}
	var acc *Equation
	for i, t := range e.terms {
		if _, ok := t.(ConstantTerm); ok {
			continue
		}
		acc = acc.Add(d(t).Scale(e.coeffs[i]))
	}

	return acc.Canonicalize()
}

// EliminateComplexTerm splits off the most complex term (the first one on
// ties) as a left-hand side and returns the remaining terms normalized so
// that lhs = rhs: coefficients negated and divided by the eliminated term's
// coefficient, which is returned as norm. A single-term equation returns its
// term with a nil rhs; a nil or empty equation returns nil, nil, 0.
func (e *Equation) EliminateComplexTerm() (lhs Term, rhs *Equation, norm float64) {
	switch e.Len() {
	case 0:
		return nil, nil, 0
	case 1:
		return e.terms[0], nil, e.coeffs[0]
	}
	best := 0
	for i, t := range e.terms {
		if t.Complexity() > e.terms[best].Complexity() {
			best = i
		}
	}
	norm = e.coeffs[best]
	terms := make([]Term, 0, len(e.terms)-1)
	coeffs := make([]float64, 0, len(e.terms)-1)
	for i, t := range e.terms {
		if i == best {
			continue
		}
		terms = append(terms, t)
		coeffs = append(coeffs, -e.coeffs[i]/norm)
	}

	return e.terms[best], newEquation(terms, coeffs), norm
}

// ToTerm returns the only term of a single-term equation.
//
// Errors:
//   - ErrNotSingleTerm - the equation holds more than one term.
func (e *Equation) ToTerm() (Term, error) {
	if len(e.terms) != 1 {
		return nil, libraryErrorf("ToTerm", "%d terms", ErrNotSingleTerm, len(e.terms))
	}

	return e.terms[0], nil
}

// TermSum is a sum of terms with unit coefficients, the intermediate form of
// a product-rule expansion before like terms are merged.
type TermSum struct {
	terms []Term
}

// NewTermSum sorts terms by string form.
func NewTermSum(terms ...Term) *TermSum {
	sorted := slices.Clone(terms)
	slices.SortStableFunc(sorted, compareTerms)

	return &TermSum{terms: sorted}
}

func (*TermSum) element() {}

// Terms returns a copy of the sorted terms.
func (s *TermSum) Terms() []Term { return slices.Clone(s.terms) }

// Len is the number of terms.
func (s *TermSum) Len() int { return len(s.terms) }

// Rank is the rank of the first term, or 0 for an empty sum.
func (s *TermSum) Rank() int {
	if len(s.terms) == 0 {
		return 0
	}

	return s.terms[0].Rank()
}

// Complexity sums the term complexities.
func (s *TermSum) Complexity() float64 {
	total := 0.0
	for _, t := range s.terms {
		total += t.Complexity()
	}

	return total
}

// String renders "term₁ + term₂".
func (s *TermSum) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}

	return strings.Join(parts, " + ")
}

// Equal reports identical term lists.
func (s *TermSum) Equal(other *TermSum) bool {
	return other != nil && slices.EqualFunc(s.terms, other.terms, termsEqual)
}

// Add returns s + other; see the package-level Add for the result variants.
func (s *TermSum) Add(other Element) (Element, error) { return Add(s, other) }

// Equation converts s to an equation with unit coefficients, or nil when s
// is empty.
func (s *TermSum) Equation() *Equation {
	if len(s.terms) == 0 {
		return nil
	}
	coeffs := make([]float64, len(s.terms))
	for i := range coeffs {
		coeffs[i] = 1
	}

	return newEquation(slices.Clone(s.terms), coeffs)
}

// Canonicalize merges equal terms into an equation with integer coefficients.
func (s *TermSum) Canonicalize() *Equation { return s.Equation().Canonicalize() }

// Dt differentiates the sum in time.
func (s *TermSum) Dt(c *Cache) *Equation { return s.Equation().Dt(c) }

// Dx differentiates the sum in space.
func (s *TermSum) Dx(c *Cache) *Equation { return s.Equation().Dx(c) }

func formatCoeff(c float64) string { return strconv.FormatFloat(c, 'g', -1, 64) }
