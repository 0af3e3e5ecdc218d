// SPDX-License-Identifier: MIT
// Package: spider/library
//
// errors.go - sentinel errors for the library package.
//
// Error policy:
//   • Errors are local precondition violations only; there is no retry or
//     partial-failure state. Invalid input fails immediately.
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Representable states are not errors: a budget that admits no tensor
//     yields an empty sequence, and a non-canonical term is filtered out.
//   • Option constructors (WithX) panic on meaningless values; algorithms
//     never panic on user input.

package library

import (
	"errors"
	"fmt"
)

// ErrInvalidComplexity indicates a generation budget below 1.
var ErrInvalidComplexity = errors.New("library: complexity budget must be positive")

// ErrDuplicateObservable indicates the same observable was supplied twice.
var ErrDuplicateObservable = errors.New("library: duplicate observable")

// ErrTypeMismatch indicates an operation between incompatible variants, e.g.
// multiplying two equations.
var ErrTypeMismatch = errors.New("library: incompatible operand types")

// ErrEmptyTerm indicates a LibraryTerm built over zero factors; the
// multiplicative identity is ConstantTerm.
var ErrEmptyTerm = errors.New("library: term has no factors")

// ErrBadIndexList indicates an index assignment that does not fit its tensor:
// wrong bin count or sizes, an id used more than twice, or a free-index count
// that disagrees with the term rank.
var ErrBadIndexList = errors.New("library: index list does not match tensor")

// ErrLengthMismatch indicates differing numbers of terms and coefficients.
var ErrLengthMismatch = errors.New("library: terms and coefficients differ in length")

// ErrEmptyEquation indicates an equation with no terms.
var ErrEmptyEquation = errors.New("library: equation has no terms")

// ErrNotSingleTerm indicates ToTerm on an equation that still holds more
// than one distinct term.
var ErrNotSingleTerm = errors.New("library: equation contains more than one distinct term")

// ErrBadDimension indicates a spatial dimension outside the realized range.
var ErrBadDimension = errors.New("library: dimension out of range")

// libraryErrorf wraps err with the method name and formatted context.
func libraryErrorf(method, format string, err error, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
