package commons

import "cmp"

// DerivativeOrder counts the time and space derivatives applied to a factor.
// The zero value is "no derivatives".
type DerivativeOrder struct {
	TOrder int
	XOrder int
}

// NewDerivativeOrder validates both counts.
//
// Errors:
//   - ErrNegativeOrder - torder < 0 or xorder < 0.
func NewDerivativeOrder(torder, xorder int) (DerivativeOrder, error) {
	if torder < 0 || xorder < 0 {
		return DerivativeOrder{}, commonsErrorf("NewDerivativeOrder", "(%d, %d)", ErrNegativeOrder, torder, xorder)
	}

	return DerivativeOrder{TOrder: torder, XOrder: xorder}, nil
}

// Complexity is the total number of derivatives.
func (d DerivativeOrder) Complexity() int { return d.TOrder + d.XOrder }

// Dt returns a copy with one more time derivative.
func (d DerivativeOrder) Dt() DerivativeOrder { return DerivativeOrder{TOrder: d.TOrder + 1, XOrder: d.XOrder} }

// Dx returns a copy with one more space derivative.
func (d DerivativeOrder) Dx() DerivativeOrder { return DerivativeOrder{TOrder: d.TOrder, XOrder: d.XOrder + 1} }

// Compare orders by time order, then by space order.
func (d DerivativeOrder) Compare(other DerivativeOrder) int {
	if c := cmp.Compare(d.TOrder, other.TOrder); c != 0 {
		return c
	}

	return cmp.Compare(d.XOrder, other.XOrder)
}

// Less reports whether d sorts before other.
func (d DerivativeOrder) Less(other DerivativeOrder) bool { return d.Compare(other) < 0 }
