// SPDX-License-Identifier: MIT
// Package: spider/commons
//
// errors.go - sentinel errors for the commons package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context is attached with %w at the failure site, never baked into
//     the sentinel text.

package commons

import (
	"errors"
	"fmt"
)

// ErrUnsupportedRank indicates an observable rank other than 0 (scalar) or
// 1 (vector). Higher-rank fields are not representable by the library.
var ErrUnsupportedRank = errors.New("commons: unsupported observable rank")

// ErrEmptyName indicates an observable constructed with an empty name.
var ErrEmptyName = errors.New("commons: observable name is empty")

// ErrNegativeOrder indicates a negative derivative count.
var ErrNegativeOrder = errors.New("commons: negative derivative order")

// ErrBadPartition indicates Partition was called with n < 0 or k < 1.
var ErrBadPartition = errors.New("commons: invalid partition arguments")

// ErrLabelMismatch indicates that a label assignment does not fit the bin
// sizes it is being laid out on (slot out of range, slot used twice, or a
// slot left without an index).
var ErrLabelMismatch = errors.New("commons: labels do not match bin sizes")

// commonsErrorf prefixes err with the calling method for a stable message
// while keeping the sentinel reachable through errors.Is.
func commonsErrorf(method, format string, err error, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
