// permissible.go - The permissible-point predicate and padding search.
//
// A point is permissible when its y-coordinate is even, so an x-coordinate
// identifies exactly one permissible point and commitments can be stored in
// the tree by x-coordinate alone.

package curvetree

import (
	"errors"

	"curvecash/internal/curves"
)

// MaxPermissibleAttempts bounds the padding search. Each attempt succeeds
// with probability about one half, so 256 attempts failing indicates a broken
// input, not bad luck.
const MaxPermissibleAttempts = 256

// ErrNotPermissible is returned when no permissible padding is found within
// MaxPermissibleAttempts.
var ErrNotPermissible = errors.New("curvetree: no permissible padding found")

// IsPermissible reports whether p satisfies the permissible predicate.
func IsPermissible(p curves.Point) bool {
	return !p.IsInfinity() && p.YIsEven()
}

// PermissibleCommitment pads the commitment c by successive multiples of the
// blinding base until the result is permissible, returning the permissible
// point and the padding scalar. The search is deterministic: offsets 0, 1, 2,
// ... are tried in order, so the same input always yields the same padding.
func PermissibleCommitment(c curves.Point, blindingBase curves.Point, curve curves.Curve) (curves.Point, curves.Scalar, error) {
	candidate := c
	for i := 0; i < MaxPermissibleAttempts; i++ {
		if IsPermissible(candidate) {
			return candidate, curve.ScalarFromUint64(uint64(i)), nil
		}
		candidate = candidate.Add(blindingBase)
	}
	return nil, nil, ErrNotPermissible
}
