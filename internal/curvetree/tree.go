// tree.go - The public accumulator of permissible coins.

package curvetree

import (
	"errors"

	"curvecash/internal/curves"
)

// ErrTreeFull is returned when an insert exceeds the vector-basis capacity.
var ErrTreeFull = errors.New("curvetree: tree capacity exhausted")

// ErrLeafNotPermissible is returned when an insert is attempted with a
// non-permissible point.
var ErrLeafNotPermissible = errors.New("curvetree: leaf is not permissible")

// ErrLeafIndex is returned for an out-of-range leaf index.
var ErrLeafIndex = errors.New("curvetree: leaf index out of range")

// CurveTree is an insert-only accumulator of permissible even-curve points.
// Its root is an odd-curve vector commitment to the leaf x-coordinates with
// zero blinding, since the leaf set is public.
type CurveTree struct {
	params *SelRerandParameters
	pair   *curves.CurvePair
	leaves []curves.Point
}

// NewCurveTree returns an empty tree over the given parameters.
func NewCurveTree(params *SelRerandParameters, pair *curves.CurvePair) *CurveTree {
	return &CurveTree{params: params, pair: pair}
}

// Insert appends a permissible leaf and returns its index.
func (t *CurveTree) Insert(leaf curves.Point) (int, error) {
	if !IsPermissible(leaf) {
		return 0, ErrLeafNotPermissible
	}
	if len(t.leaves) >= t.params.Odd.Bp.Capacity() {
		return 0, ErrTreeFull
	}
	t.leaves = append(t.leaves, leaf)
	return len(t.leaves) - 1, nil
}

// Len returns the number of leaves.
func (t *CurveTree) Len() int {
	return len(t.leaves)
}

// Leaf returns the leaf at index i.
func (t *CurveTree) Leaf(i int) (curves.Point, error) {
	if i < 0 || i >= len(t.leaves) {
		return nil, ErrLeafIndex
	}
	return t.leaves[i], nil
}

// xCoords returns the leaf x-coordinates as odd-curve scalars, in insertion
// order.
func (t *CurveTree) xCoords() []curves.Scalar {
	xs := make([]curves.Scalar, len(t.leaves))
	for i, leaf := range t.leaves {
		xs[i] = t.pair.EvenXAsOddScalar(leaf)
	}
	return xs
}

// Root returns the accumulator root: the zero-blinding odd-curve vector
// commitment to the leaf x-coordinates.
func (t *CurveTree) Root() (curves.Point, error) {
	return t.params.Odd.Commit(t.xCoords(), t.params.Odd.Curve.ZeroScalar())
}
