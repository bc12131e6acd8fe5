// gens.go - Pedersen generator sets.
//
// All generators are derived by hashing to the curve under distinct domain
// labels, so no party knows a discrete-log relation between any of them.

package r1cs

import (
	"encoding/binary"

	"curvecash/internal/curves"
)

// PedersenGens holds the basis for single-value Pedersen commitments:
// commit(v, r) = v*B + r*BBlinding.
type PedersenGens struct {
	B         curves.Point
	BBlinding curves.Point
}

// NewPedersenGens derives the single-value commitment basis for a curve.
func NewPedersenGens(c curves.Curve) *PedersenGens {
	return &PedersenGens{
		B:         c.HashToPoint([]byte("pedersen/B")),
		BBlinding: c.HashToPoint([]byte("pedersen/B-blinding")),
	}
}

// BulletproofGens holds the fixed vector-commitment basis, sized to the
// maximum vector length a session will commit.
type BulletproofGens struct {
	G []curves.Point
}

// NewBulletproofGens derives a vector basis of the given capacity.
func NewBulletproofGens(c curves.Curve, capacity int) *BulletproofGens {
	g := make([]curves.Point, capacity)
	var idx [8]byte
	for i := range g {
		binary.BigEndian.PutUint64(idx[:], uint64(i))
		g[i] = c.HashToPoint(append([]byte("bulletproof/G/"), idx[:]...))
	}
	return &BulletproofGens{G: g}
}

// Capacity returns the maximum vector length the basis supports.
func (bp *BulletproofGens) Capacity() int {
	return len(bp.G)
}
