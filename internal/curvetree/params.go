// params.go - Public parameter sets for the accumulator.

package curvetree

import (
	"curvecash/internal/curves"
	"curvecash/internal/gadgets"
	"curvecash/internal/r1cs"
)

// CurveParams bundles the generator sets of one curve: the single-value
// Pedersen basis and the vector basis used for committed leaf sets.
type CurveParams struct {
	Curve curves.Curve
	Pc    *r1cs.PedersenGens
	Bp    *r1cs.BulletproofGens
}

// NewCurveParams derives the parameter set for one curve with the given
// vector-commitment capacity.
func NewCurveParams(c curves.Curve, capacity int) *CurveParams {
	return &CurveParams{
		Curve: c,
		Pc:    r1cs.NewPedersenGens(c),
		Bp:    r1cs.NewBulletproofGens(c, capacity),
	}
}

// Commit computes a Pedersen vector commitment to values under the vector
// basis, blinded by r. It is the direct (non-proving) counterpart of a
// session's CommitVec.
func (p *CurveParams) Commit(values []curves.Scalar, r curves.Scalar) (curves.Point, error) {
	if len(values) > p.Bp.Capacity() {
		return nil, r1cs.ErrCapacityExceeded
	}
	acc := p.Pc.BBlinding.ScalarMul(r)
	for i, v := range values {
		acc = acc.Add(p.Bp.G[i].ScalarMul(v))
	}
	return acc, nil
}

// SelRerandParameters carries the parameter sets of both cycle curves, as
// required by the select-and-rerandomize relation: leaves live on the even
// curve, the committed leaf set on the odd curve.
type SelRerandParameters struct {
	Even *CurveParams
	Odd  *CurveParams

	// EvenRerand drives in-circuit rerandomization of even-curve points
	// inside odd sessions; OddRerand is the mirror image. Both tables walk
	// the respective curve's blinding generator.
	EvenRerand *gadgets.RerandParams
	OddRerand  *gadgets.RerandParams
}

// NewSelRerandParameters derives both parameter sets. Capacity bounds the
// number of leaves a tree built on these parameters can hold.
func NewSelRerandParameters(pair *curves.CurvePair, capacity int) *SelRerandParameters {
	even := NewCurveParams(pair.Even, capacity)
	odd := NewCurveParams(pair.Odd, capacity)
	return &SelRerandParameters{
		Even:       even,
		Odd:        odd,
		EvenRerand: gadgets.NewRerandParams(pair.Odd, pair.Even, even.Pc.BBlinding),
		OddRerand:  gadgets.NewRerandParams(pair.Even, pair.Odd, odd.Pc.BBlinding),
	}
}
