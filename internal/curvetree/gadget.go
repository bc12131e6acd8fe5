// gadget.go - The select-and-rerandomize relation over the accumulator.
//
// The relation proves that a freshly rerandomized point descends from some
// leaf of the tree without revealing which one. Membership is proven on the
// odd curve, where the leaf x-coordinates are scalars; the same odd session
// then checks, in circuit, that the rerandomized even point equals a curve
// point with the selected x-coordinate plus a known multiple of the even
// blinding generator. Opening the rerandomized point elsewhere under the
// binding vector basis therefore pins its contents to the selected leaf.

package curvetree

import (
	"io"

	"curvecash/internal/curves"
	"curvecash/internal/gadgets"
	"curvecash/internal/r1cs"
)

// Path is the public membership artifact of one spend. It pins down the
// accumulator state the proof was made against and the rerandomized leaf the
// rest of the spend relation operates on.
type Path struct {
	Root             curves.Point
	NumLeaves        int
	RerandomizedLeaf curves.Point
	XCommitment      curves.Point
}

// SingleLevelSelectAndRerandomize is the shared core of the relation: the
// committed x-coordinate is one of the committed leaf x-coordinates, and the
// rerandomized even point descends from the leaf carrying it. The prover
// supplies the leaf coordinates and the rerandomization scalar as witness;
// the verifier passes nil and replays the identical structure.
func SingleLevelSelectAndRerandomize(
	params *SelRerandParameters,
	evenCs, oddCs r1cs.ConstraintSystem,
	x r1cs.Variable,
	leaves []r1cs.Variable,
	rerandomizedLeaf curves.Point,
	w *gadgets.RerandWitness,
) error {
	if err := gadgets.Select(oddCs, x, leaves); err != nil {
		return err
	}
	target := gadgets.PointCoords{
		X: params.Odd.Curve.ScalarFromBigInt(rerandomizedLeaf.X()),
		Y: params.Odd.Curve.ScalarFromBigInt(rerandomizedLeaf.Y()),
	}
	if err := gadgets.Rerandomize(oddCs, params.EvenRerand, x, target, w); err != nil {
		return err
	}
	evenCs.Bind("rerandomized-leaf", rerandomizedLeaf.Bytes())
	oddCs.Bind("rerandomized-leaf", rerandomizedLeaf.Bytes())
	return nil
}

// SelectAndRerandomizeProverGadget proves membership of the leaf at index,
// returning the public path and the rerandomization scalar delta such that
// the rerandomized leaf equals leaf + delta*H on the even curve.
func (t *CurveTree) SelectAndRerandomizeProverGadget(
	index int,
	evenProver *r1cs.Prover,
	oddProver *r1cs.Prover,
	rng io.Reader,
) (*Path, curves.Scalar, error) {
	leaf, err := t.Leaf(index)
	if err != nil {
		return nil, nil, err
	}
	if !IsPermissible(leaf) {
		return nil, nil, ErrLeafNotPermissible
	}

	delta, err := t.params.Even.Curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	rerandomized := leaf.Add(t.params.Even.Pc.BBlinding.ScalarMul(delta))

	// The leaf set is public, so the vector commitment carries zero
	// blinding and reproduces the tree root.
	root, leafVars, err := oddProver.CommitVec(t.xCoords(), t.params.Odd.Curve.ZeroScalar(), t.params.Odd.Bp)
	if err != nil {
		return nil, nil, err
	}

	xBlinding, err := t.params.Odd.Curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	xCommitment, xVar := oddProver.Commit(t.pair.EvenXAsOddScalar(leaf), xBlinding)

	w := &gadgets.RerandWitness{
		Point: gadgets.PointCoords{
			X: t.pair.EvenXAsOddScalar(leaf),
			Y: t.params.Odd.Curve.ScalarFromBigInt(leaf.Y()),
		},
		Delta: delta.BigInt(),
	}
	if err := SingleLevelSelectAndRerandomize(t.params, evenProver, oddProver, xVar, leafVars, rerandomized, w); err != nil {
		return nil, nil, err
	}
	return &Path{
		Root:             root,
		NumLeaves:        t.Len(),
		RerandomizedLeaf: rerandomized,
		XCommitment:      xCommitment,
	}, delta, nil
}

// SelectAndRerandomizeVerifierGadget replays the membership relation from a
// public path.
func SelectAndRerandomizeVerifierGadget(
	params *SelRerandParameters,
	path *Path,
	evenVerifier *r1cs.Verifier,
	oddVerifier *r1cs.Verifier,
) error {
	leafVars, err := oddVerifier.CommitVec(path.NumLeaves, path.Root, params.Odd.Bp)
	if err != nil {
		return err
	}
	xVar := oddVerifier.Commit(path.XCommitment)
	return SingleLevelSelectAndRerandomize(params, evenVerifier, oddVerifier, xVar, leafVars, path.RerandomizedLeaf, nil)
}
