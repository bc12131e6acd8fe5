// spend.go - The spending protocol.
//
// A spend runs two proof sessions at once, one per curve. The even session
// opens the rerandomized leaf and checks the one-time key against the coin's
// key slot; the odd session carries the select membership relation, the leaf
// rerandomization check, the ownership proof and the double-spend tag. Each
// session does the curve arithmetic of the other curve's points, which is
// what the cycle is for. Prover and verifier must issue the same sequence of
// session calls, which both functions below do step for step.

package coin

import (
	"io"

	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
	"curvecash/internal/gadgets"
	"curvecash/internal/r1cs"
)

// SpendArtifacts is the externally-visible output of one spend: the
// membership path, the handle of the revealed value variable, the one-time
// rerandomized public key and the spending tag.
type SpendArtifacts struct {
	Path            *curvetree.Path
	ValueVar        r1cs.Variable
	RerandomizedPk  curves.Point
	Tag             curves.Point
}

// ProveSpend consumes a SpendingInfo and proves the spend. The info is
// single-use; callers must discard it afterwards.
//
// Steps:
//  1. Prove accumulator membership of the permissible coin at the recorded
//     index, obtaining the path and its rerandomization trail.
//  2. Recommit (value, key x-coordinate) on the even curve under the total
//     accumulated blinding and check it reproduces the path's leaf exactly.
//  3. Rerandomize the permissible key once more and prove, in circuit, that
//     the result descends from the key whose x-coordinate the coin carries.
//  4. Prove ownership: open the rerandomized key as a commitment to
//     prf + hash(value commitment) under the summed blinding trail.
//  5. Derive the tag: an unblinded commitment to the inverse of the
//     ownership scalar, tied to the ownership commitment by x * x^-1 = 1.
//  6. Return the public artifacts.
func ProveSpend(
	params *curvetree.SelRerandParameters,
	pair *curves.CurvePair,
	info *SpendingInfo,
	tree *curvetree.CurveTree,
	evenProver *r1cs.Prover,
	oddProver *r1cs.Prover,
	rng io.Reader,
) (*SpendArtifacts, error) {
	odd, even := params.Odd, params.Even

	// Step 1: membership path and rerandomization trail.
	path, delta, err := tree.SelectAndRerandomizeProverGadget(info.Index, evenProver, oddProver, rng)
	if err != nil {
		return nil, err
	}

	// Step 2: recommit the coin under its total blinding. The recommitment
	// must be bit-identical to the path's leaf; a mismatch means the
	// blinding bookkeeping or the accumulator integration is broken.
	coinTotal := NewRandomnessTotal(info.Coin.ValueRandomness).
		ApplyPadding(info.Permissible.CoinPadding).
		ApplyPathRerandomization(delta)
	pkX := pair.OddXAsEvenScalar(info.Permissible.Pk)
	valueScalar := even.Curve.ScalarFromUint64(info.Coin.Value)
	recommitment, coinVars, err := evenProver.CommitVec(
		[]curves.Scalar{valueScalar, pkX}, coinTotal.Total(), even.Bp)
	if err != nil {
		return nil, err
	}
	if !recommitment.Equal(path.RerandomizedLeaf) {
		return nil, ErrPathMismatch
	}

	// Step 3: one-time rerandomization of the permissible key. The even
	// session checks the rerandomized key against the coin's key slot: it
	// equals a curve point with x-coordinate coinVars[1] plus fresh*H, with
	// fresh known to the prover. Without this link any key with a known
	// opening would pass the ownership check below.
	fresh, err := odd.Curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	rerandomizedPk := info.Permissible.Pk.Add(odd.Pc.BBlinding.ScalarMul(fresh))
	evenProver.Bind("rerandomized-pk", rerandomizedPk.Bytes())
	oddProver.Bind("rerandomized-pk", rerandomizedPk.Bytes())
	pkTarget := gadgets.PointCoords{
		X: even.Curve.ScalarFromBigInt(rerandomizedPk.X()),
		Y: even.Curve.ScalarFromBigInt(rerandomizedPk.Y()),
	}
	pkWitness := &gadgets.RerandWitness{
		Point: gadgets.PointCoords{
			X: pkX,
			Y: even.Curve.ScalarFromBigInt(info.Permissible.Pk.Y()),
		},
		Delta: fresh.BigInt(),
	}
	if err := gadgets.Rerandomize(evenProver, params.OddRerand, coinVars[1], pkTarget, pkWitness); err != nil {
		return nil, err
	}

	// Step 4: ownership proof. The rerandomized key opens to
	// prf + hash under the sum of every blinding it has absorbed.
	hash := HashOfValueCommitment(pair, info.Output)
	x := info.Sk.PrfKey.Add(hash)
	ownTotal := NewRandomnessTotal(info.Sk.Randomness).
		ApplyRerandomization(info.Coin.PkRandomness).
		ApplyPadding(info.Permissible.PkPadding).
		ApplyRerandomization(fresh)
	ownership, xVar := oddProver.Commit(x, ownTotal.Total())
	if !ownership.Equal(rerandomizedPk) {
		return nil, ErrOwnershipMismatch
	}

	// Step 5: the tag. No blinding slot exists in this commitment form, so
	// identical ownership scalars must produce identical tags across spends.
	if x.IsZero() {
		return nil, ErrUnspendable
	}
	tag, xInvVar := oddProver.CommitUnblinded(x.Inverse())
	_, _, o := oddProver.Multiply(r1cs.LCVar(xVar), r1cs.LCVar(xInvVar))
	oddProver.Constrain(r1cs.LCVar(o).Sub(r1cs.LCConst(odd.Curve.OneScalar())))

	// Step 6: public artifacts.
	return &SpendArtifacts{
		Path:           path,
		ValueVar:       coinVars[0],
		RerandomizedPk: rerandomizedPk,
		Tag:            tag,
	}, nil
}

// VerifySpend replays the spend relation from the public artifacts. It
// returns the revealed value variable; the final accept/reject decision is
// the verifiers' Verify calls on the two proofs.
func VerifySpend(
	params *curvetree.SelRerandParameters,
	artifacts *SpendArtifacts,
	evenVerifier *r1cs.Verifier,
	oddVerifier *r1cs.Verifier,
) (r1cs.Variable, error) {
	odd, even := params.Odd, params.Even

	// Step 1: membership relation from the path.
	if err := curvetree.SelectAndRerandomizeVerifierGadget(params, artifacts.Path, evenVerifier, oddVerifier); err != nil {
		return r1cs.Variable{}, err
	}

	// Step 2: the recommitment is the path's leaf.
	coinVars, err := evenVerifier.CommitVec(2, artifacts.Path.RerandomizedLeaf, even.Bp)
	if err != nil {
		return r1cs.Variable{}, err
	}

	// Step 3: the rerandomized key descends from the coin's key slot.
	evenVerifier.Bind("rerandomized-pk", artifacts.RerandomizedPk.Bytes())
	oddVerifier.Bind("rerandomized-pk", artifacts.RerandomizedPk.Bytes())
	pkTarget := gadgets.PointCoords{
		X: even.Curve.ScalarFromBigInt(artifacts.RerandomizedPk.X()),
		Y: even.Curve.ScalarFromBigInt(artifacts.RerandomizedPk.Y()),
	}
	if err := gadgets.Rerandomize(evenVerifier, params.OddRerand, coinVars[1], pkTarget, nil); err != nil {
		return r1cs.Variable{}, err
	}

	// Step 4: ownership commitment is the rerandomized key itself.
	xVar := oddVerifier.Commit(artifacts.RerandomizedPk)

	// Step 5: the tag opens to the inverse of the ownership scalar, with no
	// blinding slot to hide behind.
	xInvVar := oddVerifier.CommitUnblinded(artifacts.Tag)
	_, _, o := oddVerifier.Multiply(r1cs.LCVar(xVar), r1cs.LCVar(xInvVar))
	oddVerifier.Constrain(r1cs.LCVar(o).Sub(r1cs.LCConst(odd.Curve.OneScalar())))

	return coinVars[0], nil
}
