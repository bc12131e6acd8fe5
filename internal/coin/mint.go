// mint.go - The minting protocol.

package coin

import (
	"fmt"
	"io"

	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
	"curvecash/internal/gadgets"
	"curvecash/internal/r1cs"
)

// ValueBitWidth bounds coin values to [0, 2^64). Nothing downstream
// re-checks the range: if the mint proof is skipped, the spend protocol has
// no other range guard.
const ValueBitWidth = 64

// Mint creates a coin for the recipient.
//
// Steps:
//  1. Rerandomize the recipient key with a fresh odd scalar.
//  2. Commit the value as a length-1 vector commitment on the even curve.
//  3. Range-prove the committed value on the same variable, so the proof
//     binds to the real coin rather than a re-derived commitment.
//  4. Return the private coin record, the public minting output, and the
//     value variable for callers chaining further constraints.
//
// A failed range proof is fatal: no coin is usable without it.
func Mint(
	params *curvetree.SelRerandParameters,
	value uint64,
	recipientPk curves.Point,
	evenProver *r1cs.Prover,
	rng io.Reader,
) (*Coin, *MintingOutput, r1cs.Variable, error) {
	odd, even := params.Odd, params.Even

	// Step 1: rerandomize the recipient key.
	pkRerand, err := odd.Curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, r1cs.Variable{}, err
	}
	randomizedPk := recipientPk.Add(odd.Pc.BBlinding.ScalarMul(pkRerand))

	// Step 2: commit the value.
	valueBlinding, err := even.Curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, r1cs.Variable{}, err
	}
	valueScalar := even.Curve.ScalarFromUint64(value)
	commitment, vars, err := evenProver.CommitVec([]curves.Scalar{valueScalar}, valueBlinding, even.Bp)
	if err != nil {
		return nil, nil, r1cs.Variable{}, err
	}
	valueVar := vars[0]

	// Step 3: range-prove the committed variable.
	if err := gadgets.RangeProof(evenProver, valueVar, &value, ValueBitWidth); err != nil {
		return nil, nil, r1cs.Variable{}, fmt.Errorf("%w: %v", ErrRangeProof, err)
	}

	c := &Coin{Value: value, ValueRandomness: valueBlinding, PkRandomness: pkRerand}
	mo := &MintingOutput{ValueCommitment: commitment, RandomizedPk: randomizedPk}
	return c, mo, valueVar, nil
}

// VerifyMint replays the mint relation from the bare value commitment,
// returning the committed variable for callers chaining further constraints.
func VerifyMint(
	params *curvetree.SelRerandParameters,
	valueCommitment curves.Point,
	evenVerifier *r1cs.Verifier,
) (r1cs.Variable, error) {
	vars, err := evenVerifier.CommitVec(1, valueCommitment, params.Even.Bp)
	if err != nil {
		return r1cs.Variable{}, err
	}
	if err := gadgets.RangeProof(evenVerifier, vars[0], nil, ValueBitWidth); err != nil {
		return r1cs.Variable{}, fmt.Errorf("%w: %v", ErrRangeProof, err)
	}
	return vars[0], nil
}
