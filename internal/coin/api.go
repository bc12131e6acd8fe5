// api.go - Transaction-level wrappers around the mint and spend protocols.
//
// These own the transcripts and proof sessions, and marshal every point into
// byte form so a transaction can travel as JSON. Verification reconstructs
// the sessions from public data alone.

package coin

import (
	"fmt"
	"io"

	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
	"curvecash/internal/r1cs"
)

// Transcript domain labels. A mint session and the two halves of a spend
// session are distinct protocols and never share a label.
const (
	mintTranscriptLabel      = "curvecash/mint"
	spendEvenTranscriptLabel = "curvecash/spend/even"
	spendOddTranscriptLabel  = "curvecash/spend/odd"
)

// MintTx is the broadcastable form of a mint: the public minting output plus
// the range proof over the value commitment.
type MintTx struct {
	ValueCommitment []byte `json:"value_commitment"`
	RandomizedPk    []byte `json:"randomized_pk"`
	Proof           []byte `json:"proof"`
}

// SpendTx is the broadcastable form of a spend: the membership path, the
// one-time key, the tag, and the two session proofs.
type SpendTx struct {
	Root             []byte `json:"root"`
	NumLeaves        int    `json:"num_leaves"`
	RerandomizedLeaf []byte `json:"rerandomized_leaf"`
	XCommitment      []byte `json:"x_commitment"`
	RerandomizedPk   []byte `json:"rerandomized_pk"`
	Tag              []byte `json:"tag"`
	EvenProof        []byte `json:"even_proof"`
	OddProof         []byte `json:"odd_proof"`
}

// TagKey returns the ledger lookup key of the spend's tag: the hex of its
// x-coordinate. A tag and its negation share one key, so flipping the sign
// of the ownership scalar cannot evade collision detection.
func (tx *SpendTx) TagKey() string {
	if len(tx.Tag) == 0 {
		return ""
	}
	key := make([]byte, len(tx.Tag))
	copy(key, tx.Tag)
	// The top two bits of a compressed encoding carry the y-coordinate
	// flags; the rest is the big-endian x-coordinate.
	key[0] &^= 0xc0
	return fmt.Sprintf("%x", key)
}

// CreateMintTx mints a coin and proves it in one session.
// Returns the transaction along with the private records the owner must
// retain: the coin and its minting output.
func CreateMintTx(
	params *curvetree.SelRerandParameters,
	value uint64,
	recipientPk curves.Point,
	rng io.Reader,
) (*MintTx, *Coin, *MintingOutput, error) {
	even := params.Even
	prover := r1cs.NewProver(even.Curve, even.Pc, r1cs.NewTranscript(mintTranscriptLabel, even.Curve))

	c, mo, _, err := Mint(params, value, recipientPk, prover, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	proof, err := prover.Prove()
	if err != nil {
		return nil, nil, nil, err
	}
	tx := &MintTx{
		ValueCommitment: mo.ValueCommitment.Bytes(),
		RandomizedPk:    mo.RandomizedPk.Bytes(),
		Proof:           proof.Bytes(),
	}
	return tx, c, mo, nil
}

// CombineMintTx decodes a mint transaction's minting output and folds it
// into its permissible form, as every node must before inserting the coin
// into its accumulator.
func CombineMintTx(params *curvetree.SelRerandParameters, pair *curves.CurvePair, tx *MintTx) (*PermissibleCoin, error) {
	valueCommitment, err := params.Even.Curve.PointFromBytes(tx.ValueCommitment)
	if err != nil {
		return nil, fmt.Errorf("mint tx value commitment: %w", err)
	}
	randomizedPk, err := params.Odd.Curve.PointFromBytes(tx.RandomizedPk)
	if err != nil {
		return nil, fmt.Errorf("mint tx randomized pk: %w", err)
	}
	mo := &MintingOutput{ValueCommitment: valueCommitment, RandomizedPk: randomizedPk}
	return CombineIntoPermissible(params, pair, mo)
}

// VerifyMintTx checks a mint transaction. Every failure beyond a malformed
// encoding collapses into r1cs.ErrVerification.
func VerifyMintTx(params *curvetree.SelRerandParameters, tx *MintTx) error {
	even := params.Even
	commitment, err := even.Curve.PointFromBytes(tx.ValueCommitment)
	if err != nil {
		return fmt.Errorf("mint tx value commitment: %w", err)
	}
	if _, err := params.Odd.Curve.PointFromBytes(tx.RandomizedPk); err != nil {
		return fmt.Errorf("mint tx randomized pk: %w", err)
	}
	verifier := r1cs.NewVerifier(even.Curve, even.Pc, r1cs.NewTranscript(mintTranscriptLabel, even.Curve))
	if _, err := VerifyMint(params, commitment, verifier); err != nil {
		return err
	}
	proof, err := r1cs.ParseProof(even.Curve, tx.Proof)
	if err != nil {
		return r1cs.ErrVerification
	}
	return verifier.Verify(proof)
}

// CreateSpendTx spends a coin in a fresh pair of sessions and marshals the
// result. The spending info is consumed.
func CreateSpendTx(
	params *curvetree.SelRerandParameters,
	pair *curves.CurvePair,
	info *SpendingInfo,
	tree *curvetree.CurveTree,
	rng io.Reader,
) (*SpendTx, error) {
	even, odd := params.Even, params.Odd
	evenProver := r1cs.NewProver(even.Curve, even.Pc, r1cs.NewTranscript(spendEvenTranscriptLabel, even.Curve))
	oddProver := r1cs.NewProver(odd.Curve, odd.Pc, r1cs.NewTranscript(spendOddTranscriptLabel, odd.Curve))

	artifacts, err := ProveSpend(params, pair, info, tree, evenProver, oddProver, rng)
	if err != nil {
		return nil, err
	}
	evenProof, err := evenProver.Prove()
	if err != nil {
		return nil, err
	}
	oddProof, err := oddProver.Prove()
	if err != nil {
		return nil, err
	}
	return &SpendTx{
		Root:             artifacts.Path.Root.Bytes(),
		NumLeaves:        artifacts.Path.NumLeaves,
		RerandomizedLeaf: artifacts.Path.RerandomizedLeaf.Bytes(),
		XCommitment:      artifacts.Path.XCommitment.Bytes(),
		RerandomizedPk:   artifacts.RerandomizedPk.Bytes(),
		Tag:              artifacts.Tag.Bytes(),
		EvenProof:        evenProof.Bytes(),
		OddProof:         oddProof.Bytes(),
	}, nil
}

// VerifySpendTx checks a spend transaction against the expected accumulator
// root. Every failure beyond a malformed encoding collapses into
// r1cs.ErrVerification.
func VerifySpendTx(params *curvetree.SelRerandParameters, root curves.Point, tx *SpendTx) error {
	even, odd := params.Even, params.Odd

	txRoot, err := odd.Curve.PointFromBytes(tx.Root)
	if err != nil {
		return fmt.Errorf("spend tx root: %w", err)
	}
	if !txRoot.Equal(root) {
		return r1cs.ErrVerification
	}
	rerandomizedLeaf, err := even.Curve.PointFromBytes(tx.RerandomizedLeaf)
	if err != nil {
		return fmt.Errorf("spend tx leaf: %w", err)
	}
	xCommitment, err := odd.Curve.PointFromBytes(tx.XCommitment)
	if err != nil {
		return fmt.Errorf("spend tx x commitment: %w", err)
	}
	rerandomizedPk, err := odd.Curve.PointFromBytes(tx.RerandomizedPk)
	if err != nil {
		return fmt.Errorf("spend tx rerandomized pk: %w", err)
	}
	tag, err := odd.Curve.PointFromBytes(tx.Tag)
	if err != nil {
		return fmt.Errorf("spend tx tag: %w", err)
	}

	artifacts := &SpendArtifacts{
		Path: &curvetree.Path{
			Root:             txRoot,
			NumLeaves:        tx.NumLeaves,
			RerandomizedLeaf: rerandomizedLeaf,
			XCommitment:      xCommitment,
		},
		RerandomizedPk: rerandomizedPk,
		Tag:            tag,
	}
	evenVerifier := r1cs.NewVerifier(even.Curve, even.Pc, r1cs.NewTranscript(spendEvenTranscriptLabel, even.Curve))
	oddVerifier := r1cs.NewVerifier(odd.Curve, odd.Pc, r1cs.NewTranscript(spendOddTranscriptLabel, odd.Curve))
	if _, err := VerifySpend(params, artifacts, evenVerifier, oddVerifier); err != nil {
		return r1cs.ErrVerification
	}

	evenProof, err := r1cs.ParseProof(even.Curve, tx.EvenProof)
	if err != nil {
		return r1cs.ErrVerification
	}
	oddProof, err := r1cs.ParseProof(odd.Curve, tx.OddProof)
	if err != nil {
		return r1cs.ErrVerification
	}
	if err := evenVerifier.Verify(evenProof); err != nil {
		return err
	}
	return oddVerifier.Verify(oddProof)
}
