// combine.go - Folding a minting output into one permissible commitment.
//
// Two symmetric folding steps, one per curve. On the odd curve the value
// commitment is hashed into the public key; on the even curve the resulting
// key's x-coordinate is folded into the value commitment. Each fold is
// followed by the deterministic permissible-padding search, so the same
// minting output always combines to the same permissible coin.

package coin

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
)

// hashOfValueCommitmentDomain separates this use of SHA3-512 from every
// other hash in the system. Reusing hash output across purposes is a
// vulnerability, not an optimization.
const hashOfValueCommitmentDomain = "curvecash/hash-of-value-commitment/v1"

// HashOfValueCommitment maps the even-curve value commitment into the odd
// scalar field. The 512-bit digest makes the reduction bias negligible.
func HashOfValueCommitment(pair *curves.CurvePair, mo *MintingOutput) curves.Scalar {
	h := sha3.New512()
	h.Write([]byte(hashOfValueCommitmentDomain))
	h.Write(mo.ValueCommitment.Bytes())
	return pair.Odd.ScalarFromBytesWide(h.Sum(nil))
}

// CombineIntoPermissible derives the canonical permissible form of a minting
// output.
//
// Step 1, odd curve: pre_pk = randomized_pk + hash(value commitment) * B,
// then permissible padding along the odd blinding generator.
//
// Step 2, even curve: the x-coordinate of the permissible key, now an even
// scalar by the cycle property, is folded into the value commitment along
// the second vector generator, then padded the same way on the even curve.
func CombineIntoPermissible(params *curvetree.SelRerandParameters, pair *curves.CurvePair, mo *MintingOutput) (*PermissibleCoin, error) {
	odd, even := params.Odd, params.Even

	// Step 1: fold the value commitment into the key.
	hash := HashOfValueCommitment(pair, mo)
	prePk := mo.RandomizedPk.Add(odd.Pc.B.ScalarMul(hash))
	permissiblePk, pkPadding, err := curvetree.PermissibleCommitment(prePk, odd.Pc.BBlinding, odd.Curve)
	if err != nil {
		return nil, fmt.Errorf("padding public key: %w", err)
	}

	// Step 2: fold the key's x-coordinate into the value commitment. The
	// value occupies vector slot 0, so the key takes slot 1.
	pkX := pair.OddXAsEvenScalar(permissiblePk)
	preCoin := mo.ValueCommitment.Add(even.Bp.G[1].ScalarMul(pkX))
	permissibleCoin, coinPadding, err := curvetree.PermissibleCommitment(preCoin, even.Pc.BBlinding, even.Curve)
	if err != nil {
		return nil, fmt.Errorf("padding coin: %w", err)
	}

	return &PermissibleCoin{
		Pk:          permissiblePk,
		PkPadding:   pkPadding,
		Coin:        permissibleCoin,
		CoinPadding: coinPadding,
	}, nil
}
