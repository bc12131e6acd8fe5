// keys.go - Key generation for coin owners.

package coin

import (
	"io"

	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
)

// SecretKey is the owner's capability to spend: a PRF key and the blinding
// of the public-key commitment. Never mutated after generation.
type SecretKey struct {
	PrfKey     curves.Scalar
	Randomness curves.Scalar
}

// GenerateKeys draws a fresh key pair on the odd curve. The public key is
// the Pedersen commitment prf*B + randomness*H; the randomness is redrawn if
// it comes out zero, so a public key never degenerates into a bare PRF-key
// image.
func GenerateKeys(params *curvetree.SelRerandParameters, rng io.Reader) (*SecretKey, curves.Point, error) {
	odd := params.Odd
	prf, err := odd.Curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	randomness, err := odd.Curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	for randomness.IsZero() {
		if randomness, err = odd.Curve.RandomScalar(rng); err != nil {
			return nil, nil, err
		}
	}
	sk := &SecretKey{PrfKey: prf, Randomness: randomness}
	pk := odd.Pc.B.ScalarMul(prf).Add(odd.Pc.BBlinding.ScalarMul(randomness))
	return sk, pk, nil
}
