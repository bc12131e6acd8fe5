// coin.go - The coin entity graph and blinding bookkeeping.

package coin

import "curvecash/internal/curves"

// Coin is the prover's private record of a minted coin. Immutable; destroyed
// after spend.
type Coin struct {
	Value uint64
	// ValueRandomness blinds the even-curve value commitment.
	ValueRandomness curves.Scalar
	// PkRandomness is the rerandomization added to the recipient key at mint
	// time, on the odd curve.
	PkRandomness curves.Scalar
}

// MintingOutput is the public artifact of minting: the blinded value
// commitment on the even curve and the rerandomized recipient key on the odd
// curve.
type MintingOutput struct {
	ValueCommitment curves.Point
	RandomizedPk    curves.Point
}

// PermissibleCoin is the canonical accumulator-insertable form of a coin.
// Only the Coin point is ever inserted into the accumulator; the padding
// scalars are private bookkeeping the owner must retain to open the
// commitments at spend time.
type PermissibleCoin struct {
	Pk        curves.Point
	PkPadding curves.Scalar

	Coin        curves.Point
	CoinPadding curves.Scalar
}

// SpendingInfo is all secret material needed to spend one coin. Assembled by
// the owner and consumed by ProveSpend; single-use.
type SpendingInfo struct {
	Index       int
	Coin        *Coin
	Output      *MintingOutput
	Permissible *PermissibleCoin
	Sk          *SecretKey
}

// RandomnessTotal tracks the total blinding accumulated on one commitment.
// Every contribution flows through a named operation, so the running sum an
// opening proof must use is auditable rather than reconstructed from ad hoc
// additions.
type RandomnessTotal struct {
	total curves.Scalar
}

// NewRandomnessTotal starts the accumulator at the commitment's original
// blinding.
func NewRandomnessTotal(initial curves.Scalar) *RandomnessTotal {
	return &RandomnessTotal{total: initial}
}

// ApplyRerandomization adds a rerandomization scalar drawn by a party.
func (rt *RandomnessTotal) ApplyRerandomization(s curves.Scalar) *RandomnessTotal {
	rt.total = rt.total.Add(s)
	return rt
}

// ApplyPadding adds a permissible-padding scalar found by the padding search.
func (rt *RandomnessTotal) ApplyPadding(s curves.Scalar) *RandomnessTotal {
	rt.total = rt.total.Add(s)
	return rt
}

// ApplyPathRerandomization adds the accumulator path's rerandomization trail.
func (rt *RandomnessTotal) ApplyPathRerandomization(s curves.Scalar) *RandomnessTotal {
	rt.total = rt.total.Add(s)
	return rt
}

// Total returns the accumulated blinding.
func (rt *RandomnessTotal) Total() curves.Scalar {
	return rt.total
}
