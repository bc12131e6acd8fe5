// rangeproof.go - Bit-decomposition range proof.

package gadgets

import "curvecash/internal/r1cs"

// RangeProof constrains the committed variable v to lie in [0, 2^bitWidth).
// Each bit costs one multiplier gate carrying (b, 1-b): the product
// constraint b*(1-b) == 0 forces booleanity, l + r == 1 ties the wires
// together, and one aggregated constraint asserts sum(2^i * b_i) == v.
//
// The prover passes the committed value; the verifier passes nil and replays
// the identical gate structure.
func RangeProof(cs r1cs.ConstraintSystem, v r1cs.Variable, value *uint64, bitWidth int) error {
	if bitWidth <= 0 || bitWidth > 64 {
		return ErrPrecondition
	}
	if value != nil && bitWidth < 64 && *value>>uint(bitWidth) != 0 {
		return ErrPrecondition
	}
	curve := cs.Curve()
	one := curve.OneScalar()

	sum := r1cs.LinearCombination{}
	coeff := one
	for i := 0; i < bitWidth; i++ {
		var assignment *r1cs.Assignment
		if value != nil {
			bit := curve.ScalarFromUint64((*value >> uint(i)) & 1)
			assignment = &r1cs.Assignment{Left: bit, Right: one.Sub(bit)}
		}
		l, r, o, err := cs.AllocateMultiplier(assignment)
		if err != nil {
			return err
		}
		cs.Constrain(r1cs.LCVar(o))
		cs.Constrain(r1cs.LCVar(l).Add(r1cs.LCVar(r)).Sub(r1cs.LCConst(one)))
		sum = sum.Add(r1cs.LCVar(l).Scale(coeff))
		coeff = coeff.Add(coeff)
	}
	cs.Constrain(sum.Sub(r1cs.LCVar(v)))
	return nil
}
