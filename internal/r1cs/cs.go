// cs.go - The constraint-system capability shared by prover and verifier.
//
// Gadget code is written once against this interface and invoked identically
// by both sides; the only difference is how committed variables came to be
// (opened secret values on the prover, opaque commitment handles on the
// verifier). Any divergence between the two invocations is a soundness bug,
// so gadgets must never branch on which side they run on beyond the optional
// witness assignments.

package r1cs

import "curvecash/internal/curves"

// Assignment carries the prover-side witness values of an allocated
// multiplier. Verifiers pass nil.
type Assignment struct {
	Left  curves.Scalar
	Right curves.Scalar
}

// ConstraintSystem is the capability gadgets build against.
type ConstraintSystem interface {
	// Curve returns the curve the session's scalars live on.
	Curve() curves.Curve

	// Multiply adds a multiplication gate computing l*r and constrains the
	// gate's wires to the given linear combinations. It returns the left,
	// right and output wire variables.
	Multiply(l, r LinearCombination) (Variable, Variable, Variable)

	// AllocateMultiplier adds an unconstrained multiplication gate whose
	// wires carry fresh witness values. The prover requires an assignment;
	// the verifier ignores it.
	AllocateMultiplier(assignment *Assignment) (Variable, Variable, Variable, error)

	// Constrain asserts that the linear combination equals zero.
	Constrain(lc LinearCombination)

	// Bind absorbs public data into the session transcript, tying the
	// proof to it.
	Bind(label string, data []byte)
}
