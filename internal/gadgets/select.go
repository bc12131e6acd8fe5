// select.go - Set membership by polynomial root.

package gadgets

import "curvecash/internal/r1cs"

// Select constrains x to equal at least one element of xs. It builds the
// product chain (xs[0]-x) * (xs[1]-x) * ... and constrains the result to
// zero: the product vanishes exactly when some factor does. The chain starts
// at xs[0]-x, so a candidate set of n elements costs n-1 gates.
//
// An empty candidate set has no satisfiable statement and returns
// ErrPrecondition before touching the constraint system.
func Select(cs r1cs.ConstraintSystem, x r1cs.Variable, xs []r1cs.Variable) error {
	if len(xs) == 0 {
		return ErrPrecondition
	}
	acc := r1cs.LCVar(xs[0]).Sub(r1cs.LCVar(x))
	for _, candidate := range xs[1:] {
		_, _, o := cs.Multiply(acc, r1cs.LCVar(candidate).Sub(r1cs.LCVar(x)))
		acc = r1cs.LCVar(o)
	}
	cs.Constrain(acc)
	return nil
}
