// linear.go - Linear-combination equality gadgets.
//
// These statements cost no multiplication gates: each is a handful of linear
// constraints over committed variables.

package gadgets

import "curvecash/internal/r1cs"

// Equality constrains a == b.
func Equality(cs r1cs.ConstraintSystem, a, b r1cs.Variable) {
	cs.Constrain(r1cs.LCVar(a).Sub(r1cs.LCVar(b)))
}

// LinearChain constrains the relation
//
//	a1 == a2 == a3
//	a4 == a1 + a2 + a3
//	d1 == a1 + a2 + a3 + a4 + a5
//	d1 == d2
//
// tying two independently committed vectors together through their sums.
func LinearChain(cs r1cs.ConstraintSystem, a1, a2, a3, a4, a5, d1, d2 r1cs.Variable) {
	cs.Constrain(r1cs.LCVar(a1).Sub(r1cs.LCVar(a2)))
	cs.Constrain(r1cs.LCVar(a2).Sub(r1cs.LCVar(a3)))
	cs.Constrain(r1cs.LCVar(a4).Sub(r1cs.LCVar(a1).Add(r1cs.LCVar(a2)).Add(r1cs.LCVar(a3))))
	sum := r1cs.LCVar(a1).Add(r1cs.LCVar(a2)).Add(r1cs.LCVar(a3)).Add(r1cs.LCVar(a4)).Add(r1cs.LCVar(a5))
	cs.Constrain(r1cs.LCVar(d1).Sub(sum))
	cs.Constrain(r1cs.LCVar(d1).Sub(r1cs.LCVar(d2)))
}

// ProductSum constrains (a1 + a2) * (b1 + b2) == c1 + c2 with a single gate.
func ProductSum(cs r1cs.ConstraintSystem, a1, a2, b1, b2, c1, c2 r1cs.Variable) {
	_, _, o := cs.Multiply(
		r1cs.LCVar(a1).Add(r1cs.LCVar(a2)),
		r1cs.LCVar(b1).Add(r1cs.LCVar(b2)),
	)
	cs.Constrain(r1cs.LCVar(o).Sub(r1cs.LCVar(c1).Add(r1cs.LCVar(c2))))
}
