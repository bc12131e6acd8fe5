// lc.go - Variables and linear combinations over committed witness slots.

package r1cs

import "curvecash/internal/curves"

// Variable is a handle to one witness slot of a proof session. Variables are
// created by a Prover or Verifier and are only meaningful within the session
// that created them.
type Variable struct {
	index int
	curve curves.Curve
}

// Term is a scalar-weighted variable.
type Term struct {
	Var   Variable
	Coeff curves.Scalar
}

// LinearCombination is a weighted sum of variables plus a constant.
// Constraining one to zero asserts an equality at no multiplicative cost.
type LinearCombination struct {
	Terms    []Term
	Constant curves.Scalar // nil means zero
}

// LCVar lifts a variable into a linear combination with coefficient one.
func LCVar(v Variable) LinearCombination {
	return LinearCombination{Terms: []Term{{Var: v, Coeff: v.curve.OneScalar()}}}
}

// LCConst lifts a constant into a linear combination with no variables.
func LCConst(c curves.Scalar) LinearCombination {
	return LinearCombination{Constant: c}
}

// Add returns lc + other.
func (lc LinearCombination) Add(other LinearCombination) LinearCombination {
	terms := make([]Term, 0, len(lc.Terms)+len(other.Terms))
	terms = append(terms, lc.Terms...)
	terms = append(terms, other.Terms...)
	return LinearCombination{Terms: terms, Constant: addConst(lc.Constant, other.Constant)}
}

// Sub returns lc - other.
func (lc LinearCombination) Sub(other LinearCombination) LinearCombination {
	return lc.Add(other.Neg())
}

// Neg returns -lc.
func (lc LinearCombination) Neg() LinearCombination {
	terms := make([]Term, len(lc.Terms))
	for i, t := range lc.Terms {
		terms[i] = Term{Var: t.Var, Coeff: t.Coeff.Neg()}
	}
	var c curves.Scalar
	if lc.Constant != nil {
		c = lc.Constant.Neg()
	}
	return LinearCombination{Terms: terms, Constant: c}
}

// Scale returns s * lc.
func (lc LinearCombination) Scale(s curves.Scalar) LinearCombination {
	terms := make([]Term, len(lc.Terms))
	for i, t := range lc.Terms {
		terms[i] = Term{Var: t.Var, Coeff: t.Coeff.Mul(s)}
	}
	var c curves.Scalar
	if lc.Constant != nil {
		c = lc.Constant.Mul(s)
	}
	return LinearCombination{Terms: terms, Constant: c}
}

func addConst(a, b curves.Scalar) curves.Scalar {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return a.Add(b)
	}
}
