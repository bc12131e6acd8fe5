// rerandomize.go - In-circuit rerandomization over the opposite cycle curve.
//
// A session over one cycle curve can express group arithmetic on the other,
// because the other curve's base field is exactly the session's scalar field.
// The gadget proves that a public point equals a hidden curve point,
// identified by a committed x-coordinate, plus a multiple of the blinding
// generator whose scalar the prover knows. Knowledge of that scalar is the
// load-bearing part: every point is some multiple of the generator, so the
// statement without it would be vacuous.

package gadgets

import (
	"math/big"

	"curvecash/internal/curves"
	"curvecash/internal/r1cs"
)

// PointCoords is an affine point of the opposite cycle curve with its
// coordinates lifted into the session scalar field.
type PointCoords struct {
	X curves.Scalar
	Y curves.Scalar
}

// RerandParams carries what the gadget needs to know about the opposite
// curve: the constant of its short-Weierstrass equation and the power-of-two
// multiples of its blinding generator, all as session scalars.
type RerandParams struct {
	CurveB curves.Scalar
	Steps  []PointCoords // Steps[i] = 2^i * H
}

// NewRerandParams precomputes the step table for rerandomization of points
// on the opposite curve inside sessions over session. blindingBase is the
// opposite curve's blinding generator H.
func NewRerandParams(session, opposite curves.Curve, blindingBase curves.Point) *RerandParams {
	steps := make([]PointCoords, curves.ScalarBits)
	p := blindingBase
	for i := range steps {
		steps[i] = PointCoords{
			X: session.ScalarFromBigInt(p.X()),
			Y: session.ScalarFromBigInt(p.Y()),
		}
		p = p.Add(p)
	}
	return &RerandParams{
		CurveB: session.ScalarFromBigInt(opposite.EquationB()),
		Steps:  steps,
	}
}

// RerandWitness is the prover-side witness: the pre-image point and the
// rerandomization scalar as an integer. Verifiers pass nil.
type RerandWitness struct {
	Point PointCoords
	Delta *big.Int
}

// Rerandomize constrains target == P + delta*H on the opposite curve, where
// P is a curve point whose x-coordinate is the committed variable x and
// delta is a witness scalar the prover supplies bit by bit. The y-coordinate
// of P is a free witness, so the relation identifies P only up to sign;
// downstream relations that open the target under a binding basis inherit
// the exact point.
//
// The addition chain starts at P and walks the precomputed doublings of H
// with one conditional affine addition per bit, ending at the public target
// coordinates. Affine chords are partial: the chain breaks if a running sum
// collides with a table entry, which for a uniformly drawn delta happens
// with negligible probability.
func Rerandomize(
	cs r1cs.ConstraintSystem,
	params *RerandParams,
	x r1cs.Variable,
	target PointCoords,
	w *RerandWitness,
) error {
	if w != nil && (w.Delta.Sign() < 0 || w.Delta.BitLen() > len(params.Steps)) {
		return ErrPrecondition
	}
	curve := cs.Curve()
	one := curve.OneScalar()

	// Curve membership of P: y^2 = x^3 + b, with y on both input wires of
	// one squaring gate.
	_, _, x2 := cs.Multiply(r1cs.LCVar(x), r1cs.LCVar(x))
	_, _, x3 := cs.Multiply(r1cs.LCVar(x2), r1cs.LCVar(x))
	var yAssign *r1cs.Assignment
	if w != nil {
		yAssign = &r1cs.Assignment{Left: w.Point.Y, Right: w.Point.Y}
	}
	yl, yr, ysq, err := cs.AllocateMultiplier(yAssign)
	if err != nil {
		return err
	}
	cs.Constrain(r1cs.LCVar(yl).Sub(r1cs.LCVar(yr)))
	cs.Constrain(r1cs.LCVar(ysq).Sub(r1cs.LCVar(x3)).Sub(r1cs.LCConst(params.CurveB)))

	// Running sum of the chain, as linear combinations over the session
	// witness. The shadow value av tracks the prover-side assignment.
	ax := r1cs.LCVar(x)
	ay := r1cs.LCVar(yl)
	var av PointCoords
	if w != nil {
		av = w.Point
	}

	for i, step := range params.Steps {
		var bit uint
		var bAssign, lAssign *r1cs.Assignment
		var uv PointCoords
		if w != nil {
			bit = w.Delta.Bit(i)
			b := curve.ScalarFromUint64(uint64(bit))
			bAssign = &r1cs.Assignment{Left: b, Right: one.Sub(b)}
			// Chord sum u = a + 2^i*H, computed whether or not the bit
			// selects it; the wire constraints below hold either way.
			lambda := step.Y.Sub(av.Y).Mul(step.X.Sub(av.X).Inverse())
			uv.X = lambda.Mul(lambda).Sub(av.X).Sub(step.X)
			uv.Y = lambda.Mul(av.X.Sub(uv.X)).Sub(av.Y)
			lAssign = &r1cs.Assignment{Left: lambda, Right: step.X.Sub(av.X)}
		}

		bl, br, bo, err := cs.AllocateMultiplier(bAssign)
		if err != nil {
			return err
		}
		cs.Constrain(r1cs.LCVar(bo))
		cs.Constrain(r1cs.LCVar(bl).Add(r1cs.LCVar(br)).Sub(r1cs.LCConst(one)))

		// lambda * (step.x - a.x) = step.y - a.y pins the chord slope.
		ll, lr, lo, err := cs.AllocateMultiplier(lAssign)
		if err != nil {
			return err
		}
		cs.Constrain(r1cs.LCVar(lr).Sub(r1cs.LCConst(step.X)).Add(ax))
		cs.Constrain(r1cs.LCVar(lo).Sub(r1cs.LCConst(step.Y)).Add(ay))

		_, _, lsq := cs.Multiply(r1cs.LCVar(ll), r1cs.LCVar(ll))
		ux := r1cs.LCVar(lsq).Sub(ax).Sub(r1cs.LCConst(step.X))
		_, _, m := cs.Multiply(r1cs.LCVar(ll), ax.Sub(ux))
		uy := r1cs.LCVar(m).Sub(ay)

		// a' = a + bit*(u - a).
		_, _, sx := cs.Multiply(r1cs.LCVar(bl), ux.Sub(ax))
		_, _, sy := cs.Multiply(r1cs.LCVar(bl), uy.Sub(ay))
		ax = ax.Add(r1cs.LCVar(sx))
		ay = ay.Add(r1cs.LCVar(sy))
		if w != nil && bit == 1 {
			av = uv
		}
	}

	cs.Constrain(ax.Sub(r1cs.LCConst(target.X)))
	cs.Constrain(ay.Sub(r1cs.LCConst(target.Y)))
	return nil
}
