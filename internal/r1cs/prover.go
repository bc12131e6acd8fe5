// prover.go - Witness-tracking side of a proof session.

package r1cs

import (
	crand "crypto/rand"
	"fmt"

	"curvecash/internal/curves"
)

// Prover accumulates commitments, gates and constraints, then produces one
// aggregated proof of knowledge of a witness satisfying all of them.
type Prover struct {
	system
	witness []curves.Scalar
}

// NewProver starts a proving session on the given transcript. The transcript
// must not be shared with any other session.
func NewProver(c curves.Curve, pc *PedersenGens, tr *Transcript) *Prover {
	return &Prover{system: newSystem(c, pc, tr)}
}

func (p *Prover) allocValue(v curves.Scalar) int {
	p.witness = append(p.witness, v)
	return p.alloc()
}

// randomScalar draws commitment blindings and nonces. A failing system rng
// leaves no safe way to continue a proof, so it panics like crypto/rand
// itself would.
func (p *Prover) randomScalar() curves.Scalar {
	s, err := p.curve.RandomScalar(crand.Reader)
	if err != nil {
		panic(fmt.Sprintf("r1cs: system randomness unavailable: %v", err))
	}
	return s
}

func (p *Prover) eval(lc LinearCombination) curves.Scalar {
	acc := p.curve.ZeroScalar()
	if lc.Constant != nil {
		acc = acc.Add(lc.Constant)
	}
	for _, t := range lc.Terms {
		acc = acc.Add(t.Coeff.Mul(p.witness[t.Var.index]))
	}
	return acc
}

// Commit commits to a single value under the session's Pedersen basis and
// returns the public commitment with the value's variable handle.
func (p *Prover) Commit(value, blinding curves.Scalar) (curves.Point, Variable) {
	iv := p.allocValue(value)
	ir := p.allocValue(blinding)
	commitment := p.pc.B.ScalarMul(value).Add(p.pc.BBlinding.ScalarMul(blinding))
	p.pointEqs = append(p.pointEqs, pointEq{
		terms:  []pointTerm{{iv, p.pc.B}, {ir, p.pc.BBlinding}},
		target: commitment,
		gate:   -1,
	})
	p.tr.AppendPoint("commitment", commitment)
	return commitment, p.variable(iv)
}

// CommitUnblinded commits to a single value with no blinding term. The
// commitment is value*B exactly, so equal values produce equal commitments
// across sessions; spending tags rely on this.
func (p *Prover) CommitUnblinded(value curves.Scalar) (curves.Point, Variable) {
	iv := p.allocValue(value)
	commitment := p.pc.B.ScalarMul(value)
	p.pointEqs = append(p.pointEqs, pointEq{
		terms:  []pointTerm{{iv, p.pc.B}},
		target: commitment,
		gate:   -1,
	})
	p.tr.AppendPoint("commitment", commitment)
	return commitment, p.variable(iv)
}

// CommitVec commits to a vector of values under the vector basis, all hidden
// by a single blinding scalar, and returns one variable per entry.
func (p *Prover) CommitVec(values []curves.Scalar, blinding curves.Scalar, bp *BulletproofGens) (curves.Point, []Variable, error) {
	if len(values) > bp.Capacity() {
		return nil, nil, ErrCapacityExceeded
	}
	commitment := p.pc.BBlinding.ScalarMul(blinding)
	vars := make([]Variable, len(values))
	terms := make([]pointTerm, 0, len(values)+1)
	for j, v := range values {
		idx := p.allocValue(v)
		vars[j] = p.variable(idx)
		terms = append(terms, pointTerm{idx, bp.G[j]})
		commitment = commitment.Add(bp.G[j].ScalarMul(v))
	}
	ir := p.allocValue(blinding)
	terms = append(terms, pointTerm{ir, p.pc.BBlinding})
	p.pointEqs = append(p.pointEqs, pointEq{terms: terms, target: commitment, gate: -1})
	p.tr.AppendPoint("commitment", commitment)
	return commitment, vars, nil
}

// allocateGate creates a multiplication gate for the given wire values,
// committing each wire with a fresh blinding.
func (p *Prover) allocateGate(lv, rv, ov curves.Scalar) (Variable, Variable, Variable) {
	sl := p.randomScalar()
	sr := p.randomScalar()
	so := p.randomScalar()
	// Slack of the product equation: aR*C_L + t*H = C_O.
	t := so.Sub(rv.Mul(sl))

	gi := p.appendGate()
	g := &p.gates[gi]
	p.witness = append(p.witness, lv, rv, ov, sl, sr, so, t)
	g.cl = p.pc.B.ScalarMul(lv).Add(p.pc.BBlinding.ScalarMul(sl))
	g.cr = p.pc.B.ScalarMul(rv).Add(p.pc.BBlinding.ScalarMul(sr))
	g.co = p.pc.B.ScalarMul(ov).Add(p.pc.BBlinding.ScalarMul(so))
	return p.variable(g.l), p.variable(g.r), p.variable(g.o)
}

// Multiply implements ConstraintSystem.
func (p *Prover) Multiply(l, r LinearCombination) (Variable, Variable, Variable) {
	lv := p.eval(l)
	rv := p.eval(r)
	lVar, rVar, oVar := p.allocateGate(lv, rv, lv.Mul(rv))
	p.Constrain(l.Sub(LCVar(lVar)))
	p.Constrain(r.Sub(LCVar(rVar)))
	return lVar, rVar, oVar
}

// AllocateMultiplier implements ConstraintSystem. The prover requires the
// wire assignment.
func (p *Prover) AllocateMultiplier(assignment *Assignment) (Variable, Variable, Variable, error) {
	if assignment == nil {
		return Variable{}, Variable{}, Variable{}, ErrMissingAssignment
	}
	lVar, rVar, oVar := p.allocateGate(assignment.Left, assignment.Right, assignment.Left.Mul(assignment.Right))
	return lVar, rVar, oVar, nil
}

// Prove finalizes the session: it absorbs the gate commitments, announces a
// nonce image of every equation, derives the Fiat-Shamir challenge and
// returns the aggregated responses. No partial proof is ever returned.
func (p *Prover) Prove() (*Proof, error) {
	p.resolveGateEqs()
	p.appendGateComms()

	// One nonce per witness slot; announcements are the nonce images of
	// every equation under the same linear maps as the witness.
	nonces := make([]curves.Scalar, len(p.witness))
	for i := range nonces {
		nonces[i] = p.randomScalar()
	}

	annPoints := make([]curves.Point, len(p.pointEqs))
	for i, eq := range p.pointEqs {
		acc := p.curve.Identity()
		for _, t := range eq.terms {
			acc = acc.Add(t.base.ScalarMul(nonces[t.idx]))
		}
		annPoints[i] = acc
		p.tr.AppendPoint("ann-point", acc)
	}

	annScalars := make([]curves.Scalar, len(p.scalarEqs))
	for i, lc := range p.scalarEqs {
		acc := p.curve.ZeroScalar()
		for _, t := range lc.Terms {
			acc = acc.Add(t.Coeff.Mul(nonces[t.Var.index]))
		}
		annScalars[i] = acc
		p.tr.AppendScalar("ann-scalar", acc)
	}

	e := p.tr.ChallengeScalar("challenge")

	responses := make([]curves.Scalar, len(p.witness))
	for i, w := range p.witness {
		responses[i] = nonces[i].Add(e.Mul(w))
	}

	gateComms := make([]curves.Point, 0, 3*len(p.gates))
	for _, g := range p.gates {
		gateComms = append(gateComms, g.cl, g.cr, g.co)
	}
	return &Proof{
		GateComms:  gateComms,
		AnnPoints:  annPoints,
		AnnScalars: annScalars,
		Responses:  responses,
	}, nil
}
