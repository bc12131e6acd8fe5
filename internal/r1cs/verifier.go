// verifier.go - Commitment-tracking side of a proof session.

package r1cs

import "curvecash/internal/curves"

// Verifier replays a proving session from public data alone. It must make
// exactly the same sequence of commit/multiply/constrain calls as the prover
// did, which the gadget layer guarantees by running the same code on both
// sides.
type Verifier struct {
	system
}

// NewVerifier starts a verifying session on the given transcript.
func NewVerifier(c curves.Curve, pc *PedersenGens, tr *Transcript) *Verifier {
	return &Verifier{system: newSystem(c, pc, tr)}
}

// Commit registers a public single-value commitment and returns the handle of
// its hidden value.
func (v *Verifier) Commit(commitment curves.Point) Variable {
	iv := v.alloc()
	ir := v.alloc()
	v.pointEqs = append(v.pointEqs, pointEq{
		terms:  []pointTerm{{iv, v.pc.B}, {ir, v.pc.BBlinding}},
		target: commitment,
		gate:   -1,
	})
	v.tr.AppendPoint("commitment", commitment)
	return v.variable(iv)
}

// CommitUnblinded registers a public commitment carrying no blinding slot.
// The equation admits value*B and nothing else: a point shifted by any
// multiple of the blinding generator cannot satisfy it.
func (v *Verifier) CommitUnblinded(commitment curves.Point) Variable {
	iv := v.alloc()
	v.pointEqs = append(v.pointEqs, pointEq{
		terms:  []pointTerm{{iv, v.pc.B}},
		target: commitment,
		gate:   -1,
	})
	v.tr.AppendPoint("commitment", commitment)
	return v.variable(iv)
}

// CommitVec registers a public vector commitment of n hidden entries and
// returns their handles.
func (v *Verifier) CommitVec(n int, commitment curves.Point, bp *BulletproofGens) ([]Variable, error) {
	if n > bp.Capacity() {
		return nil, ErrCapacityExceeded
	}
	vars := make([]Variable, n)
	terms := make([]pointTerm, 0, n+1)
	for j := 0; j < n; j++ {
		idx := v.alloc()
		vars[j] = v.variable(idx)
		terms = append(terms, pointTerm{idx, bp.G[j]})
	}
	ir := v.alloc()
	terms = append(terms, pointTerm{ir, v.pc.BBlinding})
	v.pointEqs = append(v.pointEqs, pointEq{terms: terms, target: commitment, gate: -1})
	v.tr.AppendPoint("commitment", commitment)
	return vars, nil
}

// Multiply implements ConstraintSystem.
func (v *Verifier) Multiply(l, r LinearCombination) (Variable, Variable, Variable) {
	gi := v.appendGate()
	g := v.gates[gi]
	lVar, rVar, oVar := v.variable(g.l), v.variable(g.r), v.variable(g.o)
	v.Constrain(l.Sub(LCVar(lVar)))
	v.Constrain(r.Sub(LCVar(rVar)))
	return lVar, rVar, oVar
}

// AllocateMultiplier implements ConstraintSystem. The verifier has no witness,
// so the assignment is ignored.
func (v *Verifier) AllocateMultiplier(_ *Assignment) (Variable, Variable, Variable, error) {
	gi := v.appendGate()
	g := v.gates[gi]
	return v.variable(g.l), v.variable(g.r), v.variable(g.o), nil
}

// Verify checks the proof against the replayed session. Any mismatch, in
// shape or in algebra, yields ErrVerification.
func (v *Verifier) Verify(proof *Proof) error {
	if proof == nil ||
		len(proof.GateComms) != 3*len(v.gates) ||
		len(proof.AnnPoints) != len(v.pointEqs) ||
		len(proof.AnnScalars) != len(v.scalarEqs) ||
		len(proof.Responses) != v.nVars {
		return ErrVerification
	}
	for gi := range v.gates {
		g := &v.gates[gi]
		g.cl = proof.GateComms[3*gi]
		g.cr = proof.GateComms[3*gi+1]
		g.co = proof.GateComms[3*gi+2]
	}
	v.resolveGateEqs()
	v.appendGateComms()

	for _, p := range proof.AnnPoints {
		v.tr.AppendPoint("ann-point", p)
	}
	for _, s := range proof.AnnScalars {
		v.tr.AppendScalar("ann-scalar", s)
	}
	e := v.tr.ChallengeScalar("challenge")

	// Point equations: sum(z_i * base_i) == T + e * target.
	for i, eq := range v.pointEqs {
		lhs := v.curve.Identity()
		for _, t := range eq.terms {
			lhs = lhs.Add(t.base.ScalarMul(proof.Responses[t.idx]))
		}
		rhs := proof.AnnPoints[i].Add(eq.target.ScalarMul(e))
		if !lhs.Equal(rhs) {
			return ErrVerification
		}
	}

	// Scalar equations: each lc is constrained to zero, so the witness image
	// of its variable part equals -constant.
	for i, lc := range v.scalarEqs {
		lhs := v.curve.ZeroScalar()
		for _, t := range lc.Terms {
			lhs = lhs.Add(t.Coeff.Mul(proof.Responses[t.Var.index]))
		}
		rhs := proof.AnnScalars[i]
		if lc.Constant != nil {
			rhs = rhs.Sub(e.Mul(lc.Constant))
		}
		if !lhs.Equal(rhs) {
			return ErrVerification
		}
	}
	return nil
}
