// system.go - State shared by the prover and verifier sides of a session.
//
// Both sides derive an identical equation system from the same sequence of
// commit/multiply/constrain calls; the witness values exist only on the
// prover. Keeping the derivation in one place guarantees the transcripts and
// equation orderings agree.

package r1cs

import "curvecash/internal/curves"

// Gate equation slots, in the order the equations are appended.
const (
	slotLeftOpening = iota
	slotRightOpening
	slotOutputOpening
	slotProduct
)

// gate is one multiplication gate: three committed wires plus the slack
// witness of the product equation aR*C_L + t*H = C_O, which forces
// aO = aL*aR under the binding of the commitments.
type gate struct {
	l, r, o    int // wire witness slots
	sl, sr, so int // wire commitment blinding slots
	t          int // product-equation slack slot

	// Wire commitments. The prover fills these at allocation time; the
	// verifier fills them from the proof.
	cl, cr, co curves.Point
}

type pointTerm struct {
	idx  int
	base curves.Point
}

// pointEq is one group equation sum(w_i * base_i) = target over the witness
// vector. Equations belonging to a gate have their target (and, for the
// product slot, one base) resolved from the gate commitments.
type pointEq struct {
	terms  []pointTerm
	target curves.Point
	gate   int // -1 for commitment equations
	slot   int
}

type system struct {
	curve curves.Curve
	pc    *PedersenGens
	tr    *Transcript

	nVars     int
	gates     []gate
	pointEqs  []pointEq
	scalarEqs []LinearCombination // each constrained to equal zero
}

func newSystem(c curves.Curve, pc *PedersenGens, tr *Transcript) system {
	return system{curve: c, pc: pc, tr: tr}
}

func (s *system) Curve() curves.Curve {
	return s.curve
}

func (s *system) Bind(label string, data []byte) {
	s.tr.AppendBytes(label, data)
}

func (s *system) alloc() int {
	i := s.nVars
	s.nVars++
	return i
}

func (s *system) variable(idx int) Variable {
	return Variable{index: idx, curve: s.curve}
}

// Constrain asserts lc == 0.
func (s *system) Constrain(lc LinearCombination) {
	s.scalarEqs = append(s.scalarEqs, lc)
}

// appendGate registers the gate's witness slots and its four equations.
// The allocation order (l, r, o, sl, sr, so, t) is part of the protocol:
// both sides must produce the same witness indexing.
func (s *system) appendGate() int {
	g := gate{
		l: s.alloc(), r: s.alloc(), o: s.alloc(),
		sl: s.alloc(), sr: s.alloc(), so: s.alloc(),
		t: s.alloc(),
	}
	gi := len(s.gates)
	s.gates = append(s.gates, g)

	s.pointEqs = append(s.pointEqs,
		pointEq{terms: []pointTerm{{g.l, s.pc.B}, {g.sl, s.pc.BBlinding}}, gate: gi, slot: slotLeftOpening},
		pointEq{terms: []pointTerm{{g.r, s.pc.B}, {g.sr, s.pc.BBlinding}}, gate: gi, slot: slotRightOpening},
		pointEq{terms: []pointTerm{{g.o, s.pc.B}, {g.so, s.pc.BBlinding}}, gate: gi, slot: slotOutputOpening},
		// The product equation's first base is the gate's left commitment,
		// resolved once the commitments are known.
		pointEq{terms: []pointTerm{{g.r, nil}, {g.t, s.pc.BBlinding}}, gate: gi, slot: slotProduct},
	)
	return gi
}

// resolveGateEqs fills in the targets and dynamic bases of all gate
// equations from the gate commitments.
func (s *system) resolveGateEqs() {
	for i := range s.pointEqs {
		eq := &s.pointEqs[i]
		if eq.gate < 0 {
			continue
		}
		g := s.gates[eq.gate]
		switch eq.slot {
		case slotLeftOpening:
			eq.target = g.cl
		case slotRightOpening:
			eq.target = g.cr
		case slotOutputOpening:
			eq.target = g.co
		case slotProduct:
			eq.target = g.co
			eq.terms[0].base = g.cl
		}
	}
}

// appendGateComms absorbs the gate commitments into the transcript, in gate
// order, before the challenge is derived.
func (s *system) appendGateComms() {
	for _, g := range s.gates {
		s.tr.AppendPoint("gate-cl", g.cl)
		s.tr.AppendPoint("gate-cr", g.cr)
		s.tr.AppendPoint("gate-co", g.co)
	}
}
