package r1cs

import (
	"crypto/rand"
	"testing"

	"curvecash/internal/curves"
)

func testSetup(t *testing.T) (curves.Curve, *PedersenGens, *BulletproofGens) {
	t.Helper()
	c := curves.Even()
	return c, NewPedersenGens(c), NewBulletproofGens(c, 8)
}

func randomScalarT(t *testing.T, c curves.Curve) curves.Scalar {
	t.Helper()
	s, err := c.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	return s
}

func TestCommitProveVerify(t *testing.T) {
	c, pc, _ := testSetup(t)

	t.Run("Opening Proof Round Trip", func(t *testing.T) {
		prover := NewProver(c, pc, NewTranscript("test/opening", c))
		value := randomScalarT(t, c)
		blinding := randomScalarT(t, c)
		commitment, _ := prover.Commit(value, blinding)

		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove: %v", err)
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/opening", c))
		verifier.Commit(commitment)
		if err := verifier.Verify(proof); err != nil {
			t.Fatalf("verify: %v", err)
		}
	})

	t.Run("Wrong Commitment Fails", func(t *testing.T) {
		prover := NewProver(c, pc, NewTranscript("test/opening", c))
		prover.Commit(randomScalarT(t, c), randomScalarT(t, c))
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove: %v", err)
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/opening", c))
		verifier.Commit(pc.B.ScalarMul(randomScalarT(t, c)))
		if err := verifier.Verify(proof); err != ErrVerification {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})

	t.Run("Transcript Label Mismatch Fails", func(t *testing.T) {
		prover := NewProver(c, pc, NewTranscript("test/label-a", c))
		commitment, _ := prover.Commit(randomScalarT(t, c), randomScalarT(t, c))
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove: %v", err)
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/label-b", c))
		verifier.Commit(commitment)
		if err := verifier.Verify(proof); err != ErrVerification {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})
}

func TestCommitUnblinded(t *testing.T) {
	c, pc, _ := testSetup(t)

	t.Run("Deterministic In The Value", func(t *testing.T) {
		v := randomScalarT(t, c)
		p1 := NewProver(c, pc, NewTranscript("test/unblinded", c))
		c1, _ := p1.CommitUnblinded(v)
		p2 := NewProver(c, pc, NewTranscript("test/unblinded", c))
		c2, _ := p2.CommitUnblinded(v)
		if !c1.Equal(c2) {
			t.Fatal("equal values produced different unblinded commitments")
		}
	})

	t.Run("Round Trip Through A Gate", func(t *testing.T) {
		// Mirror of the tag relation: an unblinded inverse tied to a
		// blinded value by x * xinv = 1.
		x := randomScalarT(t, c)
		prover := NewProver(c, pc, NewTranscript("test/unblinded", c))
		cx, vx := prover.Commit(x, randomScalarT(t, c))
		ci, vi := prover.CommitUnblinded(x.Inverse())
		_, _, o := prover.Multiply(LCVar(vx), LCVar(vi))
		prover.Constrain(LCVar(o).Sub(LCConst(c.OneScalar())))
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove: %v", err)
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/unblinded", c))
		wx := verifier.Commit(cx)
		wi := verifier.CommitUnblinded(ci)
		_, _, wo := verifier.Multiply(LCVar(wx), LCVar(wi))
		verifier.Constrain(LCVar(wo).Sub(LCConst(c.OneScalar())))
		if err := verifier.Verify(proof); err != nil {
			t.Fatalf("verify: %v", err)
		}
	})

	t.Run("Blinded Point Rejected", func(t *testing.T) {
		// A commitment shifted by any multiple of the blinding generator
		// must not satisfy the unblinded equation.
		v := randomScalarT(t, c)
		prover := NewProver(c, pc, NewTranscript("test/unblinded", c))
		commitment, _ := prover.CommitUnblinded(v)
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove: %v", err)
		}

		shifted := commitment.Add(pc.BBlinding.ScalarMul(randomScalarT(t, c)))
		verifier := NewVerifier(c, pc, NewTranscript("test/unblinded", c))
		verifier.CommitUnblinded(shifted)
		if err := verifier.Verify(proof); err != ErrVerification {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})
}

func TestCommitVec(t *testing.T) {
	c, pc, bp := testSetup(t)

	t.Run("Vector Round Trip", func(t *testing.T) {
		values := make([]curves.Scalar, 5)
		for i := range values {
			values[i] = randomScalarT(t, c)
		}
		blinding := randomScalarT(t, c)

		prover := NewProver(c, pc, NewTranscript("test/vec", c))
		commitment, _, err := prover.CommitVec(values, blinding, bp)
		if err != nil {
			t.Fatalf("commit vec: %v", err)
		}
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove: %v", err)
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/vec", c))
		if _, err := verifier.CommitVec(len(values), commitment, bp); err != nil {
			t.Fatalf("verifier commit vec: %v", err)
		}
		if err := verifier.Verify(proof); err != nil {
			t.Fatalf("verify: %v", err)
		}
	})

	t.Run("Capacity Exceeded", func(t *testing.T) {
		values := make([]curves.Scalar, bp.Capacity()+1)
		for i := range values {
			values[i] = c.ZeroScalar()
		}
		prover := NewProver(c, pc, NewTranscript("test/vec", c))
		if _, _, err := prover.CommitVec(values, c.ZeroScalar(), bp); err != ErrCapacityExceeded {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
	})
}

func TestMultiplyGate(t *testing.T) {
	c, pc, _ := testSetup(t)

	// Commit a, b, c with c = a*b and constrain the product through a gate.
	runSession := func(a, b, prod curves.Scalar) error {
		prover := NewProver(c, pc, NewTranscript("test/mul", c))
		ca, va := prover.Commit(a, randomScalarT(t, c))
		cb, vb := prover.Commit(b, randomScalarT(t, c))
		cc, vc := prover.Commit(prod, randomScalarT(t, c))
		_, _, o := prover.Multiply(LCVar(va), LCVar(vb))
		prover.Constrain(LCVar(o).Sub(LCVar(vc)))
		proof, err := prover.Prove()
		if err != nil {
			return err
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/mul", c))
		wa := verifier.Commit(ca)
		wb := verifier.Commit(cb)
		wc := verifier.Commit(cc)
		_, _, wo := verifier.Multiply(LCVar(wa), LCVar(wb))
		verifier.Constrain(LCVar(wo).Sub(LCVar(wc)))
		return verifier.Verify(proof)
	}

	t.Run("True Product Verifies", func(t *testing.T) {
		a := randomScalarT(t, c)
		b := randomScalarT(t, c)
		if err := runSession(a, b, a.Mul(b)); err != nil {
			t.Fatalf("verify: %v", err)
		}
	})

	t.Run("False Product Fails", func(t *testing.T) {
		a := randomScalarT(t, c)
		b := randomScalarT(t, c)
		wrong := a.Mul(b).Add(c.OneScalar())
		if err := runSession(a, b, wrong); err != ErrVerification {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})
}

func TestAllocateMultiplier(t *testing.T) {
	c, pc, _ := testSetup(t)

	t.Run("Missing Assignment", func(t *testing.T) {
		prover := NewProver(c, pc, NewTranscript("test/alloc", c))
		if _, _, _, err := prover.AllocateMultiplier(nil); err != ErrMissingAssignment {
			t.Fatalf("expected ErrMissingAssignment, got %v", err)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		prover := NewProver(c, pc, NewTranscript("test/alloc", c))
		a := randomScalarT(t, c)
		b := randomScalarT(t, c)
		l, r, o, err := prover.AllocateMultiplier(&Assignment{Left: a, Right: b})
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		// Tie the wires together so the statement is non-trivial.
		prover.Constrain(LCVar(o).Sub(LCVar(l)).Sub(LCVar(r)).Add(LCConst(a.Add(b).Sub(a.Mul(b)))))
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove: %v", err)
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/alloc", c))
		vl, vr, vo, err := verifier.AllocateMultiplier(nil)
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		verifier.Constrain(LCVar(vo).Sub(LCVar(vl)).Sub(LCVar(vr)).Add(LCConst(a.Add(b).Sub(a.Mul(b)))))
		if err := verifier.Verify(proof); err != nil {
			t.Fatalf("verify: %v", err)
		}
	})
}

func TestProofSerialization(t *testing.T) {
	c, pc, bp := testSetup(t)

	prover := NewProver(c, pc, NewTranscript("test/serial", c))
	commitment, _, err := prover.CommitVec([]curves.Scalar{c.ScalarFromUint64(42)}, randomScalarT(t, c), bp)
	if err != nil {
		t.Fatalf("commit vec: %v", err)
	}
	v := randomScalarT(t, c)
	cv, vv := prover.Commit(v, randomScalarT(t, c))
	prover.Multiply(LCVar(vv), LCVar(vv))
	proof, err := prover.Prove()
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	encoded := proof.Bytes()
	decoded, err := ParseProof(c, encoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	verifier := NewVerifier(c, pc, NewTranscript("test/serial", c))
	if _, err := verifier.CommitVec(1, commitment, bp); err != nil {
		t.Fatalf("verifier commit vec: %v", err)
	}
	wv := verifier.Commit(cv)
	verifier.Multiply(LCVar(wv), LCVar(wv))
	if err := verifier.Verify(decoded); err != nil {
		t.Fatalf("verify decoded proof: %v", err)
	}

	t.Run("Truncated Encoding Rejected", func(t *testing.T) {
		if _, err := ParseProof(c, encoded[:len(encoded)-1]); err != ErrMalformedProof {
			t.Fatalf("expected ErrMalformedProof, got %v", err)
		}
	})

	t.Run("Empty Encoding Rejected", func(t *testing.T) {
		if _, err := ParseProof(c, nil); err != ErrMalformedProof {
			t.Fatalf("expected ErrMalformedProof, got %v", err)
		}
	})
}

func TestRandomizedOpeningTrials(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping randomized trials in short mode")
	}
	c, pc, _ := testSetup(t)

	for trial := 0; trial < 500; trial++ {
		value := randomScalarT(t, c)
		blinding := randomScalarT(t, c)

		prover := NewProver(c, pc, NewTranscript("test/trials", c))
		commitment, _ := prover.Commit(value, blinding)
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("trial %d: prove: %v", trial, err)
		}

		verifier := NewVerifier(c, pc, NewTranscript("test/trials", c))
		verifier.Commit(commitment)
		if err := verifier.Verify(proof); err != nil {
			t.Fatalf("trial %d: verify: %v", trial, err)
		}

		// Every other trial, also check a corrupted commitment fails.
		if trial%2 == 0 {
			bad := NewVerifier(c, pc, NewTranscript("test/trials", c))
			bad.Commit(commitment.Add(pc.B))
			if err := bad.Verify(proof); err != ErrVerification {
				t.Fatalf("trial %d: corrupted commitment accepted", trial)
			}
		}
	}
}
