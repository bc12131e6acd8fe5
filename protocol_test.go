package main

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
	"time"

	"curvecash/internal/coin"
	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
	"curvecash/internal/r1cs"
)

const testTreeCapacity = 32

type protocolEnv struct {
	pair   *curves.CurvePair
	params *curvetree.SelRerandParameters
	tree   *curvetree.CurveTree
	ledger *coin.Ledger
}

func newProtocolEnv(t *testing.T) *protocolEnv {
	t.Helper()
	pair := curves.NewCurvePair()
	params := curvetree.NewSelRerandParameters(pair, testTreeCapacity)
	return &protocolEnv{
		pair:   pair,
		params: params,
		tree:   curvetree.NewCurveTree(params, pair),
		ledger: coin.NewLedger(),
	}
}

// mintCoin runs the full public minting pipeline for a fresh recipient and
// returns the spending material.
func (env *protocolEnv) mintCoin(t *testing.T, value uint64) *coin.SpendingInfo {
	t.Helper()
	sk, pk, err := coin.GenerateKeys(env.params, rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	tx, c, mo, err := coin.CreateMintTx(env.params, value, pk, rand.Reader)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := coin.VerifyMintTx(env.params, tx); err != nil {
		t.Fatalf("mint verification failed: %v", err)
	}
	permissible, err := coin.CombineMintTx(env.params, env.pair, tx)
	if err != nil {
		t.Fatalf("combine failed: %v", err)
	}
	index, err := env.tree.Insert(permissible.Coin)
	if err != nil {
		t.Fatalf("accumulator insert failed: %v", err)
	}
	env.ledger.AppendMint(tx, fmt.Sprintf("%x", permissible.Coin.Bytes()))
	return &coin.SpendingInfo{
		Index:       index,
		Coin:        c,
		Output:      mo,
		Permissible: permissible,
		Sk:          sk,
	}
}

// =============================================================================
// 1. INFRASTRUCTURE/BUILDING BLOCK TESTS
// =============================================================================

func TestCryptographicInfrastructure(t *testing.T) {
	env := newProtocolEnv(t)

	t.Run("Curve Cycle", func(t *testing.T) {
		// The even curve's base field is the odd curve's scalar field and
		// vice versa, so x-coordinates cross between the sessions exactly.
		p := env.pair.Even.HashToPoint([]byte("protocol/cycle"))
		if env.pair.EvenXAsOddScalar(p).BigInt().Cmp(p.X()) != 0 {
			t.Error("even x-coordinate is not an exact odd scalar")
		}
		q := env.pair.Odd.HashToPoint([]byte("protocol/cycle"))
		if env.pair.OddXAsEvenScalar(q).BigInt().Cmp(q.X()) != 0 {
			t.Error("odd x-coordinate is not an exact even scalar")
		}
	})

	t.Run("Key Pair", func(t *testing.T) {
		sk, pk, err := coin.GenerateKeys(env.params, rand.Reader)
		if err != nil {
			t.Fatalf("key generation failed: %v", err)
		}
		odd := env.params.Odd
		expected := odd.Pc.B.ScalarMul(sk.PrfKey).Add(odd.Pc.BBlinding.ScalarMul(sk.Randomness))
		if !pk.Equal(expected) {
			t.Error("public key does not open under its secret key")
		}
	})

	t.Run("Permissible Padding", func(t *testing.T) {
		even := env.params.Even
		c := even.Pc.B.ScalarMul(even.Curve.ScalarFromUint64(987654321))
		p, pad, err := curvetree.PermissibleCommitment(c, even.Pc.BBlinding, even.Curve)
		if err != nil {
			t.Fatalf("padding search failed: %v", err)
		}
		if !curvetree.IsPermissible(p) {
			t.Error("padded point is not permissible")
		}
		if !p.Equal(c.Add(even.Pc.BBlinding.ScalarMul(pad))) {
			t.Error("padding does not open the permissible point")
		}
	})

	t.Run("Opening Proof", func(t *testing.T) {
		even := env.params.Even
		value, err := even.Curve.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("random scalar: %v", err)
		}
		blinding, err := even.Curve.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("random scalar: %v", err)
		}
		prover := r1cs.NewProver(even.Curve, even.Pc, r1cs.NewTranscript("protocol/opening", even.Curve))
		commitment, _ := prover.Commit(value, blinding)
		proof, err := prover.Prove()
		if err != nil {
			t.Fatalf("prove failed: %v", err)
		}
		verifier := r1cs.NewVerifier(even.Curve, even.Pc, r1cs.NewTranscript("protocol/opening", even.Curve))
		verifier.Commit(commitment)
		if err := verifier.Verify(proof); err != nil {
			t.Fatalf("verify failed: %v", err)
		}
	})
}

// =============================================================================
// 2. TRANSACTION LIFECYCLE TESTS
// =============================================================================

func TestCoinLifecycle(t *testing.T) {
	env := newProtocolEnv(t)

	t.Run("Mint Combine Insert Spend", func(t *testing.T) {
		info := env.mintCoin(t, 1337)

		root, err := env.tree.Root()
		if err != nil {
			t.Fatalf("root failed: %v", err)
		}
		spendTx, err := coin.CreateSpendTx(env.params, env.pair, info, env.tree, rand.Reader)
		if err != nil {
			t.Fatalf("spend failed: %v", err)
		}
		if err := coin.VerifySpendTx(env.params, root, spendTx); err != nil {
			t.Fatalf("spend verification failed: %v", err)
		}
		if err := env.ledger.AppendSpend(spendTx); err != nil {
			t.Fatalf("ledger append failed: %v", err)
		}
	})

	t.Run("Many Coins One Accumulator", func(t *testing.T) {
		env := newProtocolEnv(t)
		infos := make([]*coin.SpendingInfo, 0, 6)
		for i := 0; i < 6; i++ {
			infos = append(infos, env.mintCoin(t, uint64(100+i)))
		}
		root, err := env.tree.Root()
		if err != nil {
			t.Fatalf("root failed: %v", err)
		}
		// Every coin spends against the shared root, in arbitrary order.
		for _, i := range []int{3, 0, 5, 1, 4, 2} {
			spendTx, err := coin.CreateSpendTx(env.params, env.pair, infos[i], env.tree, rand.Reader)
			if err != nil {
				t.Fatalf("spend of coin %d failed: %v", i, err)
			}
			if err := coin.VerifySpendTx(env.params, root, spendTx); err != nil {
				t.Fatalf("verification of coin %d failed: %v", i, err)
			}
			if err := env.ledger.AppendSpend(spendTx); err != nil {
				t.Fatalf("ledger append of coin %d failed: %v", i, err)
			}
		}
		if len(env.ledger.Tags) != 6 {
			t.Fatalf("expected 6 tags, got %d", len(env.ledger.Tags))
		}
	})
}

// =============================================================================
// 3. SECURITY PROPERTY TESTS
// =============================================================================

func TestSecurityProperties(t *testing.T) {
	t.Run("Double Spend Detected", func(t *testing.T) {
		env := newProtocolEnv(t)
		info := env.mintCoin(t, 50)
		root, err := env.tree.Root()
		if err != nil {
			t.Fatalf("root failed: %v", err)
		}

		first, err := coin.CreateSpendTx(env.params, env.pair, info, env.tree, rand.Reader)
		if err != nil {
			t.Fatalf("first spend failed: %v", err)
		}
		second, err := coin.CreateSpendTx(env.params, env.pair, info, env.tree, rand.Reader)
		if err != nil {
			t.Fatalf("second spend failed: %v", err)
		}
		if !bytes.Equal(first.Tag, second.Tag) {
			t.Fatal("two spends of one coin produced different tags")
		}
		if err := coin.VerifySpendTx(env.params, root, second); err != nil {
			t.Fatalf("second spend verification failed: %v", err)
		}
		if err := env.ledger.AppendSpend(first); err != nil {
			t.Fatalf("first append failed: %v", err)
		}
		if err := env.ledger.AppendSpend(second); !errors.Is(err, coin.ErrDoubleSpend) {
			t.Fatalf("expected ErrDoubleSpend, got %v", err)
		}
	})

	t.Run("Foreign Key Cannot Spend", func(t *testing.T) {
		env := newProtocolEnv(t)
		info := env.mintCoin(t, 50)
		thiefSk, _, err := coin.GenerateKeys(env.params, rand.Reader)
		if err != nil {
			t.Fatalf("key generation failed: %v", err)
		}
		stolen := *info
		stolen.Sk = thiefSk
		if _, err := coin.CreateSpendTx(env.params, env.pair, &stolen, env.tree, rand.Reader); err != coin.ErrOwnershipMismatch {
			t.Fatalf("expected ErrOwnershipMismatch, got %v", err)
		}
	})

	t.Run("Spend Against Foreign Accumulator Rejected", func(t *testing.T) {
		env := newProtocolEnv(t)
		other := newProtocolEnv(t)
		info := env.mintCoin(t, 50)
		other.mintCoin(t, 50)

		spendTx, err := coin.CreateSpendTx(env.params, env.pair, info, env.tree, rand.Reader)
		if err != nil {
			t.Fatalf("spend failed: %v", err)
		}
		otherRoot, err := other.tree.Root()
		if err != nil {
			t.Fatalf("root failed: %v", err)
		}
		if err := coin.VerifySpendTx(env.params, otherRoot, spendTx); !errors.Is(err, r1cs.ErrVerification) {
			t.Fatalf("expected ErrVerification, got %v", err)
		}
	})

	t.Run("Tampered Spend Fields Rejected", func(t *testing.T) {
		env := newProtocolEnv(t)
		info := env.mintCoin(t, 50)
		root, err := env.tree.Root()
		if err != nil {
			t.Fatalf("root failed: %v", err)
		}
		fresh := func() *coin.SpendTx {
			tx, err := coin.CreateSpendTx(env.params, env.pair, info, env.tree, rand.Reader)
			if err != nil {
				t.Fatalf("spend failed: %v", err)
			}
			return tx
		}
		odd := env.params.Odd
		foreign := odd.Pc.B.ScalarMul(odd.Curve.ScalarFromUint64(11)).Bytes()

		cases := map[string]func(*coin.SpendTx){
			"tag":         func(tx *coin.SpendTx) { tx.Tag = foreign },
			"pk":          func(tx *coin.SpendTx) { tx.RerandomizedPk = foreign },
			"xcommitment": func(tx *coin.SpendTx) { tx.XCommitment = foreign },
			"odd proof":   func(tx *coin.SpendTx) { tx.OddProof = tx.OddProof[:len(tx.OddProof)-1] },
			"even proof":  func(tx *coin.SpendTx) { tx.EvenProof = tx.EvenProof[:len(tx.EvenProof)-1] },
		}
		for name, mutate := range cases {
			tx := fresh()
			mutate(tx)
			if err := coin.VerifySpendTx(env.params, root, tx); !errors.Is(err, r1cs.ErrVerification) {
				t.Fatalf("tampered %s accepted: %v", name, err)
			}
		}
	})
}

// =============================================================================
// 4. PERFORMANCE/TIMING TESTS
// =============================================================================

func TestProtocolTiming(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing measurements in short mode")
	}
	env := newProtocolEnv(t)

	start := time.Now()
	info := env.mintCoin(t, 1000)
	t.Logf("mint + combine + insert: %v", time.Since(start))

	root, err := env.tree.Root()
	if err != nil {
		t.Fatalf("root failed: %v", err)
	}

	start = time.Now()
	spendTx, err := coin.CreateSpendTx(env.params, env.pair, info, env.tree, rand.Reader)
	if err != nil {
		t.Fatalf("spend failed: %v", err)
	}
	proveDuration := time.Since(start)

	start = time.Now()
	if err := coin.VerifySpendTx(env.params, root, spendTx); err != nil {
		t.Fatalf("spend verification failed: %v", err)
	}
	verifyDuration := time.Since(start)

	t.Logf("spend prove: %v, verify: %v", proveDuration, verifyDuration)
	t.Logf("spend tx size: even proof %d bytes, odd proof %d bytes", len(spendTx.EvenProof), len(spendTx.OddProof))
}
