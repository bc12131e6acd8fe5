// main.go - End-to-end walkthrough of the coin protocol.
//
// This demonstrates the full lifecycle of one coin:
//   - a recipient generates a key pair
//   - a mint produces the coin with a range-proven value commitment
//   - the minting output is folded into its permissible form and inserted
//     into the public accumulator
//   - the owner spends it: membership, ownership and tag proofs across the
//     two-curve cycle
//   - the verifier checks the spend against the accumulator root, and the
//     ledger detects a second spend of the same coin by tag collision
//
// Usage:
//   go run main.go

package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"

	"curvecash/internal/coin"
	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
)

const treeCapacity = 64

func main() {
	log.Println("=== curvecash: mint / combine / spend walkthrough ===")

	// 1. Public parameters over the BN254/Grumpkin cycle.
	pair := curves.NewCurvePair()
	params := curvetree.NewSelRerandParameters(pair, treeCapacity)
	tree := curvetree.NewCurveTree(params, pair)
	ledger := coin.NewLedger()

	// 2. Recipient key pair.
	sk, pk, err := coin.GenerateKeys(params, rand.Reader)
	if err != nil {
		log.Fatalf("key generation failed: %v", err)
	}
	log.Printf("Recipient key: %x", pk.Bytes())

	// 3. Mint a coin of value 1337.
	mintTx, c, mo, err := coin.CreateMintTx(params, 1337, pk, rand.Reader)
	if err != nil {
		log.Fatalf("mint failed: %v", err)
	}
	if err := coin.VerifyMintTx(params, mintTx); err != nil {
		log.Fatalf("mint verification failed: %v", err)
	}
	log.Printf("Minted coin, value commitment %x", mintTx.ValueCommitment)

	// 4. Fold into the permissible form and insert into the accumulator.
	permissible, err := coin.CombineIntoPermissible(params, pair, mo)
	if err != nil {
		log.Fatalf("combine failed: %v", err)
	}
	index, err := tree.Insert(permissible.Coin)
	if err != nil {
		log.Fatalf("accumulator insert failed: %v", err)
	}
	ledger.AppendMint(mintTx, fmt.Sprintf("%x", permissible.Coin.Bytes()))
	log.Printf("Inserted permissible coin at index %d", index)

	// 5. Spend the coin.
	info := &coin.SpendingInfo{
		Index:       index,
		Coin:        c,
		Output:      mo,
		Permissible: permissible,
		Sk:          sk,
	}
	spendTx, err := coin.CreateSpendTx(params, pair, info, tree, rand.Reader)
	if err != nil {
		log.Fatalf("spend failed: %v", err)
	}
	root, err := tree.Root()
	if err != nil {
		log.Fatalf("root computation failed: %v", err)
	}
	if err := coin.VerifySpendTx(params, root, spendTx); err != nil {
		log.Fatalf("spend verification failed: %v", err)
	}
	if err := ledger.AppendSpend(spendTx); err != nil {
		log.Fatalf("ledger append failed: %v", err)
	}
	log.Printf("Spend accepted, tag %s", spendTx.TagKey())

	// 6. A second spend of the same coin produces the same tag and is
	// rejected by the ledger.
	secondTx, err := coin.CreateSpendTx(params, pair, info, tree, rand.Reader)
	if err != nil {
		log.Fatalf("second spend failed: %v", err)
	}
	if err := coin.VerifySpendTx(params, root, secondTx); err != nil {
		log.Fatalf("second spend verification failed: %v", err)
	}
	if err := ledger.AppendSpend(secondTx); !errors.Is(err, coin.ErrDoubleSpend) {
		log.Fatalf("expected double-spend detection, got %v", err)
	}
	log.Printf("Double spend detected by tag collision: %s", secondTx.TagKey())

	log.Println("=== Walkthrough complete ===")
}
