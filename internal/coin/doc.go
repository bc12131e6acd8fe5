// Package coin implements the privacy-preserving coin protocol: minting a
// coin with a range-proven value, folding it into a single permissible
// commitment insertable into the public accumulator, and spending it with an
// anonymous membership proof, an ownership proof and an unlinkable
// double-spend tag.
//
// All protocol functions take an explicit parameter set and curve pair; no
// package-level state exists. Proof sessions are single-owner: one transcript
// per prover or verifier, never shared.
package coin
