// errors.go - Error kinds of the coin protocol.

package coin

import "errors"

// ErrRangeProof marks a range gadget that failed to construct or verify.
// Fatal to the mint or spend it is part of.
var ErrRangeProof = errors.New("coin: range proof failed")

// ErrUnspendable marks a coin whose ownership scalar is zero and therefore
// not invertible. The coin must be re-minted, not spent.
var ErrUnspendable = errors.New("coin: ownership scalar is not invertible")

// ErrPathMismatch marks a recommitment that does not reproduce the
// accumulator path's leaf. This is an integration bug, never adversarial
// input, and is surfaced loudly instead of being folded into a quiet
// verification failure.
var ErrPathMismatch = errors.New("coin: recommitment does not match accumulator path")

// ErrOwnershipMismatch marks an ownership commitment that does not reproduce
// the rerandomized public key. Like ErrPathMismatch it indicates broken
// blinding bookkeeping on the prover side.
var ErrOwnershipMismatch = errors.New("coin: ownership commitment does not match rerandomized key")

// ErrDoubleSpend is returned by the ledger when a spending tag is already
// recorded.
var ErrDoubleSpend = errors.New("coin: double-spend detected, tag already in ledger")
